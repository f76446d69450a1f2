package repository

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/warp-contracts/mindshare/src/chain"
	"github.com/warp-contracts/mindshare/src/chain/chaintest"
	"github.com/warp-contracts/mindshare/src/utils/config"
	"github.com/warp-contracts/mindshare/src/utils/model"
	monitor_records "github.com/warp-contracts/mindshare/src/utils/monitoring/records"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/suite"
)

var creator = common.HexToAddress("0x00000000000000000000000000000000000a11ce")

// Blocks the first detail fetch until released
type gatedReader struct {
	*chaintest.Contract
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func newGatedReader(contract *chaintest.Contract) *gatedReader {
	return &gatedReader{
		Contract: contract,
		entered:  make(chan struct{}),
		release:  make(chan struct{}),
	}
}

func (self *gatedReader) GetBusinessData(ctx context.Context, businessId string) (*chain.BusinessData, error) {
	first := false
	self.once.Do(func() { first = true })
	if first {
		close(self.entered)
		<-self.release
	}
	return self.Contract.GetBusinessData(ctx, businessId)
}

func TestRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}

type RepositoryTestSuite struct {
	suite.Suite
	ctx        context.Context
	cancel     context.CancelFunc
	config     *config.Config
	contract   *chaintest.Contract
	monitor    *monitor_records.Monitor
	repository *Repository
}

func (s *RepositoryTestSuite) SetupTest() {
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.config = config.Default()
	s.config.Repository.DetailWorkers = 3

	s.contract = chaintest.NewContract()
	for i, id := range []string{"record-1700000000001", "record-1700000000002", "record-1700000000003"} {
		s.contract.Put(id, chain.BusinessData{
			Name:         "Title " + id,
			PublicValue1: big.NewInt(int64(i + 5)),
			PublicValue2: big.NewInt(0),
			Creator:      creator,
			Timestamp:    big.NewInt(1700000000 + int64(i)),
		}, common.BigToHash(big.NewInt(int64(i+1))))
	}

	s.monitor = monitor_records.NewMonitor()
	s.repository = NewRepository(s.config).
		WithReader(s.contract).
		WithMonitor(s.monitor)
}

func (s *RepositoryTestSuite) TearDownTest() {
	s.cancel()
	s.repository.Workers.StopWait()
}

func (s *RepositoryTestSuite) TestLoadAllKeepsOrder() {
	records, err := s.repository.LoadAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(records, 3)

	for i, r := range records {
		s.Require().Equal(int64(1700000000001+i), r.Id)
		s.Require().Equal("Title "+r.BusinessId, r.Title)
		s.Require().Equal(int64(i+5), r.PublicValue1)
		s.Require().Equal(creator.Hex(), r.Creator)
		s.Require().False(r.IsVerified)
		s.Require().Nil(r.DecryptedValue)
	}
	s.Require().Equal(int64(3), s.monitor.Report.Records.State.RepositoryRecords.Load())
}

func (s *RepositoryTestSuite) TestLoadAllSkipsFailingRecord() {
	s.contract.DetailErrs["record-1700000000002"] = errors.New("node timeout")

	records, err := s.repository.LoadAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(records, 2)
	s.Require().Equal("record-1700000000001", records[0].BusinessId)
	s.Require().Equal("record-1700000000003", records[1].BusinessId)
	s.Require().Equal(uint64(1), s.monitor.Report.Records.Errors.RepositoryDetailSkipped.Load())
}

func (s *RepositoryTestSuite) TestLoadAllFailsWithoutIds() {
	s.contract.IdsErr = errors.New("connection refused")

	_, err := s.repository.LoadAll(s.ctx)
	s.Require().ErrorIs(err, ErrLoadFailed)
	s.Require().Equal(uint64(1), s.monitor.Report.Records.Errors.RepositoryLoadFailures.Load())
}

func (s *RepositoryTestSuite) TestLoadAllEmpty() {
	s.contract = chaintest.NewContract()
	s.repository.WithReader(s.contract)

	records, err := s.repository.LoadAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Empty(records)
}

func (s *RepositoryTestSuite) TestSnapshotIsCached() {
	_, err := s.repository.Snapshot(s.ctx)
	s.Require().NoError(err)
	_, err = s.repository.Snapshot(s.ctx)
	s.Require().NoError(err)
	s.Require().Equal(1, s.contract.IdsCalls)

	s.repository.Invalidate()
	_, err = s.repository.Snapshot(s.ctx)
	s.Require().NoError(err)
	s.Require().Equal(2, s.contract.IdsCalls)
}

func (s *RepositoryTestSuite) TestSnapshotExpires() {
	s.config.Repository.SnapshotTTL = 20 * time.Millisecond
	s.repository = NewRepository(s.config).WithReader(s.contract)

	_, err := s.repository.Snapshot(s.ctx)
	s.Require().NoError(err)

	time.Sleep(50 * time.Millisecond)
	_, err = s.repository.Snapshot(s.ctx)
	s.Require().NoError(err)
	s.Require().Equal(2, s.contract.IdsCalls)
}

func (s *RepositoryTestSuite) TestSnapshotReturnsCopy() {
	records, err := s.repository.Snapshot(s.ctx)
	s.Require().NoError(err)
	records[0].Title = "changed"

	records, err = s.repository.Snapshot(s.ctx)
	s.Require().NoError(err)
	s.Require().Equal("Title record-1700000000001", records[0].Title)
}

func (s *RepositoryTestSuite) TestReloadSeesNewRecords() {
	_, err := s.repository.Snapshot(s.ctx)
	s.Require().NoError(err)

	s.contract.Put("record-1700000000004", chain.BusinessData{
		Name:           "Verified",
		PublicValue1:   big.NewInt(9),
		IsVerified:     true,
		DecryptedValue: 8,
	}, common.Hash{})

	records, err := s.repository.Reload(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(records, 4)
	s.Require().True(records[3].IsVerified)
	s.Require().Equal(uint32(8), *records[3].DecryptedValue)
}

func (s *RepositoryTestSuite) TestReloadDuringLoadIsNotOverwritten() {
	reader := newGatedReader(s.contract)
	s.repository.WithReader(reader)

	// Load started before the mutation
	stale := make(chan []model.Record, 1)
	go func() {
		records, _ := s.repository.Snapshot(s.ctx)
		stale <- records
	}()
	<-reader.entered

	s.contract.Put("record-1700000000004", chain.BusinessData{
		Name:         "Submitted",
		PublicValue1: big.NewInt(3),
	}, common.Hash{})

	reloaded := make(chan []model.Record, 1)
	go func() {
		records, _ := s.repository.Reload(s.ctx)
		reloaded <- records
	}()
	s.Require().Eventually(func() bool {
		return s.repository.generation.Load() == 1
	}, time.Second, time.Millisecond)

	close(reader.release)
	s.Require().Len(<-stale, 3)
	s.Require().Len(<-reloaded, 4)

	// Cache holds the reloaded snapshot
	records, err := s.repository.Snapshot(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(records, 4)
	s.Require().Equal("record-1700000000004", records[3].BusinessId)
}

func (s *RepositoryTestSuite) TestReloadIgnoresCache() {
	_, err := s.repository.Snapshot(s.ctx)
	s.Require().NoError(err)

	_, err = s.repository.Reload(s.ctx)
	s.Require().NoError(err)
	_, err = s.repository.Reload(s.ctx)
	s.Require().NoError(err)
	s.Require().Equal(3, s.contract.IdsCalls)
}

func (s *RepositoryTestSuite) TestRefreshReplacesSnapshot() {
	_, err := s.repository.Snapshot(s.ctx)
	s.Require().NoError(err)

	s.contract.Put("record-1700000000004", chain.BusinessData{Name: "New"}, common.Hash{})
	s.Require().NoError(s.repository.refresh())

	records, err := s.repository.Snapshot(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(records, 4)
	s.Require().Equal(2, s.contract.IdsCalls)
}

func (s *RepositoryTestSuite) TestGet() {
	record, err := s.repository.Get(s.ctx, "record-1700000000002")
	s.Require().NoError(err)
	s.Require().NotNil(record)
	s.Require().Equal("Title record-1700000000002", record.Title)

	record, err = s.repository.Get(s.ctx, "record-missing")
	s.Require().NoError(err)
	s.Require().Nil(record)
}

func (s *RepositoryTestSuite) TestLoadAllWhenStopping() {
	s.repository.IsStopping.Store(true)

	_, err := s.repository.LoadAll(s.ctx)
	s.Require().ErrorIs(err, ErrStopping)
}
