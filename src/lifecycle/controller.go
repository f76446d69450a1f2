package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/warp-contracts/mindshare/src/chain"
	"github.com/warp-contracts/mindshare/src/encryption"
	"github.com/warp-contracts/mindshare/src/journal"
	"github.com/warp-contracts/mindshare/src/notify"
	"github.com/warp-contracts/mindshare/src/repository"
	"github.com/warp-contracts/mindshare/src/stats"
	"github.com/warp-contracts/mindshare/src/utils/config"
	"github.com/warp-contracts/mindshare/src/utils/eth"
	"github.com/warp-contracts/mindshare/src/utils/logger"
	"github.com/warp-contracts/mindshare/src/utils/model"
	"github.com/warp-contracts/mindshare/src/utils/monitoring"
	"github.com/warp-contracts/mindshare/src/utils/monitoring/report"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
)

// Client of the encryption service, as used by the controller
type Encryption interface {
	Initialize(ctx context.Context, address common.Address) error
	IsReadyFor(address common.Address) bool
	State() encryption.State
	Reset()
	Encrypt(ctx context.Context, contractAddress, callerAddress common.Address, value int64) (*encryption.EncryptedInput, error)
	RequestRevealProof(ctx context.Context, handles []common.Hash, contractAddress common.Address) (*encryption.RevealProof, error)
}

type SubmitRequest struct {
	Title       string
	MoodScore   string
	SupportType model.SupportType
}

// Background initialization of the encryption session
type initialization struct {
	done chan struct{}
	err  error
}

func (self *initialization) isDone() bool {
	select {
	case <-self.done:
		return true
	default:
		return false
	}
}

// Drives records through submit and verify.
// Every mutation is followed by a reload of the repository.
type Controller struct {
	log *logrus.Entry

	config     *config.Config
	contract   chain.Contract
	repository *repository.Repository
	gateway    Encryption
	notifier   *notify.Notifier
	journal    *journal.Journal
	monitor    monitoring.Monitor
	now        func() time.Time

	// Connected wallet
	mtx        sync.Mutex
	connected  bool
	address    common.Address
	signer     *bind.TransactOpts
	init       *initialization
	initCtx    context.Context
	initCancel context.CancelFunc

	// Values revealed in this session, by business id
	reveals sync.Map

	// Busy flags, one operation of each kind at a time
	isSubmitting atomic.Bool
	isVerifying  atomic.Bool
}

func NewController(config *config.Config) (self *Controller) {
	self = new(Controller)
	self.log = logger.NewSublogger("lifecycle")
	self.config = config
	self.now = time.Now
	return
}

func (self *Controller) WithContract(v chain.Contract) *Controller {
	self.contract = v
	return self
}

func (self *Controller) WithRepository(v *repository.Repository) *Controller {
	self.repository = v
	return self
}

func (self *Controller) WithEncryption(v Encryption) *Controller {
	self.gateway = v
	return self
}

func (self *Controller) WithNotifier(v *notify.Notifier) *Controller {
	self.notifier = v
	return self
}

func (self *Controller) WithJournal(v *journal.Journal) *Controller {
	self.journal = v
	return self
}

func (self *Controller) WithMonitor(v monitoring.Monitor) *Controller {
	self.monitor = v
	return self
}

// Connects the wallet given by a hex encoded private key
func (self *Controller) Connect(privateKeyHex string) (address common.Address, err error) {
	address, opts, err := eth.NewTransactor(privateKeyHex, self.config.Chain.ChainId)
	if err != nil {
		return
	}
	self.ConnectSigner(address, opts)
	return
}

// Sets the connected wallet and starts initializing encryption for it in the background.
// Switching to another address forces a new initialization.
func (self *Controller) ConnectSigner(address common.Address, opts *bind.TransactOpts) {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	if self.connected && self.address == address {
		self.signer = opts
		return
	}

	self.disconnect()

	self.connected = true
	self.address = address
	self.signer = opts
	self.initCtx, self.initCancel = context.WithCancel(context.Background())

	self.log.WithField("address", address.Hex()).Info("Wallet connected")
	self.startInitialization()
}

func (self *Controller) Disconnect() {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	self.disconnect()
}

// Requires the lock
func (self *Controller) disconnect() {
	if !self.connected {
		return
	}

	self.log.WithField("address", self.address.Hex()).Info("Wallet disconnected")

	self.initCancel()
	self.gateway.Reset()
	self.reveals.Range(func(key, value any) bool {
		self.reveals.Delete(key)
		return true
	})

	self.connected = false
	self.address = common.Address{}
	self.signer = nil
	self.init = nil
}

// Requires the lock
func (self *Controller) startInitialization() *initialization {
	run := &initialization{done: make(chan struct{})}
	self.init = run

	ctx, address := self.initCtx, self.address
	go func() {
		defer close(run.done)

		run.err = self.gateway.Initialize(ctx, address)
		if run.err == nil || errors.Is(run.err, context.Canceled) {
			return
		}

		self.log.WithError(run.err).Error("Encryption initialization failed")
		self.notifier.Error(MsgEncryptionInitError)
		if c := self.counters(); c != nil {
			c.Errors.EncryptionInitFailures.Inc()
		}
	}()
	return run
}

// Waits until encryption is ready for the connected wallet. A failed initialization is started again.
func (self *Controller) WaitForEncryption(ctx context.Context) error {
	self.mtx.Lock()
	if !self.connected {
		self.mtx.Unlock()
		return ErrNotConnected
	}
	if self.gateway.IsReadyFor(self.address) {
		self.mtx.Unlock()
		return nil
	}

	run := self.init
	if run == nil || run.isDone() {
		run = self.startInitialization()
	}
	self.mtx.Unlock()

	select {
	case <-run.done:
		if run.err != nil && !errors.Is(run.err, encryption.ErrEncryptionUnavailable) {
			return fmt.Errorf("%w: %w", encryption.ErrEncryptionUnavailable, run.err)
		}
		return run.err
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", encryption.ErrEncryptionUnavailable, ctx.Err())
	}
}

func (self *Controller) wallet() (address common.Address, opts *bind.TransactOpts, ok bool) {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	return self.address, self.signer, self.connected
}

// Connected address, if any
func (self *Controller) Address() (common.Address, bool) {
	address, _, ok := self.wallet()
	return address, ok
}

func (self *Controller) EncryptionState() encryption.State {
	return self.gateway.State()
}

func (self *Controller) ContractAddress() string {
	return self.contract.GetAddress().Hex()
}

func (self *Controller) IsSubmitting() bool {
	return self.isSubmitting.Load()
}

func (self *Controller) IsVerifying() bool {
	return self.isVerifying.Load()
}

// Value revealed in this session, nil if none
func (self *Controller) Reveal(businessId string) *uint32 {
	v, ok := self.reveals.Load(businessId)
	if !ok {
		return nil
	}
	value := v.(uint32)
	return &value
}

func (self *Controller) begin(ctx context.Context, kind model.OperationKind, businessId string, address common.Address) *model.Operation {
	if self.journal == nil {
		return nil
	}
	op, err := self.journal.Begin(ctx, kind, businessId, address.Hex())
	if err != nil {
		return nil
	}
	return op
}

func (self *Controller) finish(ctx context.Context, op *model.Operation, outcome journal.Outcome) {
	if self.journal == nil || op == nil {
		return
	}
	// Journal failures are logged and counted by the journal
	_ = self.journal.Finish(ctx, op, outcome)
}

func (self *Controller) counters() *report.RecordsReport {
	if self.monitor == nil {
		return nil
	}
	return self.monitor.GetReport().Records
}

// Fresh snapshot of records, the status shows an error on failure
func (self *Controller) Reload(ctx context.Context) (records []model.Record, err error) {
	records, err = self.repository.Reload(ctx)
	if err != nil {
		self.log.WithError(err).Error("Failed to reload records")
		self.notifier.Error(MsgLoadFailed)
		return nil, fmt.Errorf("%w: %w", ErrReloadFailed, err)
	}
	return
}

// Current snapshot of records
func (self *Controller) Records(ctx context.Context) (records []model.Record, err error) {
	records, err = self.repository.Snapshot(ctx)
	if err != nil {
		self.notifier.Error(MsgLoadFailed)
		return nil, fmt.Errorf("%w: %w", ErrReloadFailed, err)
	}
	return
}

func (self *Controller) Record(ctx context.Context, businessId string) (record *model.Record, err error) {
	record, err = self.repository.Get(ctx, businessId)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReloadFailed, err)
	}
	return
}

// Statistics of the current snapshot
func (self *Controller) Stats(ctx context.Context) (out model.SupportStats, err error) {
	records, err := self.Records(ctx)
	if err != nil {
		return
	}
	return stats.Compute(records), nil
}

// Asks the contract whether the encryption system is available
func (self *Controller) CheckAvailability(ctx context.Context) (available bool, err error) {
	available, err = self.contract.IsAvailable(ctx)
	if err != nil {
		self.log.WithError(err).Warn("Availability check failed")
		self.notifier.Error(MsgAvailabilityFailed)
		if c := self.counters(); c != nil {
			c.Errors.AvailabilityFailures.Inc()
		}
		return false, fmt.Errorf("%w: %w", ErrAvailabilityFailed, err)
	}

	if available {
		self.notifier.Success(MsgAvailable)
	}
	return
}
