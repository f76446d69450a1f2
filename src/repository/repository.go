package repository

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/warp-contracts/mindshare/src/chain"
	"github.com/warp-contracts/mindshare/src/utils/config"
	"github.com/warp-contracts/mindshare/src/utils/model"
	"github.com/warp-contracts/mindshare/src/utils/monitoring"
	"github.com/warp-contracts/mindshare/src/utils/task"

	"github.com/patrickmn/go-cache"
)

const snapshotKey = "snapshot"

// Read path of the records contract. Materializes all records into a snapshot
// that is served until it expires or gets invalidated.
type Repository struct {
	*task.Task

	monitor monitoring.Monitor
	reader  chain.Reader
	cache   *cache.Cache
	now     func() time.Time

	// Serializes loads, so concurrent readers share one fetch
	loadMtx sync.Mutex

	// Bumped on every invalidation. A load started before it never gets cached.
	generation atomic.Uint64
}

func NewRepository(config *config.Config) (self *Repository) {
	self = new(Repository)
	self.now = time.Now

	ttl := config.Repository.SnapshotTTL
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	self.cache = cache.New(ttl, 10*time.Minute)

	refresh := config.Repository.RefreshInterval
	if refresh <= 0 {
		refresh = time.Minute
	}

	self.Task = task.NewTask(config, "repository").
		WithWorkerPool(config.Repository.DetailWorkers).
		WithPeriodicSubtaskFunc(refresh, self.refresh)

	return
}

func (self *Repository) WithReader(v chain.Reader) *Repository {
	self.reader = v
	return self
}

func (self *Repository) WithMonitor(v monitoring.Monitor) *Repository {
	self.monitor = v
	return self
}

func (self *Repository) WithClock(v func() time.Time) *Repository {
	self.now = v
	return self
}

// Enumerates all business ids and fetches every record. A failing record is skipped.
func (self *Repository) LoadAll(ctx context.Context) (records []model.Record, err error) {
	ids, err := self.reader.GetAllBusinessIds(ctx)
	if err != nil {
		self.Log.WithError(err).Error("Failed to get business ids")
		if self.monitor != nil {
			self.monitor.GetReport().Records.Errors.RepositoryLoadFailures.Inc()
		}
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}

	var (
		wg      sync.WaitGroup
		mtx     sync.Mutex
		skipped LoadPartialFailure
		now     = self.now()
		results = make([]*model.Record, len(ids))
	)

	for i, id := range ids {
		i, id := i, id
		wg.Add(1)
		ok := self.SubmitToWorker(func() {
			defer wg.Done()

			data, err := self.reader.GetBusinessData(ctx, id)
			if err != nil {
				self.Log.WithError(err).WithField("businessId", id).Warn("Failed to load record, skipping")
				mtx.Lock()
				skipped.add(id, err)
				mtx.Unlock()
				return
			}

			record := mapRecord(id, data, now)
			results[i] = &record
		})
		if !ok {
			wg.Done()
			wg.Wait()
			return nil, ErrStopping
		}
	}
	wg.Wait()

	if ctx.Err() != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, ctx.Err())
	}

	// Keep the contract's order
	records = make([]model.Record, 0, len(ids))
	var verified int64
	for _, r := range results {
		if r == nil {
			continue
		}
		if r.IsVerified {
			verified++
		}
		records = append(records, *r)
	}

	if len(skipped.Failures) > 0 {
		self.Log.WithError(&skipped).Warn("Partial load")
	}

	if self.monitor != nil {
		report := self.monitor.GetReport().Records
		report.State.RepositoryLoads.Inc()
		report.State.RepositoryRecords.Store(int64(len(records)))
		report.State.RepositoryVerified.Store(verified)
		report.Errors.RepositoryDetailSkipped.Add(uint64(len(skipped.Failures)))
	}

	self.Log.WithField("num", len(records)).WithField("skipped", len(skipped.Failures)).Debug("Loaded records")
	return
}

// Current snapshot, loaded if there's none
func (self *Repository) Snapshot(ctx context.Context) (records []model.Record, err error) {
	if cached, ok := self.cached(); ok {
		return cached, nil
	}

	self.loadMtx.Lock()
	defer self.loadMtx.Unlock()

	// Someone else might have loaded it while waiting
	if cached, ok := self.cached(); ok {
		return cached, nil
	}

	return self.load(ctx)
}

// Drops the snapshot, next read fetches everything again
func (self *Repository) Invalidate() {
	self.generation.Add(1)
	self.cache.Delete(snapshotKey)
}

// Invalidates and loads a fresh snapshot. Never served from the cache,
// loads running meanwhile can't overwrite the result.
func (self *Repository) Reload(ctx context.Context) ([]model.Record, error) {
	self.Invalidate()

	self.loadMtx.Lock()
	defer self.loadMtx.Unlock()

	return self.load(ctx)
}

// Requires loadMtx
func (self *Repository) load(ctx context.Context) (records []model.Record, err error) {
	generation := self.generation.Load()

	records, err = self.LoadAll(ctx)
	if err != nil {
		return
	}

	if generation == self.generation.Load() {
		self.cache.SetDefault(snapshotKey, records)
	} else {
		self.Log.Debug("Snapshot invalidated while loading, not caching")
	}
	return clone(records), nil
}

// Keeps the snapshot warm while the service is running.
// The previous snapshot is served until the new one is loaded.
func (self *Repository) refresh() error {
	self.loadMtx.Lock()
	defer self.loadMtx.Unlock()

	records, err := self.load(self.Ctx)
	if err != nil {
		self.Log.WithError(err).Warn("Failed to refresh records")
		return nil
	}
	self.Log.WithField("count", len(records)).Debug("Refreshed records")
	return nil
}

// Record from the current snapshot
func (self *Repository) Get(ctx context.Context, businessId string) (record *model.Record, err error) {
	records, err := self.Snapshot(ctx)
	if err != nil {
		return
	}

	for i := range records {
		if records[i].BusinessId == businessId {
			return &records[i], nil
		}
	}
	return nil, nil
}

func (self *Repository) cached() ([]model.Record, bool) {
	v, ok := self.cache.Get(snapshotKey)
	if !ok {
		return nil, false
	}
	return clone(v.([]model.Record)), true
}

func clone(records []model.Record) []model.Record {
	out := make([]model.Record, len(records))
	copy(out, records)
	return out
}
