package journal

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/warp-contracts/mindshare/src/utils/logger"
	"github.com/warp-contracts/mindshare/src/utils/model"
	"github.com/warp-contracts/mindshare/src/utils/monitoring"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrNotStarted = errors.New("operation wasn't started")

const DefaultListLimit = 100

// Audit trail of submit and verify attempts made by this process
type Journal struct {
	log     *logrus.Entry
	db      *gorm.DB
	monitor monitoring.Monitor
	now     func() time.Time
}

func NewJournal(db *gorm.DB) (self *Journal) {
	self = new(Journal)
	self.log = logger.NewSublogger("journal")
	self.db = db
	self.now = time.Now
	return
}

func (self *Journal) WithMonitor(v monitoring.Monitor) *Journal {
	self.monitor = v
	return self
}

func (self *Journal) onError(err error) error {
	if err != nil && self.monitor != nil {
		self.monitor.GetReport().Records.Errors.JournalFailures.Inc()
	}
	return err
}

// Saves a pending operation
func (self *Journal) Begin(ctx context.Context, kind model.OperationKind, businessId, address string) (op *model.Operation, err error) {
	now := self.now().UTC()
	op = &model.Operation{
		Id:         xid.New().String(),
		Kind:       kind,
		BusinessId: businessId,
		Address:    address,
		State:      model.OperationStatePending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err = self.db.WithContext(ctx).Create(op).Error
	if err != nil {
		self.log.WithError(err).WithField("kind", kind).Error("Failed to save operation")
		return nil, self.onError(err)
	}
	return
}

type Outcome struct {
	State         model.OperationState
	TxHash        string
	Err           error
	RevealedValue *uint32
}

// Stores the outcome of a started operation
func (self *Journal) Finish(ctx context.Context, op *model.Operation, outcome Outcome) (err error) {
	if op == nil || op.Id == "" {
		return ErrNotStarted
	}

	op.State = outcome.State
	op.TxHash = outcome.TxHash
	op.UpdatedAt = self.now().UTC()
	if outcome.Err != nil {
		op.Error = outcome.Err.Error()
	}
	if outcome.RevealedValue != nil {
		op.RevealedValue = sql.NullInt64{Int64: int64(*outcome.RevealedValue), Valid: true}
	}

	err = self.db.WithContext(ctx).
		Model(op).
		Select("state", "tx_hash", "error", "revealed_value", "updated_at").
		Updates(op).
		Error
	if err != nil {
		self.log.WithError(err).WithField("id", op.Id).Error("Failed to update operation")
		return self.onError(err)
	}
	return
}

// Latest operations, newest first
func (self *Journal) List(ctx context.Context, limit int) (out []model.Operation, err error) {
	if limit <= 0 || limit > DefaultListLimit {
		limit = DefaultListLimit
	}

	err = self.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&out).
		Error
	return out, self.onError(err)
}

// Operations for one record, oldest first
func (self *Journal) ListByBusinessId(ctx context.Context, businessId string) (out []model.Operation, err error) {
	err = self.db.WithContext(ctx).
		Where("business_id = ?", businessId).
		Order("created_at ASC").
		Order("id ASC").
		Find(&out).
		Error
	return out, self.onError(err)
}
