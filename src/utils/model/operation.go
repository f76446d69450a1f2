package model

import (
	"database/sql"
	"database/sql/driver"
	"time"
)

type OperationKind string

const (
	OperationSubmit OperationKind = "submit"
	OperationVerify OperationKind = "verify"
)

type OperationState string

const (
	OperationStatePending         OperationState = "pending"
	OperationStateSuccess         OperationState = "success"
	OperationStateAlreadyVerified OperationState = "already_verified"
	OperationStateFailed          OperationState = "failed"
)

func (self *OperationState) Scan(value interface{}) error {
	switch v := value.(type) {
	case string:
		*self = OperationState(v)
	case []byte:
		*self = OperationState(v)
	}
	return nil
}

func (self OperationState) Value() (driver.Value, error) {
	return string(self), nil
}

// Audit entry of a submit or verify attempt made from this process.
// The contract stays the only source of truth for records.
type Operation struct {
	Id            string         `gorm:"primaryKey; comment:Globally unique operation id" json:"id"`
	Kind          OperationKind  `gorm:"not null" json:"kind"`
	BusinessId    string         `gorm:"index; not null" json:"businessId"`
	Address       string         `json:"address"`
	State         OperationState `gorm:"not null" json:"state"`
	TxHash        string         `json:"txHash,omitempty"`
	Error         string         `json:"error,omitempty"`
	RevealedValue sql.NullInt64  `json:"-"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

func (Operation) TableName() string {
	return TableOperation
}

const TableOperation = "operations"
