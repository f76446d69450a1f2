package model

import (
	"encoding/json"
	"time"
)

type StatusKind string

const (
	StatusPending StatusKind = "pending"
	StatusSuccess StatusKind = "success"
	StatusError   StatusKind = "error"
)

// Transient status of the last operation. It is never persisted.
type TransactionStatus struct {
	Visible   bool       `json:"visible"`
	Status    StatusKind `json:"status"`
	Message   string     `json:"message"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func HiddenStatus() TransactionStatus {
	return TransactionStatus{Visible: false, Status: StatusPending, Message: ""}
}

func (self TransactionStatus) MarshalBinary() ([]byte, error) {
	return json.Marshal(self)
}
