package response

import (
	"github.com/warp-contracts/mindshare/src/utils/model"
)

type Status struct {
	model.TransactionStatus

	Address         string `json:"address,omitempty"`
	ContractAddress string `json:"contractAddress"`
	Encryption      string `json:"encryption"`
	IsSubmitting    bool   `json:"isSubmitting"`
	IsVerifying     bool   `json:"isVerifying"`

	History []model.TransactionStatus `json:"history"`
}

type Availability struct {
	Available bool `json:"available"`
}

type Operation struct {
	model.Operation
	RevealedValue *int64 `json:"revealedValue,omitempty"`
}

func OperationsToResponse(ops []model.Operation) []Operation {
	out := make([]Operation, len(ops))
	for i, op := range ops {
		out[i] = Operation{Operation: op}
		if op.RevealedValue.Valid {
			v := op.RevealedValue.Int64
			out[i].RevealedValue = &v
		}
	}
	return out
}
