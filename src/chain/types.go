package chain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

// Opaque reference to an encrypted value stored on-chain
type Handle = common.Hash

// Record detail as returned by getBusinessData
type BusinessData struct {
	Name           string
	PublicValue1   *big.Int
	PublicValue2   *big.Int
	Creator        common.Address
	Timestamp      *big.Int
	IsVerified     bool
	DecryptedValue uint32
}

type CreateBusinessDataInput struct {
	BusinessId     string
	Name           string
	EncryptedValue Handle
	InputProof     []byte
	PublicValue1   int64
	PublicValue2   int64
	Description    string
}

// Submitted transaction
type Transaction interface {
	Hash() common.Hash
	Wait(ctx context.Context) error
}

// Idempotent reads of the records contract
type Reader interface {
	GetAllBusinessIds(ctx context.Context) ([]string, error)
	GetBusinessData(ctx context.Context, businessId string) (*BusinessData, error)
	GetEncryptedValue(ctx context.Context, businessId string) (Handle, error)
	IsAvailable(ctx context.Context) (bool, error)
	GetAddress() common.Address
}

// Transactional writes of the records contract
type Writer interface {
	CreateBusinessData(ctx context.Context, opts *bind.TransactOpts, in *CreateBusinessDataInput) (Transaction, error)
	VerifyDecryption(ctx context.Context, opts *bind.TransactOpts, businessId string, abiEncodedClearValues, decryptionProof []byte) (Transaction, error)
}

type Contract interface {
	Reader
	Writer
}
