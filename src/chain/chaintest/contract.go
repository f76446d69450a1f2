// Package chaintest provides an in-memory records contract for tests.
package chaintest

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/warp-contracts/mindshare/src/chain"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

var DefaultAddress = common.HexToAddress("0x00000000000000000000000000000000000c0de1")

// Mined transaction. Wait returns Err.
type Transaction struct {
	TxHash common.Hash
	Err    error
}

func (self *Transaction) Hash() common.Hash {
	return self.TxHash
}

func (self *Transaction) Wait(ctx context.Context) error {
	return self.Err
}

// Contract keeping records in memory. Errors set on the struct are returned by the matching method.
type Contract struct {
	mtx sync.Mutex

	Address   common.Address
	Available bool

	ids     []string
	data    map[string]*chain.BusinessData
	handles map[string]chain.Handle

	IdsErr       error
	DetailErrs   map[string]error
	HandleErr    error
	AvailableErr error
	CreateErr    error
	CreateTxErr  error
	VerifyErr    error
	VerifyTxErr  error

	IdsCalls    int
	DetailCalls int
	Created     []chain.CreateBusinessDataInput
	Verified    []string
}

func NewContract() *Contract {
	return &Contract{
		Address:    DefaultAddress,
		Available:  true,
		data:       make(map[string]*chain.BusinessData),
		handles:    make(map[string]chain.Handle),
		DetailErrs: make(map[string]error),
	}
}

// Adds a record as if it was created by creator
func (self *Contract) Put(businessId string, data chain.BusinessData, handle chain.Handle) {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	if _, ok := self.data[businessId]; !ok {
		self.ids = append(self.ids, businessId)
	}
	self.data[businessId] = &data
	self.handles[businessId] = handle
}

func (self *Contract) Data(businessId string) (data chain.BusinessData, ok bool) {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	v, ok := self.data[businessId]
	if ok {
		data = *v
	}
	return
}

func (self *Contract) GetAllBusinessIds(ctx context.Context) ([]string, error) {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	self.IdsCalls++
	if self.IdsErr != nil {
		return nil, self.IdsErr
	}
	return append([]string(nil), self.ids...), nil
}

func (self *Contract) GetBusinessData(ctx context.Context, businessId string) (*chain.BusinessData, error) {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	self.DetailCalls++
	if err := self.DetailErrs[businessId]; err != nil {
		return nil, err
	}
	v, ok := self.data[businessId]
	if !ok {
		return nil, fmt.Errorf("record %s not found", businessId)
	}
	out := *v
	return &out, nil
}

func (self *Contract) GetEncryptedValue(ctx context.Context, businessId string) (chain.Handle, error) {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	if self.HandleErr != nil {
		return chain.Handle{}, self.HandleErr
	}
	return self.handles[businessId], nil
}

func (self *Contract) IsAvailable(ctx context.Context) (bool, error) {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	return self.Available, self.AvailableErr
}

func (self *Contract) GetAddress() common.Address {
	return self.Address
}

func (self *Contract) hash(parts ...string) common.Hash {
	var buf []byte
	for _, p := range parts {
		buf = append(buf, p...)
	}
	return crypto.Keccak256Hash(buf)
}

func (self *Contract) CreateBusinessData(ctx context.Context, opts *bind.TransactOpts, in *chain.CreateBusinessDataInput) (chain.Transaction, error) {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	if self.CreateErr != nil {
		return nil, self.CreateErr
	}

	self.Created = append(self.Created, *in)
	tx := &Transaction{TxHash: self.hash("create", in.BusinessId), Err: self.CreateTxErr}
	if self.CreateTxErr != nil {
		return tx, nil
	}

	var creator common.Address
	if opts != nil {
		creator = opts.From
	}

	self.ids = append(self.ids, in.BusinessId)
	self.data[in.BusinessId] = &chain.BusinessData{
		Name:         in.Name,
		PublicValue1: big.NewInt(in.PublicValue1),
		PublicValue2: big.NewInt(in.PublicValue2),
		Creator:      creator,
		Timestamp:    big.NewInt(time.Now().Unix()),
	}
	self.handles[in.BusinessId] = in.EncryptedValue
	return tx, nil
}

// Stores the first 32 byte word of the clear values as the decrypted value
func (self *Contract) VerifyDecryption(ctx context.Context, opts *bind.TransactOpts, businessId string, abiEncodedClearValues, decryptionProof []byte) (chain.Transaction, error) {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	if self.VerifyErr != nil {
		return nil, self.VerifyErr
	}

	v, ok := self.data[businessId]
	if !ok {
		return nil, fmt.Errorf("%w: record %s not found", chain.ErrTransactionReverted, businessId)
	}
	if v.IsVerified {
		return nil, fmt.Errorf("%w: execution reverted", chain.ErrAlreadyVerified)
	}

	self.Verified = append(self.Verified, businessId)
	tx := &Transaction{TxHash: self.hash("verify", businessId), Err: self.VerifyTxErr}
	if self.VerifyTxErr != nil {
		return tx, nil
	}

	word := abiEncodedClearValues
	if len(word) > 32 {
		word = word[:32]
	}
	v.IsVerified = true
	v.DecryptedValue = uint32(new(big.Int).SetBytes(word).Uint64())
	return tx, nil
}
