package lifecycle

import (
	"context"
	"fmt"

	"github.com/warp-contracts/mindshare/src/chain"
	"github.com/warp-contracts/mindshare/src/chain/chaintest"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

// Contract where another wallet verifies the record right before our proof lands
type racingContract struct {
	*chaintest.Contract
	other common.Address
	value uint32
}

func (self *racingContract) VerifyDecryption(ctx context.Context, opts *bind.TransactOpts, businessId string, abiEncodedClearValues, decryptionProof []byte) (chain.Transaction, error) {
	data, ok := self.Data(businessId)
	if ok {
		data.IsVerified = true
		data.DecryptedValue = self.value
		self.Put(businessId, data, common.Hash{})
	}
	return self.Contract.VerifyDecryption(ctx, &bind.TransactOpts{From: self.other}, businessId, abiEncodedClearValues, decryptionProof)
}

// Transaction that gets mined once released, its Wait gives up when ctx is done
type pendingTransaction struct {
	chain.Transaction
	mined <-chan struct{}
}

func (self *pendingTransaction) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-self.mined:
	}
	return self.Transaction.Wait(ctx)
}

// Contract whose transactions stay pending until mined is closed
type slowContract struct {
	*chaintest.Contract
	sent  chan struct{}
	mined chan struct{}
}

func newSlowContract(contract *chaintest.Contract) *slowContract {
	return &slowContract{Contract: contract, sent: make(chan struct{}, 2), mined: make(chan struct{})}
}

func (self *slowContract) CreateBusinessData(ctx context.Context, opts *bind.TransactOpts, in *chain.CreateBusinessDataInput) (chain.Transaction, error) {
	tx, err := self.Contract.CreateBusinessData(ctx, opts, in)
	if err != nil {
		return nil, err
	}
	self.sent <- struct{}{}
	return &pendingTransaction{Transaction: tx, mined: self.mined}, nil
}

func (self *slowContract) VerifyDecryption(ctx context.Context, opts *bind.TransactOpts, businessId string, abiEncodedClearValues, decryptionProof []byte) (chain.Transaction, error) {
	tx, err := self.Contract.VerifyDecryption(ctx, opts, businessId, abiEncodedClearValues, decryptionProof)
	if err != nil {
		return nil, err
	}
	self.sent <- struct{}{}
	return &pendingTransaction{Transaction: tx, mined: self.mined}, nil
}

// Contract where another wallet's proof is mined first, ours reverts without a reason
type revertingContract struct {
	*chaintest.Contract
	value uint32
}

func (self *revertingContract) VerifyDecryption(ctx context.Context, opts *bind.TransactOpts, businessId string, abiEncodedClearValues, decryptionProof []byte) (chain.Transaction, error) {
	data, ok := self.Data(businessId)
	if ok {
		data.IsVerified = true
		data.DecryptedValue = self.value
		self.Put(businessId, data, common.Hash{})
	}
	return &chaintest.Transaction{
		TxHash: common.HexToHash("0xdead"),
		Err:    fmt.Errorf("%w: verifyDecryption", chain.ErrTransactionReverted),
	}, nil
}
