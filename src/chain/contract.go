package chain

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/warp-contracts/mindshare/src/utils/logger"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/sirupsen/logrus"
)

// Everything needed to read, write and wait for transactions
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
}

// Records contract accessed through go-ethereum bindings
type EthContract struct {
	log *logrus.Entry

	address  common.Address
	abi      abi.ABI
	bound    *bind.BoundContract
	backend  bind.DeployBackend
	callTime time.Duration
	waitTime time.Duration
}

func NewEthContract(address string, caller bind.ContractCaller, transactor bind.ContractTransactor, deployer bind.DeployBackend) (self *EthContract, err error) {
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, address)
	}

	self = new(EthContract)
	self.log = logger.NewSublogger("contract")
	self.address = common.HexToAddress(address)
	self.backend = deployer

	self.abi, err = ParseRecordsABI()
	if err != nil {
		return
	}

	self.bound = bind.NewBoundContract(self.address, self.abi, caller, transactor, nil)
	return
}

// Contract using one backend for all kinds of calls, e.g. ethclient.Client
func NewEthContractWithBackend(address string, backend Backend) (*EthContract, error) {
	return NewEthContract(address, backend, backend, backend)
}

func (self *EthContract) WithCallTimeout(v time.Duration) *EthContract {
	self.callTime = v
	return self
}

func (self *EthContract) WithConfirmationTimeout(v time.Duration) *EthContract {
	self.waitTime = v
	return self
}

func (self *EthContract) GetAddress() common.Address {
	return self.address
}

func (self *EthContract) call(ctx context.Context, method string, params ...interface{}) (out []interface{}, err error) {
	if self.callTime > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, self.callTime)
		defer cancel()
	}

	err = self.bound.Call(&bind.CallOpts{Context: ctx}, &out, method, params...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, classify(err))
	}
	return
}

func (self *EthContract) GetAllBusinessIds(ctx context.Context) (ids []string, err error) {
	out, err := self.call(ctx, MethodGetAllBusinessIds)
	if err != nil {
		return
	}
	if len(out) == 0 {
		return []string{}, nil
	}

	ids, ok := out[0].([]string)
	if !ok {
		return nil, fmt.Errorf("%w: %s returned %T", ErrUnexpectedOutput, MethodGetAllBusinessIds, out[0])
	}
	return
}

func (self *EthContract) GetBusinessData(ctx context.Context, businessId string) (data *BusinessData, err error) {
	out, err := self.call(ctx, MethodGetBusinessData, businessId)
	if err != nil {
		return
	}

	// Missing fields stay zero
	data = new(BusinessData)
	data.Name, _ = outputAt[string](out, 0)
	data.PublicValue1 = bigOrZero(out, 1)
	data.PublicValue2 = bigOrZero(out, 2)
	data.Creator, _ = outputAt[common.Address](out, 3)
	data.Timestamp = bigOrZero(out, 4)
	data.IsVerified, _ = outputAt[bool](out, 5)
	data.DecryptedValue, _ = outputAt[uint32](out, 6)
	return
}

func (self *EthContract) GetEncryptedValue(ctx context.Context, businessId string) (handle Handle, err error) {
	out, err := self.call(ctx, MethodGetEncryptedValue, businessId)
	if err != nil {
		return
	}

	raw, ok := outputAt[[32]byte](out, 0)
	if !ok {
		err = fmt.Errorf("%w: %s returned no handle", ErrUnexpectedOutput, MethodGetEncryptedValue)
		return
	}
	return Handle(raw), nil
}

func (self *EthContract) IsAvailable(ctx context.Context) (available bool, err error) {
	out, err := self.call(ctx, MethodIsAvailable)
	if err != nil {
		return
	}
	available, _ = outputAt[bool](out, 0)
	return
}

func (self *EthContract) transact(ctx context.Context, opts *bind.TransactOpts, method string, params ...interface{}) (Transaction, error) {
	o := *opts
	o.Context = ctx

	tx, err := self.bound.Transact(&o, method, params...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, classify(err))
	}

	self.log.WithField("method", method).WithField("txId", tx.Hash().String()).Debug("Transaction sent")
	return &transaction{tx: tx, backend: self.backend, timeout: self.waitTime, method: method}, nil
}

func (self *EthContract) CreateBusinessData(ctx context.Context, opts *bind.TransactOpts, in *CreateBusinessDataInput) (Transaction, error) {
	return self.transact(ctx, opts, MethodCreateBusinessData,
		in.BusinessId,
		in.Name,
		[32]byte(in.EncryptedValue),
		in.InputProof,
		big.NewInt(in.PublicValue1),
		big.NewInt(in.PublicValue2),
		in.Description,
	)
}

func (self *EthContract) VerifyDecryption(ctx context.Context, opts *bind.TransactOpts, businessId string, abiEncodedClearValues, decryptionProof []byte) (Transaction, error) {
	return self.transact(ctx, opts, MethodVerifyDecryption, businessId, abiEncodedClearValues, decryptionProof)
}

type transaction struct {
	tx      *types.Transaction
	backend bind.DeployBackend
	timeout time.Duration
	method  string
}

func (self *transaction) Hash() common.Hash {
	return self.tx.Hash()
}

// Blocks until the transaction is mined
func (self *transaction) Wait(ctx context.Context) (err error) {
	if self.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, self.timeout)
		defer cancel()
	}

	receipt, err := bind.WaitMined(ctx, self.backend, self.tx)
	if err != nil {
		return
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		return fmt.Errorf("%w: %s in %s", ErrTransactionReverted, self.method, self.tx.Hash().String())
	}
	return
}

func outputAt[T any](out []interface{}, i int) (v T, ok bool) {
	if i >= len(out) || out[i] == nil {
		return
	}
	v, ok = out[i].(T)
	return
}

func bigOrZero(out []interface{}, i int) *big.Int {
	v, ok := outputAt[*big.Int](out, i)
	if !ok || v == nil {
		return new(big.Int)
	}
	return v
}
