// Package encryptiontest provides an in-memory encryption service for tests.
package encryptiontest

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/warp-contracts/mindshare/src/encryption"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Service keeping plaintexts of the handles it issued, so it can reveal them later
type Service struct {
	mtx sync.Mutex

	keyErr    error
	revealErr error

	// Blocks PublicDecrypt until closed
	RevealBlock chan struct{}

	values       map[common.Hash]uint64
	inputValues  []int64
	keyCalls     int
	decryptCalls int
}

func NewService() *Service {
	return &Service{values: make(map[common.Hash]uint64)}
}

func (self *Service) SetKeyErr(err error) {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	self.keyErr = err
}

func (self *Service) SetRevealErr(err error) {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	self.revealErr = err
}

// Values passed to InputProof, in order
func (self *Service) InputValues() []int64 {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	return append([]int64(nil), self.inputValues...)
}

func (self *Service) Calls() (key, decrypt int) {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	return self.keyCalls, self.decryptCalls
}

func (self *Service) GetKeyInfo(ctx context.Context) (*encryption.KeyInfo, error) {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	self.keyCalls++
	if self.keyErr != nil {
		return nil, self.keyErr
	}
	return &encryption.KeyInfo{PublicKeyId: "key-1"}, nil
}

func (self *Service) InputProof(ctx context.Context, contractAddress, userAddress common.Address, value int64) (*encryption.EncryptedInput, error) {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	handle := crypto.Keccak256Hash([]byte(fmt.Sprintf("%s/%s/%d/%d", contractAddress.Hex(), userAddress.Hex(), value, len(self.inputValues))))
	self.inputValues = append(self.inputValues, value)
	self.values[handle] = uint64(value)
	return &encryption.EncryptedInput{Data: handle, Proof: []byte{0x01}}, nil
}

// Reveals known handles. The clear values are encoded as consecutive 32 byte words.
func (self *Service) PublicDecrypt(ctx context.Context, handles []common.Hash, contractAddress common.Address) (*encryption.RevealProof, error) {
	if self.RevealBlock != nil {
		<-self.RevealBlock
	}

	self.mtx.Lock()
	defer self.mtx.Unlock()
	self.decryptCalls++
	if self.revealErr != nil {
		return nil, self.revealErr
	}

	out := &encryption.RevealProof{
		ClearValues:     make(map[common.Hash]uint64),
		DecryptionProof: []byte{0x02},
	}
	for _, h := range handles {
		v, ok := self.values[h]
		if !ok {
			continue
		}
		out.ClearValues[h] = v
		out.AbiEncodedClearValues = append(out.AbiEncodedClearValues, common.BigToHash(new(big.Int).SetUint64(v)).Bytes()...)
	}
	return out, nil
}
