package encryption

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Public key material announced by the relayer
type KeyInfo struct {
	PublicKeyId  string `json:"publicKeyId"`
	PublicKeyUrl string `json:"publicKeyUrl"`
	CrsUrl       string `json:"crsUrl"`
}

// Ciphertext and its proof of correct encryption, ready for createBusinessData
type EncryptedInput struct {
	Data  common.Hash
	Proof []byte
}

// Cleartext reveal claim with the proof verifiable by the contract
type RevealProof struct {
	ClearValues           map[common.Hash]uint64
	AbiEncodedClearValues []byte
	DecryptionProof       []byte
}

func (self *RevealProof) Value(handle common.Hash) (v uint64, ok bool) {
	if self == nil {
		return
	}
	v, ok = self.ClearValues[handle]
	return
}

type inputProofRequest struct {
	ContractAddress string `json:"contractAddress"`
	UserAddress     string `json:"userAddress"`
	Value           int64  `json:"value"`
	Bits            int    `json:"bits"`
}

type inputProofResponse struct {
	Handles    []string `json:"handles"`
	InputProof string   `json:"inputProof"`
}

func (self *inputProofResponse) toEncryptedInput() (out *EncryptedInput, err error) {
	if len(self.Handles) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrFailedToParse, ErrNoHandles)
	}

	handle, err := hexutil.Decode(self.Handles[0])
	if err != nil || len(handle) != common.HashLength {
		return nil, fmt.Errorf("%w: invalid handle %q", ErrFailedToParse, self.Handles[0])
	}

	proof, err := hexutil.Decode(self.InputProof)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid input proof: %w", ErrFailedToParse, err)
	}

	return &EncryptedInput{Data: common.BytesToHash(handle), Proof: proof}, nil
}

type publicDecryptRequest struct {
	Handles         []string `json:"handles"`
	ContractAddress string   `json:"contractAddress"`
}

type publicDecryptResponse struct {
	ClearValues           map[string]json.Number `json:"clearValues"`
	AbiEncodedClearValues string                 `json:"abiEncodedClearValues"`
	DecryptionProof       string                 `json:"decryptionProof"`
}

func (self *publicDecryptResponse) toRevealProof() (out *RevealProof, err error) {
	out = &RevealProof{ClearValues: make(map[common.Hash]uint64, len(self.ClearValues))}

	for k, v := range self.ClearValues {
		raw, err := hexutil.Decode(k)
		if err != nil || len(raw) != common.HashLength {
			return nil, fmt.Errorf("%w: invalid handle %q", ErrFailedToParse, k)
		}
		n, err := strconv.ParseUint(v.String(), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid clear value %q", ErrFailedToParse, v)
		}
		out.ClearValues[common.BytesToHash(raw)] = n
	}

	out.AbiEncodedClearValues, err = hexutil.Decode(self.AbiEncodedClearValues)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid clear values encoding: %w", ErrFailedToParse, err)
	}

	out.DecryptionProof, err = hexutil.Decode(self.DecryptionProof)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid decryption proof: %w", ErrFailedToParse, err)
	}
	return
}
