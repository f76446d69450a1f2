package encryption

import (
	"context"
	"errors"
	"fmt"

	"github.com/warp-contracts/mindshare/src/utils/config"
	"github.com/warp-contracts/mindshare/src/utils/logger"
	"github.com/warp-contracts/mindshare/src/utils/task"

	"github.com/cenkalti/backoff/v4"
	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
)

// Operations of the encryption service used by this client
type Service interface {
	GetKeyInfo(ctx context.Context) (*KeyInfo, error)
	InputProof(ctx context.Context, contractAddress, userAddress common.Address, value int64) (*EncryptedInput, error)
	PublicDecrypt(ctx context.Context, handles []common.Hash, contractAddress common.Address) (*RevealProof, error)
}

// Client side of the homomorphic encryption service.
//
// Reveal is a two step protocol: RequestRevealProof returns the cleartext claim with its proof,
// submitting the proof to the contract is up to the caller.
type Gateway struct {
	log     *logrus.Entry
	config  *config.Encryption
	session *Session
	service Service
}

func NewGateway(config *config.Encryption) (self *Gateway) {
	self = new(Gateway)
	self.log = logger.NewSublogger("encryption")
	self.config = config
	self.session = NewSession()
	self.service = NewRelayer(config)
	return
}

func (self *Gateway) WithService(v Service) *Gateway {
	self.service = v
	return self
}

func (self *Gateway) Session() *Session {
	return self.session
}

func (self *Gateway) State() State {
	return self.session.State()
}

func (self *Gateway) Reset() {
	self.session.Reset()
}

func (self *Gateway) IsReadyFor(address common.Address) bool {
	return self.session.IsReadyFor(address)
}

// Fetches key material for the connected address. Idempotent, concurrent calls fail with ErrInitializing.
func (self *Gateway) Initialize(ctx context.Context, address common.Address) (err error) {
	attempt, err := self.session.Begin(address)
	if err != nil || attempt == 0 {
		return
	}

	log := self.log.WithField("address", address.Hex())
	log.Debug("Initializing encryption")

	var keyInfo *KeyInfo
	err = task.NewRetry().
		WithContext(ctx).
		WithMaxElapsedTime(self.config.InitMaxElapsedTime).
		WithMaxInterval(self.config.InitMaxInterval).
		WithOnError(func(err error) error {
			var statusErr *StatusError
			if errors.As(err, &statusErr) && statusErr.IsClientError() {
				return backoff.Permanent(err)
			}
			if errors.Is(err, context.Canceled) {
				return backoff.Permanent(err)
			}
			log.WithError(err).Warn("Failed to initialize encryption, retrying...")
			return err
		}).
		Run(func() (err error) {
			keyInfo, err = self.service.GetKeyInfo(ctx)
			return
		})

	self.session.Complete(attempt, keyInfo, err)
	if err != nil {
		log.WithError(err).Error("Encryption initialization failed")
		return fmt.Errorf("%w: %w", ErrEncryptionUnavailable, err)
	}

	log.WithField("keyId", keyInfo.PublicKeyId).Info("Encryption ready")
	return nil
}

// Encrypts the value for the contract on behalf of the caller
func (self *Gateway) Encrypt(ctx context.Context, contractAddress, callerAddress common.Address, value int64) (out *EncryptedInput, err error) {
	if !self.session.IsReadyFor(callerAddress) {
		return nil, fmt.Errorf("%w: session is %s", ErrEncryptionUnavailable, self.session.State())
	}

	out, err = self.service.InputProof(ctx, contractAddress, callerAddress, value)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncryptionUnavailable, err)
	}
	return
}

// Obtains cleartext values of the handles with a proof the contract can verify
func (self *Gateway) RequestRevealProof(ctx context.Context, handles []common.Hash, contractAddress common.Address) (out *RevealProof, err error) {
	if len(handles) == 0 {
		return nil, ErrNoHandles
	}

	if !self.session.IsReady() {
		return nil, fmt.Errorf("%w: session is %s", ErrEncryptionUnavailable, self.session.State())
	}

	out, err = self.service.PublicDecrypt(ctx, handles, contractAddress)
	if err != nil {
		// Only the relayer refusing the request is a denial
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.IsClientError() {
			return nil, fmt.Errorf("%w: %w", ErrDecryptionDenied, err)
		}
		return nil, err
	}

	for _, h := range handles {
		if _, ok := out.Value(h); !ok {
			return nil, fmt.Errorf("%w: no clear value for %s", ErrDecryptionDenied, h.Hex())
		}
	}
	return
}
