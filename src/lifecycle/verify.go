package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"github.com/warp-contracts/mindshare/src/chain"
	"github.com/warp-contracts/mindshare/src/encryption"
	"github.com/warp-contracts/mindshare/src/journal"
	"github.com/warp-contracts/mindshare/src/utils/model"

	"github.com/ethereum/go-ethereum/common"
)

// Reveals the mood of a pending record and stores it on-chain.
//
// Verified records return their stored value without asking the encryption service.
// When someone else verifies the record in the meantime the result is nil without an error,
// the caller should read the record again.
// Cancelling ctx doesn't abort the operation, the outcome is decided by the transaction.
func (self *Controller) Verify(ctx context.Context, businessId string) (value *uint32, err error) {
	ctx = context.WithoutCancel(ctx)

	if !self.isVerifying.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer self.isVerifying.Store(false)

	address, opts, ok := self.wallet()
	if !ok {
		self.notifier.Error(MsgConnectWallet)
		return nil, ErrNotConnected
	}

	log := self.log.WithField("businessId", businessId).WithField("address", address.Hex())
	op := self.begin(ctx, model.OperationVerify, businessId, address)

	data, err := self.contract.GetBusinessData(ctx, businessId)
	if err != nil {
		return nil, self.onVerifyError(ctx, op, "", err)
	}

	if data.IsVerified {
		stored := data.DecryptedValue
		log.Debug("Record already verified on-chain")
		self.notifier.Success(MsgVerifiedOnChain)
		self.finish(ctx, op, journal.Outcome{State: model.OperationStateSuccess, RevealedValue: &stored})
		if c := self.counters(); c != nil {
			c.State.VerifiesShortCircuited.Inc()
		}
		return &stored, nil
	}

	var (
		txHash     string
		clearValue uint64
	)
	err = func() (err error) {
		handle, err := self.contract.GetEncryptedValue(ctx, businessId)
		if err != nil {
			return
		}

		err = self.WaitForEncryption(ctx)
		if err != nil {
			return
		}

		// Reveal claim and its proof
		proof, err := self.gateway.RequestRevealProof(ctx, []common.Hash{handle}, self.contract.GetAddress())
		if err != nil {
			return
		}
		clearValue, _ = proof.Value(handle)

		// The contract checks the proof and stores the value
		tx, err := self.contract.VerifyDecryption(ctx, opts, businessId, proof.AbiEncodedClearValues, proof.DecryptionProof)
		if err != nil {
			return
		}
		txHash = tx.Hash().Hex()

		err = tx.Wait(ctx)
		if errors.Is(err, chain.ErrTransactionReverted) && self.isVerifiedOnChain(ctx, businessId) {
			// Someone else's proof got mined first
			err = fmt.Errorf("%w: %w", chain.ErrAlreadyVerified, err)
		}
		return
	}()

	if errors.Is(err, chain.ErrAlreadyVerified) {
		log.Info("Record verified by someone else")
		self.notifier.Success(MsgAlreadyVerified)
		self.finish(ctx, op, journal.Outcome{State: model.OperationStateAlreadyVerified, TxHash: txHash})
		if c := self.counters(); c != nil {
			c.State.VerifiesAlreadyVerified.Inc()
		}
		_, _ = self.Reload(ctx)
		return nil, nil
	}
	if err != nil {
		return nil, self.onVerifyError(ctx, op, txHash, err)
	}

	self.notifier.Pending(MsgVerifying)

	revealed := uint32(clearValue)
	self.reveals.Store(businessId, revealed)
	self.finish(ctx, op, journal.Outcome{State: model.OperationStateSuccess, TxHash: txHash, RevealedValue: &revealed})
	if c := self.counters(); c != nil {
		c.State.VerifiesSucceeded.Inc()
	}

	// Verified flag and value become visible together
	_, _ = self.Reload(ctx)

	log.WithField("txHash", txHash).Info("Record verified")
	self.notifier.Success(MsgDecrypted)
	return &revealed, nil
}

func (self *Controller) isVerifiedOnChain(ctx context.Context, businessId string) bool {
	data, err := self.contract.GetBusinessData(ctx, businessId)
	if err != nil {
		self.log.WithError(err).WithField("businessId", businessId).Warn("Failed to read record after revert")
		return false
	}
	return data.IsVerified
}

func (self *Controller) onVerifyError(ctx context.Context, op *model.Operation, txHash string, err error) error {
	self.log.WithError(err).Warn("Verification failed")
	self.notifier.Error(MsgDecryptionFailed)
	self.finish(ctx, op, journal.Outcome{State: model.OperationStateFailed, TxHash: txHash, Err: err})
	if c := self.counters(); c != nil {
		c.Errors.VerifyFailures.Inc()
	}

	if errors.Is(err, encryption.ErrDecryptionDenied) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrVerificationFailed, err)
}
