package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"github.com/warp-contracts/mindshare/src/chain"
	"github.com/warp-contracts/mindshare/src/journal"
	"github.com/warp-contracts/mindshare/src/repository"
	"github.com/warp-contracts/mindshare/src/utils/model"
)

// Encrypts the mood score and creates a record on-chain. Returns the new business id.
// A failed submit never leaves a record behind, the contract write is the only mutation.
// Cancelling ctx doesn't abort the operation, the outcome is decided by the transaction.
func (self *Controller) Submit(ctx context.Context, req SubmitRequest) (businessId string, err error) {
	ctx = context.WithoutCancel(ctx)

	if !self.isSubmitting.CompareAndSwap(false, true) {
		return "", ErrBusy
	}
	defer self.isSubmitting.Store(false)

	address, opts, ok := self.wallet()
	if !ok {
		self.notifier.Error(MsgConnectWallet)
		return "", ErrNotConnected
	}

	self.notifier.Pending(MsgSubmitting)

	moodScore := parseMoodScore(req.MoodScore)
	supportType := req.SupportType
	if supportType == "" {
		supportType = model.SupportEmotional
	}
	businessId = repository.NewBusinessId(self.now())

	log := self.log.WithField("businessId", businessId).WithField("address", address.Hex())
	op := self.begin(ctx, model.OperationSubmit, businessId, address)

	var txHash string
	err = func() (err error) {
		err = self.WaitForEncryption(ctx)
		if err != nil {
			return
		}

		encrypted, err := self.gateway.Encrypt(ctx, self.contract.GetAddress(), address, moodScore)
		if err != nil {
			return
		}

		tx, err := self.contract.CreateBusinessData(ctx, opts, &chain.CreateBusinessDataInput{
			BusinessId:     businessId,
			Name:           req.Title,
			EncryptedValue: encrypted.Data,
			InputProof:     encrypted.Proof,
			PublicValue1:   moodScore,
			PublicValue2:   0,
			Description:    supportType.Description(),
		})
		if err != nil {
			return
		}
		txHash = tx.Hash().Hex()

		self.notifier.Pending(MsgWaitingConfirm)
		return tx.Wait(ctx)
	}()
	if err != nil {
		log.WithError(err).Warn("Submission failed")
		self.finish(ctx, op, journal.Outcome{State: model.OperationStateFailed, TxHash: txHash, Err: err})

		c := self.counters()
		if errors.Is(err, chain.ErrUserRejected) {
			self.notifier.Error(MsgRejected)
			if c != nil {
				c.Errors.SubmitRejected.Inc()
			}
			return "", fmt.Errorf("%w: %w", ErrSubmissionRejected, err)
		}

		self.notifier.Error(MsgSubmitFailed)
		if c != nil {
			c.Errors.SubmitFailures.Inc()
		}
		return "", fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
	}

	log.WithField("txHash", txHash).Info("Record submitted")
	self.notifier.Success(MsgSubmitted)
	self.finish(ctx, op, journal.Outcome{State: model.OperationStateSuccess, TxHash: txHash})
	if c := self.counters(); c != nil {
		c.State.SubmitsSucceeded.Inc()
	}

	// Confirmed, so the new record is visible after the reload
	_, _ = self.Reload(ctx)
	return
}
