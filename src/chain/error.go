package chain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrAlreadyVerified     = errors.New("data already verified")
	ErrUserRejected        = errors.New("user rejected transaction")
	ErrTransactionReverted = errors.New("transaction reverted")
	ErrInvalidAddress      = errors.New("invalid contract address")
	ErrUnexpectedOutput    = errors.New("unexpected contract output")
)

var (
	alreadyVerifiedMessages = []string{"data already verified"}
	userRejectedMessages    = []string{"user rejected", "user denied", "request denied"}
)

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

// Maps errors returned by the node or the signer to package errors.
// The original error stays in the chain.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrAlreadyVerified) || errors.Is(err, ErrUserRejected) {
		return err
	}

	msg := strings.ToLower(err.Error())
	switch {
	case containsAny(msg, alreadyVerifiedMessages):
		return fmt.Errorf("%w: %w", ErrAlreadyVerified, err)
	case containsAny(msg, userRejectedMessages):
		return fmt.Errorf("%w: %w", ErrUserRejected, err)
	}
	return err
}
