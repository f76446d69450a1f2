package lifecycle

import "errors"

var (
	ErrNotConnected       = errors.New("wallet not connected")
	ErrBusy               = errors.New("operation already in progress")
	ErrSubmissionRejected = errors.New("submission rejected")
	ErrSubmissionFailed   = errors.New("submission failed")
	ErrVerificationFailed = errors.New("verification failed")
	ErrAvailabilityFailed = errors.New("availability check failed")
	ErrReloadFailed       = errors.New("failed to load data")
)
