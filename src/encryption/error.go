package encryption

import "errors"

var (
	ErrEncryptionUnavailable = errors.New("encryption unavailable")
	ErrDecryptionDenied      = errors.New("decryption denied")
	ErrInitializing          = errors.New("initialization already in progress")
	ErrNoHandles             = errors.New("no ciphertext handles")
	ErrFailedToParse         = errors.New("failed to parse relayer response")
)
