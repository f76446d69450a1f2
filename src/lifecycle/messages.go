package lifecycle

// Status messages shown to the user
const (
	MsgConnectWallet       = "Please connect wallet first"
	MsgEncryptionInitError = "FHEVM initialization failed"
	MsgLoadFailed          = "Failed to load data"

	MsgSubmitting     = "Sharing experience with FHE encryption..."
	MsgWaitingConfirm = "Waiting for transaction confirmation..."
	MsgSubmitted      = "Experience shared securely!"
	MsgRejected       = "Transaction rejected"
	MsgSubmitFailed   = "Submission failed"

	MsgVerifiedOnChain  = "Data verified on-chain"
	MsgVerifying        = "Verifying decryption..."
	MsgDecrypted        = "Data decrypted successfully!"
	MsgAlreadyVerified  = "Data already verified"
	MsgDecryptionFailed = "Decryption failed"

	MsgAvailable          = "FHE system is available!"
	MsgAvailabilityFailed = "Availability check failed"
)
