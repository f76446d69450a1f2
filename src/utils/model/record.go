package model

type SupportType string

const (
	SupportEmotional    SupportType = "emotional"
	SupportPeer         SupportType = "peer"
	SupportProfessional SupportType = "professional"
	SupportCommunity    SupportType = "community"
)

var SupportTypes = []SupportType{SupportEmotional, SupportPeer, SupportProfessional, SupportCommunity}

func (self SupportType) IsValid() bool {
	for _, t := range SupportTypes {
		if t == self {
			return true
		}
	}
	return false
}

func (self SupportType) String() string {
	return string(self)
}

// Note stored on-chain next to the encrypted value
func (self SupportType) Description() string {
	return "Support type: " + string(self)
}

// Lifecycle state of a record, derived from the on-chain verified flag
type RecordState string

const (
	RecordStatePendingVerification RecordState = "PENDING_VERIFICATION"
	RecordStateVerified            RecordState = "VERIFIED"
)

// Shared experience, as stored by the records contract.
// DecryptedValue is meaningful only when IsVerified is true.
type Record struct {
	Id             int64       `json:"id"`
	BusinessId     string      `json:"businessId"`
	Title          string      `json:"title"`
	SupportType    SupportType `json:"supportType"`
	Timestamp      int64       `json:"timestamp"`
	Creator        string      `json:"creator"`
	PublicValue1   int64       `json:"publicValue1"`
	PublicValue2   int64       `json:"publicValue2"`
	IsVerified     bool        `json:"isVerified"`
	DecryptedValue *uint32     `json:"decryptedValue,omitempty"`
}

func (self *Record) State() RecordState {
	if self.IsVerified {
		return RecordStateVerified
	}
	return RecordStatePendingVerification
}

// Verified plaintext, nil until the record is verified on-chain
func (self *Record) VerifiedValue() *uint32 {
	if !self.IsVerified {
		return nil
	}
	return self.DecryptedValue
}
