package model

// Aggregate computed from a records snapshot, never mutated directly
type SupportStats struct {
	TotalShares      int     `json:"totalShares"`
	VerifiedRecords  int     `json:"verifiedRecords"`
	AvgMood          float64 `json:"avgMood"`
	ActiveSupporters int     `json:"activeSupporters"`
}
