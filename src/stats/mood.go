package stats

import (
	"github.com/warp-contracts/mindshare/src/utils/model"
)

const DefaultMood = 5

type MoodLevel struct {
	Index int    `json:"index"`
	Label string `json:"label"`
	Range string `json:"range"`
}

var moodLevels = [...]MoodLevel{
	{0, "Very Low", "1-3"},
	{1, "Low", "4-5"},
	{2, "Neutral", "6-7"},
	{3, "Good", "8-9"},
	{4, "Excellent", "10"},
}

// Bucket of a 1-10 mood value. Out of range values fall into the edge buckets.
func GetMoodLevel(value int64) MoodLevel {
	// Floor division, so values below 1 land in the first bucket
	idx := int((value - 1) / 2)
	if value < 1 {
		idx = 0
	}
	if idx >= len(moodLevels) {
		idx = len(moodLevels) - 1
	}
	return moodLevels[idx]
}

// Mood shown for a record. Verified value wins, then a value revealed in this session,
// then the public hint.
func DisplayMood(record *model.Record, sessionReveal *uint32) int64 {
	if record.IsVerified {
		if record.DecryptedValue == nil {
			return 0
		}
		return int64(*record.DecryptedValue)
	}
	if sessionReveal != nil && *sessionReveal != 0 {
		return int64(*sessionReveal)
	}
	if record.PublicValue1 != 0 {
		return record.PublicValue1
	}
	return DefaultMood
}
