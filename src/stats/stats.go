package stats

import (
	"github.com/warp-contracts/mindshare/src/utils/model"
)

// Aggregates a records snapshot. Average mood uses the public hint,
// decrypted values aren't known for unverified records.
func Compute(records []model.Record) (out model.SupportStats) {
	out.TotalShares = len(records)
	if len(records) == 0 {
		return
	}

	var sum int64
	creators := make(map[string]struct{}, len(records))
	for i := range records {
		if records[i].IsVerified {
			out.VerifiedRecords++
		}
		sum += records[i].PublicValue1
		creators[records[i].Creator] = struct{}{}
	}

	out.AvgMood = float64(sum) / float64(len(records))
	out.ActiveSupporters = len(creators)
	return
}
