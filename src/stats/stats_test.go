package stats

import (
	"math/rand"
	"testing"

	"github.com/warp-contracts/mindshare/src/utils/model"

	"github.com/stretchr/testify/require"
)

func TestComputeEmpty(t *testing.T) {
	require.Equal(t, model.SupportStats{}, Compute(nil))
}

func TestCompute(t *testing.T) {
	records := []model.Record{
		{Creator: "0xa", PublicValue1: 3},
		{Creator: "0xb", PublicValue1: 8, IsVerified: true},
		{Creator: "0xa", PublicValue1: 10, IsVerified: true},
		{Creator: "0xc", PublicValue1: 0},
	}

	stats := Compute(records)
	require.Equal(t, 4, stats.TotalShares)
	require.Equal(t, 2, stats.VerifiedRecords)
	require.Equal(t, 3, stats.ActiveSupporters)
	require.InDelta(t, 5.25, stats.AvgMood, 1e-9)
}

func TestComputeInvariants(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	creators := []string{"0xa", "0xb", "0xc", "0xd"}

	for n := 0; n < 50; n++ {
		records := make([]model.Record, n)
		var sum int64
		for i := range records {
			records[i] = model.Record{
				Creator:      creators[rnd.Intn(len(creators))],
				PublicValue1: int64(rnd.Intn(11)),
				IsVerified:   rnd.Intn(2) == 0,
			}
			sum += records[i].PublicValue1
		}

		stats := Compute(records)
		require.Equal(t, n, stats.TotalShares)
		require.LessOrEqual(t, stats.VerifiedRecords, stats.TotalShares)
		require.LessOrEqual(t, stats.ActiveSupporters, stats.TotalShares)
		if n == 0 {
			require.Zero(t, stats.AvgMood)
		} else {
			require.InDelta(t, float64(sum)/float64(n), stats.AvgMood, 1e-9)
		}
	}
}

func TestGetMoodLevel(t *testing.T) {
	for value, label := range map[int64]string{
		-3: "Very Low",
		0:  "Very Low",
		1:  "Very Low",
		2:  "Very Low",
		3:  "Low",
		4:  "Low",
		5:  "Neutral",
		6:  "Neutral",
		7:  "Good",
		9:  "Excellent",
		10: "Excellent",
		42: "Excellent",
	} {
		require.Equal(t, label, GetMoodLevel(value).Label, value)
	}
}

func TestDisplayMood(t *testing.T) {
	decrypted := uint32(9)
	reveal := uint32(4)

	verified := model.Record{IsVerified: true, DecryptedValue: &decrypted, PublicValue1: 2}
	require.Equal(t, int64(9), DisplayMood(&verified, &reveal))

	pending := model.Record{PublicValue1: 2}
	require.Equal(t, int64(4), DisplayMood(&pending, &reveal))
	require.Equal(t, int64(2), DisplayMood(&pending, nil))

	empty := model.Record{}
	require.Equal(t, int64(DefaultMood), DisplayMood(&empty, nil))
}
