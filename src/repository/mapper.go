package repository

import (
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/warp-contracts/mindshare/src/chain"
	"github.com/warp-contracts/mindshare/src/utils/model"
)

const BusinessIdPrefix = "record-"

// New business id for a record created now
func NewBusinessId(now time.Time) string {
	return BusinessIdPrefix + strconv.FormatInt(now.UnixMilli(), 10)
}

// Numeric id parsed from the leading digits after the prefix. Falls back to the current time.
func parseId(businessId string, now time.Time) int64 {
	digits := strings.TrimPrefix(businessId, BusinessIdPrefix)
	end := 0
	for end < len(digits) && digits[end] >= '0' && digits[end] <= '9' {
		end++
	}

	id, err := strconv.ParseInt(digits[:end], 10, 64)
	if err != nil || id == 0 {
		return now.UnixMilli()
	}
	return id
}

func toInt64(v *big.Int) int64 {
	if v == nil || !v.IsInt64() {
		return 0
	}
	return v.Int64()
}

func mapRecord(businessId string, data *chain.BusinessData, now time.Time) model.Record {
	record := model.Record{
		Id:           parseId(businessId, now),
		BusinessId:   businessId,
		Title:        data.Name,
		SupportType:  model.SupportEmotional,
		Timestamp:    toInt64(data.Timestamp),
		Creator:      data.Creator.Hex(),
		PublicValue1: toInt64(data.PublicValue1),
		PublicValue2: toInt64(data.PublicValue2),
		IsVerified:   data.IsVerified,
	}

	if data.IsVerified {
		value := data.DecryptedValue
		record.DecryptedValue = &value
	}
	return record
}
