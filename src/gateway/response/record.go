package response

import (
	"github.com/warp-contracts/mindshare/src/stats"
	"github.com/warp-contracts/mindshare/src/utils/model"
)

type Record struct {
	model.Record

	State model.RecordState `json:"state"`

	// Value revealed in this session, before the reload picked it up
	RevealedValue *uint32         `json:"revealedValue,omitempty"`
	DisplayMood   int64           `json:"displayMood"`
	MoodLevel     stats.MoodLevel `json:"moodLevel"`
}

type GetRecords struct {
	Records []Record           `json:"records"`
	Stats   model.SupportStats `json:"stats"`
}

func RecordToResponse(record *model.Record, reveal *uint32) Record {
	mood := stats.DisplayMood(record, reveal)
	return Record{
		Record:        *record,
		State:         record.State(),
		RevealedValue: reveal,
		DisplayMood:   mood,
		MoodLevel:     stats.GetMoodLevel(mood),
	}
}

func RecordsToResponse(records []model.Record, reveal func(businessId string) *uint32) *GetRecords {
	out := make([]Record, len(records))
	for i := range records {
		out[i] = RecordToResponse(&records[i], reveal(records[i].BusinessId))
	}

	return &GetRecords{
		Records: out,
		Stats:   stats.Compute(records),
	}
}

type SubmitRecord struct {
	BusinessId string `json:"businessId"`
}

type VerifyRecord struct {
	BusinessId string `json:"businessId"`

	// Nil when the record got verified by someone else, read it again
	Value *uint32 `json:"value"`
}
