package report

import "go.uber.org/atomic"

type RecordsErrors struct {
	RepositoryLoadFailures  atomic.Uint64 `json:"repository_load_failures"`
	RepositoryDetailSkipped atomic.Uint64 `json:"repository_detail_skipped"`
	EncryptionInitFailures  atomic.Uint64 `json:"encryption_init_failures"`
	SubmitRejected          atomic.Uint64 `json:"submit_rejected"`
	SubmitFailures          atomic.Uint64 `json:"submit_failures"`
	VerifyFailures          atomic.Uint64 `json:"verify_failures"`
	AvailabilityFailures    atomic.Uint64 `json:"availability_failures"`
	JournalFailures         atomic.Uint64 `json:"journal_failures"`
	StatusPublishFailures   atomic.Uint64 `json:"status_publish_failures"`
}

type RecordsState struct {
	RepositoryLoads         atomic.Uint64 `json:"repository_loads"`
	RepositoryRecords       atomic.Int64  `json:"repository_records"`
	RepositoryVerified      atomic.Int64  `json:"repository_verified"`
	SubmitsSucceeded        atomic.Uint64 `json:"submits_succeeded"`
	VerifiesSucceeded       atomic.Uint64 `json:"verifies_succeeded"`
	VerifiesShortCircuited  atomic.Uint64 `json:"verifies_short_circuited"`
	VerifiesAlreadyVerified atomic.Uint64 `json:"verifies_already_verified"`
	StatusesPublished       atomic.Uint64 `json:"statuses_published"`
}

type RecordsReport struct {
	State  RecordsState  `json:"state"`
	Errors RecordsErrors `json:"errors"`
}
