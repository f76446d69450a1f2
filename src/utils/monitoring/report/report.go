package report

import "go.uber.org/atomic"

type RunState struct {
	StartTimestamp atomic.Int64  `json:"start_timestamp"`
	UpForSeconds   atomic.Uint64 `json:"up_for_seconds"`
}

type RunReport struct {
	State RunState `json:"state"`
}

type Report struct {
	Run     *RunReport     `json:"run,omitempty"`
	Records *RecordsReport `json:"records,omitempty"`
}
