package monitor_records

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/atomic"
)

type counter struct {
	desc  *prometheus.Desc
	kind  prometheus.ValueType
	value func() float64
}

func fromUint(v *atomic.Uint64) func() float64 {
	return func() float64 { return float64(v.Load()) }
}

func fromInt(v *atomic.Int64) func() float64 {
	return func() float64 { return float64(v.Load()) }
}

type Collector struct {
	monitor  *Monitor
	counters []counter
}

func NewCollector() *Collector {
	return new(Collector)
}

func (self *Collector) add(name string, kind prometheus.ValueType, value func() float64) {
	self.counters = append(self.counters, counter{
		desc:  prometheus.NewDesc(name, "", nil, nil),
		kind:  kind,
		value: value,
	})
}

func (self *Collector) WithMonitor(m *Monitor) *Collector {
	self.monitor = m

	run := &m.Report.Run.State
	state := &m.Report.Records.State
	errs := &m.Report.Records.Errors

	// Run
	self.add("up_for_seconds", prometheus.GaugeValue, fromUint(&run.UpForSeconds))

	// Errors
	self.add("repository_load_failures", prometheus.CounterValue, fromUint(&errs.RepositoryLoadFailures))
	self.add("repository_detail_skipped", prometheus.CounterValue, fromUint(&errs.RepositoryDetailSkipped))
	self.add("encryption_init_failures", prometheus.CounterValue, fromUint(&errs.EncryptionInitFailures))
	self.add("submit_rejected", prometheus.CounterValue, fromUint(&errs.SubmitRejected))
	self.add("submit_failures", prometheus.CounterValue, fromUint(&errs.SubmitFailures))
	self.add("verify_failures", prometheus.CounterValue, fromUint(&errs.VerifyFailures))
	self.add("availability_failures", prometheus.CounterValue, fromUint(&errs.AvailabilityFailures))
	self.add("journal_failures", prometheus.CounterValue, fromUint(&errs.JournalFailures))
	self.add("status_publish_failures", prometheus.CounterValue, fromUint(&errs.StatusPublishFailures))

	// State
	self.add("repository_loads", prometheus.CounterValue, fromUint(&state.RepositoryLoads))
	self.add("repository_records", prometheus.GaugeValue, fromInt(&state.RepositoryRecords))
	self.add("repository_verified", prometheus.GaugeValue, fromInt(&state.RepositoryVerified))
	self.add("submits_succeeded", prometheus.CounterValue, fromUint(&state.SubmitsSucceeded))
	self.add("verifies_succeeded", prometheus.CounterValue, fromUint(&state.VerifiesSucceeded))
	self.add("verifies_short_circuited", prometheus.CounterValue, fromUint(&state.VerifiesShortCircuited))
	self.add("verifies_already_verified", prometheus.CounterValue, fromUint(&state.VerifiesAlreadyVerified))
	self.add("statuses_published", prometheus.CounterValue, fromUint(&state.StatusesPublished))
	return self
}

func (self *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, c := range self.counters {
		ch <- c.desc
	}
}

// Collect implements required collect function for all prometheus collectors
func (self *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, c := range self.counters {
		ch <- prometheus.MustNewConstMetric(c.desc, c.kind, c.value())
	}
}
