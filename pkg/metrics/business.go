// Package metrics exposes Prometheus instrumentation for the commit
// coordinator.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// CoordinatorMetrics contains all coordinator-level metrics.
//
// All metrics follow the taxonomy:
// <namespace>_<subsystem>_<metric_name>[_<unit>], where subsystem is
// "coordinator" or "registry".
//
// Example:
//
//	m := NewCoordinatorMetrics("commitcoord")
//	m.CommitsAcceptedTotal.WithLabelValues("tableA").Inc()
//	m.LedgerWindowSize.WithLabelValues("tableA").Set(4)
type CoordinatorMetrics struct {
	namespace string

	// Commit path metrics
	CommitsAcceptedTotal  *prometheus.CounterVec   // successful commit() calls (including backfill-only ones), by table_id
	CommitsRejectedTotal  *prometheus.CounterVec   // commits rejected, by table_id and error kind
	CommitDurationSeconds *prometheus.HistogramVec // commit() call latency, by table_id

	// get_commits path metrics
	GetCommitsTotal          *prometheus.CounterVec   // get_commits calls, by table_id
	GetCommitsDurationSeconds *prometheus.HistogramVec // get_commits() call latency, by table_id

	// Ledger state gauges
	LedgerWindowSize  *prometheus.GaugeVec // current unbackfilled window size, by table_id
	RegisteredLedgers prometheus.Gauge     // total number of known ledgers
	DisownedLedgers   prometheus.Gauge     // total number of disowned ledgers

	// Backfill metrics
	BackfillTrimsTotal *prometheus.CounterVec // backfill trims applied, by table_id

	// Fault injection metrics
	FaultInjectionsTotal *prometheus.CounterVec // triggered fault injections, by hook (before_commit|after_commit)

	// Registry metrics
	RegistryLookupsTotal *prometheus.CounterVec // builder lookups, by keyspace (name|catalog) and result (hit|miss)
}

// NewCoordinatorMetrics creates a CoordinatorMetrics instance registered
// under the given Prometheus namespace.
func NewCoordinatorMetrics(namespace string) *CoordinatorMetrics {
	return &CoordinatorMetrics{
		namespace: namespace,

		CommitsAcceptedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "coordinator",
				Name:      "commits_accepted_total",
				Help:      "Total number of successful commit() calls, including backfill-only ones",
			},
			[]string{"table_id"},
		),

		CommitsRejectedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "coordinator",
				Name:      "commits_rejected_total",
				Help:      "Total number of commit attempts rejected, by error kind",
			},
			[]string{"table_id", "reason"},
		),

		CommitDurationSeconds: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "coordinator",
				Name:      "commit_duration_seconds",
				Help:      "Duration of commit() calls",
				Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
			[]string{"table_id"},
		),

		GetCommitsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "coordinator",
				Name:      "get_commits_total",
				Help:      "Total number of get_commits() calls",
			},
			[]string{"table_id"},
		),

		GetCommitsDurationSeconds: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "coordinator",
				Name:      "get_commits_duration_seconds",
				Help:      "Duration of get_commits() calls",
				Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
			[]string{"table_id"},
		),

		LedgerWindowSize: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "coordinator",
				Name:      "ledger_window_size",
				Help:      "Current size of the unbackfilled commit window for a table",
			},
			[]string{"table_id"},
		),

		RegisteredLedgers: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "coordinator",
				Name:      "registered_ledgers",
				Help:      "Total number of ledgers known to the coordinator",
			},
		),

		DisownedLedgers: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "coordinator",
				Name:      "disowned_ledgers",
				Help:      "Total number of ledgers marked disowned",
			},
		),

		BackfillTrimsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "coordinator",
				Name:      "backfill_trims_total",
				Help:      "Total number of backfill trims applied to a ledger",
			},
			[]string{"table_id"},
		),

		FaultInjectionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "coordinator",
				Name:      "fault_injections_total",
				Help:      "Total number of times a fault-injection hook fired",
			},
			[]string{"hook"},
		),

		RegistryLookupsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "registry",
				Name:      "lookups_total",
				Help:      "Total number of builder lookups, by keyspace and result",
			},
			[]string{"keyspace", "result"},
		),
	}
}

// RecordCommitAccepted records a successful commit() call.
func (m *CoordinatorMetrics) RecordCommitAccepted(tableID string, duration float64) {
	m.CommitsAcceptedTotal.WithLabelValues(tableID).Inc()
	m.CommitDurationSeconds.WithLabelValues(tableID).Observe(duration)
}

// RecordCommitRejected records a commit rejected for the given reason (error kind).
func (m *CoordinatorMetrics) RecordCommitRejected(tableID, reason string, duration float64) {
	m.CommitsRejectedTotal.WithLabelValues(tableID, reason).Inc()
	m.CommitDurationSeconds.WithLabelValues(tableID).Observe(duration)
}

// RecordGetCommits records a get_commits call and its latency.
func (m *CoordinatorMetrics) RecordGetCommits(tableID string, duration float64) {
	m.GetCommitsTotal.WithLabelValues(tableID).Inc()
	m.GetCommitsDurationSeconds.WithLabelValues(tableID).Observe(duration)
}

// SetLedgerWindowSize records the current unbackfilled window size for a table.
func (m *CoordinatorMetrics) SetLedgerWindowSize(tableID string, size int) {
	m.LedgerWindowSize.WithLabelValues(tableID).Set(float64(size))
}

// RecordBackfillTrim records a backfill trim operation.
func (m *CoordinatorMetrics) RecordBackfillTrim(tableID string) {
	m.BackfillTrimsTotal.WithLabelValues(tableID).Inc()
}

// RecordFaultInjection records a fault-injection hook firing ("before_commit" or "after_commit").
func (m *CoordinatorMetrics) RecordFaultInjection(hook string) {
	m.FaultInjectionsTotal.WithLabelValues(hook).Inc()
}

// RecordRegistryLookup records a builder lookup in the given keyspace ("name" or "catalog").
func (m *CoordinatorMetrics) RecordRegistryLookup(keyspace string, hit bool) {
	result := "hit"
	if !hit {
		result = "miss"
	}
	m.RegistryLookupsTotal.WithLabelValues(keyspace, result).Inc()
}
