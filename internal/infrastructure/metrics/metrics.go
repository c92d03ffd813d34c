package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Posting metrics
	PostingsCreated  *prometheus.CounterVec
	PostingsRejected *prometheus.CounterVec
	PostingDuration  prometheus.Histogram
	PostingAmount    prometheus.Histogram

	// Reversal metrics
	EntriesReversed prometheus.Counter

	// Reconciliation metrics
	Recalculations         prometheus.Counter
	RecalculationsDrifted  prometheus.Counter
	RecalculationDriftSize prometheus.Histogram

	// Branch metrics
	BranchesCreated prometheus.Counter

	// Audit metrics
	AuditLogsCreated *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		PostingsCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashbox_postings_created_total",
				Help: "Total number of postings created by direction",
			},
			[]string{"direction"},
		),
		PostingsRejected: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashbox_postings_rejected_total",
				Help: "Total number of rejected postings by reason",
			},
			[]string{"reason"},
		),
		PostingDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "cashbox_posting_duration_seconds",
			Help:    "Duration of posting operations",
			Buckets: prometheus.DefBuckets,
		}),
		PostingAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "cashbox_posting_amount",
			Help:    "Posting amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),

		EntriesReversed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cashbox_entries_reversed_total",
			Help: "Total number of entries reversed",
		}),

		Recalculations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cashbox_recalculations_total",
			Help: "Total number of balance recalculations",
		}),
		RecalculationsDrifted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cashbox_recalculations_drifted_total",
			Help: "Total number of recalculations that found a drifted balance",
		}),
		RecalculationDriftSize: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "cashbox_recalculation_drift",
			Help:    "Absolute drift found by recalculations",
			Buckets: []float64{0.01, 0.1, 1, 10, 100, 1000, 10000},
		}),

		BranchesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cashbox_branches_created_total",
			Help: "Total number of branches created",
		}),

		AuditLogsCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashbox_audit_logs_total",
				Help: "Total audit logs created by action",
			},
			[]string{"action"},
		),
	}
}
