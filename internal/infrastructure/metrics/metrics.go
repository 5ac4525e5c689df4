// Package metrics exposes Prometheus instrumentation for the transfer core.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus collectors.
type Metrics struct {
	// Interaction metrics
	TransfersExecuted prometheus.Counter
	TransfersAborted  *prometheus.CounterVec
	TransferDuration  prometheus.Histogram
	TransferAmount    prometheus.Histogram

	// Coordinator metrics
	CoordinatorRetries prometheus.Counter
	LockWaitDuration   prometheus.Histogram
}

// New creates and registers all collectors on reg. Pass
// prometheus.DefaultRegisterer outside tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		TransfersExecuted: factory.NewCounter(prometheus.CounterOpts{
			Name: "moneyctx_transfers_executed_total",
			Help: "Total number of transfers executed successfully",
		}),
		TransfersAborted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moneyctx_transfers_aborted_total",
				Help: "Total number of aborted transfers by reason",
			},
			[]string{"reason"},
		),
		TransferDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "moneyctx_transfer_duration_seconds",
			Help:    "Duration of transfer interactions",
			Buckets: prometheus.DefBuckets,
		}),
		TransferAmount: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "moneyctx_transfer_amount",
			Help:    "Transfer amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),
		CoordinatorRetries: factory.NewCounter(prometheus.CounterOpts{
			Name: "moneyctx_coordinator_retries_total",
			Help: "Total number of optimistic commit retries",
		}),
		LockWaitDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "moneyctx_lock_wait_seconds",
			Help:    "Time spent acquiring account locks",
			Buckets: []float64{.0001, .001, .01, .1, 1, 5},
		}),
	}
}
