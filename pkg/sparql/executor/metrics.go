package executor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Query status label values
const (
	statusOK        = "ok"
	statusMalformed = "malformed"
	statusError     = "error"
)

type metrics struct {
	queries     *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	resultSize  *prometheus.HistogramVec
	rowsScanned prometheus.Counter
}

// newMetrics registers the executor metrics. A nil registerer keeps them unregistered.
func newMetrics(reg prometheus.Registerer) *metrics {
	return &metrics{
		queries: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "triq_queries_total",
			Help: "Total number of executed queries by form and status.",
		}, []string{"form", "status"}),
		duration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "triq_query_duration_seconds",
			Help:    "Time spent executing queries.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"form"}),
		resultSize: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "triq_result_size",
			Help:    "Number of triples returned by CONSTRUCT and DESCRIBE, or 0/1 for ASK.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}, []string{"form"}),
		rowsScanned: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "triq_rows_scanned_total",
			Help: "Total number of stored triples read while matching patterns.",
		}),
	}
}
