package parallel

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains Prometheus metrics for parallel parsing.
type Metrics struct {
	batches   prometheus.Counter
	documents prometheus.Counter
	failures  prometheus.Counter

	batchDuration prometheus.Histogram
}

// NewMetrics creates a new Metrics instance registered with reg. A nil
// registerer uses the default registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		batches: factory.NewCounter(prometheus.CounterOpts{
			Name: "fastyaml_parallel_batches_total",
			Help: "Total number of multi-document batches parsed",
		}),
		documents: factory.NewCounter(prometheus.CounterOpts{
			Name: "fastyaml_parallel_documents_total",
			Help: "Total number of documents parsed across all batches",
		}),
		failures: factory.NewCounter(prometheus.CounterOpts{
			Name: "fastyaml_parallel_document_failures_total",
			Help: "Total number of documents that failed to parse",
		}),
		batchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "fastyaml_parallel_batch_duration_seconds",
			Help:    "Wall-clock duration of batch parses",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// RecordBatch records the outcome of one batch parse.
func (m *Metrics) RecordBatch(documents, failures int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.batches.Inc()
	m.documents.Add(float64(documents))
	m.failures.Add(float64(failures))
	m.batchDuration.Observe(elapsed.Seconds())
}
