package ingest

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// File outcomes used as metric labels.
const (
	OutcomeIndexed = "indexed"
	OutcomeSkipped = "skipped"
	OutcomeFailed  = "failed"
)

// Metrics holds the ingest Prometheus metrics. A nil *Metrics records nothing.
type Metrics struct {
	filesTotal   *prometheus.CounterVec
	recordsTotal prometheus.Counter
	samplesTotal prometheus.Counter
	fileDuration prometheus.Histogram
}

// NewMetrics creates the ingest metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		filesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "xh_ingest_files_total",
				Help: "Total number of files processed by outcome",
			},
			[]string{"outcome"},
		),
		recordsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "xh_ingest_records_total",
				Help: "Total number of XH records decoded",
			},
		),
		samplesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "xh_ingest_samples_total",
				Help: "Total number of samples decoded",
			},
		),
		fileDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "xh_ingest_file_duration_seconds",
				Help:    "Time spent decoding and indexing one file",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
}

// RecordFile records one processed file
func (m *Metrics) RecordFile(outcome string, records int, samples int64, duration time.Duration) {
	if m == nil {
		return
	}
	m.filesTotal.WithLabelValues(outcome).Inc()
	m.recordsTotal.Add(float64(records))
	m.samplesTotal.Add(float64(samples))
	m.fileDuration.Observe(duration.Seconds())
}
