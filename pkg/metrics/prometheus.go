package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	candlesFetched *prometheus.CounterVec
	errorsTotal    *prometheus.CounterVec
	classTotal     *prometheus.CounterVec
	latency        *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		candlesFetched: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketlens_candles_fetched_total",
				Help: "Total number of candles fetched from the remote provider",
			},
			[]string{"symbol", "interval"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketlens_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		classTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketlens_classifications_total",
				Help: "Classified market states by interval and trend",
			},
			[]string{"interval", "trend"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "marketlens_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordFetch records candles fetched for a symbol and interval.
func (r *Recorder) RecordFetch(symbol, interval string, candles int) {
	r.candlesFetched.WithLabelValues(symbol, interval).Add(float64(candles))
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordClassification records a classification outcome.
func (r *Recorder) RecordClassification(interval, trend string) {
	r.classTotal.WithLabelValues(interval, trend).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
