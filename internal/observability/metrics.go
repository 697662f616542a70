package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the decode
// pipeline.
type Metrics struct {
	MessagesDecoded *prometheus.CounterVec // label: type={tempdrop,recco,vortex}
	MessagesSkipped prometheus.Counter
	FormatErrors    prometheus.Counter
	RecordsEmitted  *prometheus.CounterVec // label: tag={MANL,SIGL,...}

	LevelsPerMessage prometheus.Histogram
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.MessagesDecoded,
		m.MessagesSkipped,
		m.FormatErrors,
		m.RecordsEmitted,
		m.LevelsPerMessage,
	)
	return m
}

// NewMetricsForTesting creates Metrics without touching the default registry
// to avoid "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		MessagesDecoded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "recon_decoder",
			Name:      "messages_decoded_total",
			Help:      "Total bulletins dispatched to a format decoder, by type.",
		}, []string{"type"}),
		MessagesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "recon_decoder",
			Name:      "messages_skipped_total",
			Help:      "Total bulletins skipped for an unrecognized header.",
		}),
		FormatErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "recon_decoder",
			Name:      "format_errors_total",
			Help:      "Total messages aborted on a malformed field.",
		}),
		RecordsEmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "recon_decoder",
			Name:      "records_emitted_total",
			Help:      "Total sounding records written, by subtype tag.",
		}, []string{"tag"}),
		LevelsPerMessage: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "recon_decoder",
			Name:      "levels_per_message",
			Help:      "Records emitted per decoded message.",
			Buckets:   []float64{1, 2, 5, 10, 20, 50, 100, 200},
		}),
	}
}
