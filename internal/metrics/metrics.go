// Package metrics counts fetches per normative type and outcome and writes
// them in the Prometheus text format.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/legisbr/legis/internal/legal"
	"github.com/legisbr/legis/internal/planalto"
)

// Fetch outcomes.
const (
	OutcomeSuccess     = "success"
	OutcomeNotFound    = "not_found"
	OutcomeUnsupported = "unsupported"
	OutcomeError       = "error"
)

// Collector records fetch results. It satisfies session.Observer.
type Collector struct {
	registry *prometheus.Registry
	fetches  *prometheus.CounterVec
	bytes    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// New creates a collector with its own registry.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "legis",
			Name:      "fetches_total",
			Help:      "Citations fetched, by normative type and outcome.",
		}, []string{"type", "outcome"}),
		bytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "legis",
			Name:      "fetched_bytes_total",
			Help:      "Bytes of page content fetched, by normative type.",
		}, []string{"type"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "legis",
			Name:      "fetch_duration_seconds",
			Help:      "Time spent fetching one citation.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"type"}),
	}
	c.registry.MustRegister(c.fetches, c.bytes, c.duration)
	return c
}

// ObserveFetch records one resolved fetch.
func (c *Collector) ObserveFetch(cit legal.Citation, bytes int, elapsed time.Duration, err error) {
	t := cit.Type.Slug()
	c.fetches.WithLabelValues(t, Outcome(err)).Inc()
	c.duration.WithLabelValues(t).Observe(elapsed.Seconds())
	if err == nil {
		c.bytes.WithLabelValues(t).Add(float64(bytes))
	}
}

// Outcome classifies a fetch error.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case planalto.IsNotFound(err):
		return OutcomeNotFound
	case planalto.IsUnsupported(err):
		return OutcomeUnsupported
	default:
		return OutcomeError
	}
}

// Registry returns the registry holding the collector's metrics.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// WriteTextfile writes the metrics to path atomically, in the format read by
// the node exporter textfile collector.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("writing metrics: %w", err)
	}
	return nil
}
