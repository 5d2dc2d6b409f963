// Package metrics exposes Prometheus instrumentation for the generation
// pipeline. Everything registers once at init; the HTTP shell mounts the
// handler under /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	GenerationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cvforge_generations_total",
		Help: "Number of generation requests accepted.",
	})

	GenerationsFailed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cvforge_generations_failed_total",
		Help: "Number of failed generations by error kind.",
	}, []string{"kind"})

	CompileDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cvforge_compile_duration_seconds",
		Help:    "Wall-clock duration of the full two-pass compile.",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 8),
	})
)

func init() {
	prometheus.MustRegister(GenerationsTotal, GenerationsFailed, CompileDuration)
}

// Handler serves the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
