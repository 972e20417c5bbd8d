// Package metrics exposes Prometheus collectors for executions and
// provider lookups, plus an optional standalone /metrics listener.
package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Recorder holds the application's collectors. Construct one per process
// with its own registry so tests can instantiate freely.
type Recorder struct {
	registry *prometheus.Registry

	executionsTotal   *prometheus.CounterVec
	executionDuration prometheus.Histogram
	providerRequests  *prometheus.CounterVec
}

// New creates a Recorder backed by a fresh registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		executionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "querybox_executions_total",
				Help: "Total snippet executions by outcome",
			},
			[]string{"outcome"},
		),
		executionDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "querybox_execution_duration_seconds",
				Help:    "Snippet execution duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		providerRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "querybox_provider_requests_total",
				Help: "Provider HTTP requests by provider, endpoint and status",
			},
			[]string{"provider", "endpoint", "status"},
		),
	}
}

// RecordExecution records one execution outcome and its duration.
func (r *Recorder) RecordExecution(outcome string, seconds float64) {
	r.executionsTotal.WithLabelValues(outcome).Inc()
	r.executionDuration.Observe(seconds)
}

// RecordProviderRequest records one provider HTTP request.
func (r *Recorder) RecordProviderRequest(provider, endpoint, status string) {
	r.providerRequests.WithLabelValues(provider, endpoint, status).Inc()
}

// Registry returns the underlying registry, for test assertions.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Serve starts a blocking /metrics listener on the given port.
func (r *Recorder) Serve(port int, logger *zap.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{}))
	logger.Info("starting metrics listener", zap.Int("port", port))
	return http.ListenAndServe(fmt.Sprintf(":%d", port), mux)
}
