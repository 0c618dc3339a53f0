// Package metrics holds the Prometheus collectors exported by the server.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for AuthAttempts.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeError   = "error"
)

// Metrics contains the custom collectors for the job portal.
type Metrics struct {
	registry       *prometheus.Registry
	AuthAttempts   *prometheus.CounterVec
	UploadFailures *prometheus.CounterVec
}

// New creates a private registry with process and Go collectors plus the
// job portal counters.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		AuthAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jobportal_auth_attempts_total",
				Help: "Total number of auth operations by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		UploadFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jobportal_upload_failures_total",
				Help: "Total number of media uploads that failed, by destination folder",
			},
			[]string{"folder"},
		),
	}

	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	reg.MustRegister(m.AuthAttempts)
	reg.MustRegister(m.UploadFailures)
	return m
}

// RecordAuth counts one auth operation. Safe on a nil receiver.
func (m *Metrics) RecordAuth(operation, outcome string) {
	if m == nil {
		return
	}
	m.AuthAttempts.WithLabelValues(operation, outcome).Inc()
}

// RecordUploadFailure counts one failed upload. Safe on a nil receiver.
func (m *Metrics) RecordUploadFailure(folder string) {
	if m == nil {
		return
	}
	m.UploadFailures.WithLabelValues(folder).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
