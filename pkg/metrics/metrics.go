package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	HTTPRequests      *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
	EncountersCreated prometheus.Counter
	AuditEntries      *prometheus.CounterVec
}

// NewMetrics creates and registers all application metrics on reg. Passing a
// fresh registry keeps tests isolated from the default one.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of handled HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of handled HTTP requests",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"method", "path"}),
		EncountersCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "encounters_created_total",
			Help:      "Total number of encounters created",
		}),
		AuditEntries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_entries_total",
			Help:      "Total number of audit entries appended",
		}, []string{"action"}),
	}
}

// New registers the application metrics on the default registry.
func New(namespace string) *Metrics {
	return NewMetrics(namespace, prometheus.DefaultRegisterer)
}
