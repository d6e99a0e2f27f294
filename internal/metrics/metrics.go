package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics aggregates the service's Prometheus instruments.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	IngestSuccessTotal  prometheus.Counter
	IngestFailureTotal  prometheus.Counter
	StaleServedTotal    prometheus.Counter
	PersistFailureTotal prometheus.Counter

	NotificationsSentTotal   prometheus.Counter
	NotificationsFailedTotal prometheus.Counter
}

// New registers all instruments against the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"path", "method", "status_code"},
		),

		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"path", "method"},
		),

		IngestSuccessTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "ingest_success_total",
				Help: "Total number of successful ingestion cycles",
			},
		),

		IngestFailureTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "ingest_failure_total",
				Help: "Total number of failed ingestion cycles",
			},
		),

		StaleServedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "stale_responses_total",
				Help: "Total number of responses served from the stale cache",
			},
		),

		PersistFailureTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "persist_failure_total",
				Help: "Total number of non-fatal persistence failures",
			},
		),

		NotificationsSentTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "notifications_sent_total",
				Help: "Total number of delivered notifications",
			},
		),

		NotificationsFailedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "notifications_failed_total",
				Help: "Total number of failed notification deliveries",
			},
		),
	}
}
