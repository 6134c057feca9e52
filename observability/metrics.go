package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"net/http"
)

type Metrics struct {
	registry *prometheus.Registry

	PaymentsCreated      prometheus.Counter
	WebhookEvents        *prometheus.CounterVec
	NotificationsSent    *prometheus.CounterVec
	NotificationFailures prometheus.Counter
	ActivePolls          prometheus.Gauge
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		PaymentsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "payments_created_total",
			Help: "Deposit payments created at the gateway.",
		}),
		WebhookEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "webhook_events_total",
			Help: "Inbound gateway webhook events by type.",
		}, []string{"event"}),
		NotificationsSent: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "notifications_sent_total",
			Help: "Staff notifications delivered, by payment outcome.",
		}, []string{"status"}),
		NotificationFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "notification_failures_total",
			Help: "Staff notifications that could not be delivered.",
		}),
		ActivePolls: factory.NewGauge(prometheus.GaugeOpts{
			Name: "active_polls",
			Help: "Payments currently owned by a poll loop.",
		}),
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
