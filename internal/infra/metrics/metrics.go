// Package metrics exposes Prometheus instrumentation for the report bot:
// inbound update counts, outbound delivery outcomes, moderation decisions and
// registry health.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// UpdatesTotal counts inbound updates by classified kind:
	// "start", "text", "decision", "command".
	UpdatesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reportbot_updates_total",
		Help: "Inbound chat updates by kind",
	}, []string{"kind"})

	// DeliveriesTotal counts best-effort outbound messages. Failures are
	// only ever visible here.
	DeliveriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reportbot_deliveries_total",
		Help: "Best-effort outbound deliveries by kind and outcome",
	}, []string{"kind", "outcome"}) // outcome = "ok", "failed"

	ReportsSubmittedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "reportbot_reports_submitted_total",
		Help: "Completed reports handed to moderation",
	})

	// DecisionsTotal counts moderation decisions by action and outcome:
	// "applied", "missing", "forbidden", "publish_failed", "error".
	DecisionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reportbot_decisions_total",
		Help: "Moderation decisions by action and outcome",
	}, []string{"action", "outcome"})

	RegistryUsers = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "reportbot_registry_users",
		Help: "Number of users in the registry",
	})

	RegistryPersistFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "reportbot_registry_persist_failures_total",
		Help: "Failed registry document saves",
	})
)

func init() {
	prometheus.MustRegister(
		UpdatesTotal,
		DeliveriesTotal,
		ReportsSubmittedTotal,
		DecisionsTotal,
		RegistryUsers,
		RegistryPersistFailuresTotal,
	)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
