// Package metrics exposes the prometheus counters shared by the event
// processor, the dispatcher and the sweeps.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	EventsApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "herd_events_applied_total",
		Help: "Reproductive events processed, by type and outcome.",
	}, []string{"type", "outcome"})

	MessagesDispatched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "herd_messages_dispatched_total",
		Help: "Notification messages dispatched, by type and status.",
	}, []string{"type", "status"})

	SweepRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "herd_sweep_runs_total",
		Help: "Overdue sweep executions, by result.",
	}, []string{"result"})

	SweepAlerts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "herd_sweep_alerts_total",
		Help: "Overdue alerts emitted by the sweep, by kind.",
	}, []string{"kind"})
)

// Handler returns the /metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
