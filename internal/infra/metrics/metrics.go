package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	CommandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scrimbot_commands_total",
		Help: "Slash command invocations by command name.",
	}, []string{"command"})

	ComponentClicksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scrimbot_component_clicks_total",
		Help: "Message component interactions by action tag.",
	}, []string{"action"})

	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "scrimbot_active_sessions",
		Help: "Interactive scrim sessions currently open.",
	})
)

// Handler serves the prometheus registry; mounted by cmd/bot on its own addr.
func Handler() http.Handler { return promhttp.Handler() }
