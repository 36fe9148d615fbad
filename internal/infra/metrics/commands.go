package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(commandsTotal, rateLimitsTriggered)
}

var (
	commandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_commands_total",
			Help: "Count of handled bot commands per command and outcome.",
		},
		[]string{"command", "outcome"},
	)

	rateLimitsTriggered = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_rate_limits_triggered_total",
			Help: "Count of commands rejected by the per-user rate limiter.",
		},
	)
)

func IncCommand(command, outcome string) {
	commandsTotal.WithLabelValues(norm(command), norm(outcome)).Inc()
}

func IncRateLimitTriggered() {
	rateLimitsTriggered.Inc()
}
