package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(episodeChecks, alertsTriggered)
}

var (
	episodeChecks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "media_episode_checks_total",
			Help: "Count of per-show episode lookups performed by the release worker.",
		},
	)

	alertsTriggered = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stock_alerts_triggered_total",
			Help: "Count of one-shot stock alerts that fired, per direction.",
		},
		[]string{"direction"},
	)
)

func AddEpisodeChecks(n int) {
	episodeChecks.Add(float64(n))
}

func IncAlertTriggered(direction string) {
	alertsTriggered.WithLabelValues(norm(direction)).Inc()
}
