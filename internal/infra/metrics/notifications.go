package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(notificationsSent, notificationErrors)
}

var (
	notificationsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_sent_total",
			Help: "Count of DM notifications delivered per kind (episode, movie, stock_alert, weather).",
		},
		[]string{"kind"},
	)

	notificationErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_errors_total",
			Help: "Count of notification delivery failures per kind.",
		},
		[]string{"kind"},
	)
)

func IncNotificationSent(kind string) {
	notificationsSent.WithLabelValues(norm(kind)).Inc()
}

func IncNotificationError(kind string) {
	notificationErrors.WithLabelValues(norm(kind)).Inc()
}
