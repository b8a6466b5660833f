package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(notificationsSentTotal, reminderScheduledTotal)
}

var (
	notificationsSentTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_sent_total",
			Help: "Notification deliveries by result.",
		},
		[]string{"result"}, // sent | failed
	)

	reminderScheduledTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subscription_reminders_total",
			Help: "Subscription reminders scheduled, by kind.",
		},
		[]string{"kind"}, // d3 | d1 | expired
	)
)

func IncNotificationResult(result string) {
	notificationsSentTotal.WithLabelValues(norm(result)).Inc()
}

func IncReminderScheduled(kind string) {
	reminderScheduledTotal.WithLabelValues(norm(kind)).Inc()
}
