package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		activationsTotal,
		subscriptionsActive,
		subscriptionsExpired,
	)
}

var (
	activationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upi_subscription_activations_total",
			Help: "Subscription activations by mode (manual/auto) and plan.",
		},
		[]string{"mode", "plan"},
	)

	subscriptionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "upi_subscriptions_active",
			Help: "Subscriptions currently within their term.",
		},
	)

	subscriptionsExpired = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "upi_subscriptions_expired",
			Help: "Stored subscriptions past their expiry instant.",
		},
	)
)

func IncActivation(mode, plan string) {
	activationsTotal.WithLabelValues(norm(mode), norm(plan)).Inc()
}

func SetSubscriptionCounts(active, expired int) {
	subscriptionsActive.Set(float64(active))
	subscriptionsExpired.Set(float64(expired))
}
