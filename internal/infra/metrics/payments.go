package metrics

import (
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once       sync.Once
	collectors []prometheus.Collector
)

// register queues collectors at init time; MustRegister publishes them.
func register(cs ...prometheus.Collector) {
	collectors = append(collectors, cs...)
}

// MustRegister registers every queued collector with the default Prometheus
// registry, exactly once. Panics if no collector file ran its init, which
// would mean the payment and subscription metrics silently vanished.
func MustRegister() {
	once.Do(func() {
		if len(collectors) == 0 {
			panic("metrics: no collectors queued")
		}
		prometheus.MustRegister(collectors...)
	})
}

func init() {
	register(
		sessionsCreatedTotal,
		transactionRejectionsTotal,
		qrRenderSeconds,
	)
}

var (
	sessionsCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upi_payment_sessions_created_total",
			Help: "Payment sessions created, labeled by plan type.",
		},
		[]string{"plan"},
	)

	transactionRejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upi_transaction_rejections_total",
			Help: "Rejected transaction ids by reason (format/replay).",
		},
		[]string{"reason"},
	)

	qrRenderSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upi_qr_render_seconds",
			Help:    "QR rendering latency distribution.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
		},
		[]string{"success"},
	)
)

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func IncSessionCreated(plan string) {
	sessionsCreatedTotal.WithLabelValues(norm(plan)).Inc()
}

func IncTransactionRejected(reason string) {
	transactionRejectionsTotal.WithLabelValues(norm(reason)).Inc()
}

func ObserveQRRender(d time.Duration, success bool) {
	lbl := "false"
	if success {
		lbl = "true"
	}
	qrRenderSeconds.WithLabelValues(lbl).Observe(d.Seconds())
}
