package dashboard

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics instruments the poller, store, dispatcher and notification queue.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Fetches       *prometheus.CounterVec
	FetchDuration *prometheus.HistogramVec
	StaleDiscards *prometheus.CounterVec
	Actions       *prometheus.CounterVec
	Notifications *prometheus.CounterVec
}

// NewMetrics registers the dashboard collectors with reg. A nil reg gets a
// private registry nobody scrapes.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)

	return &Metrics{
		Fetches: f.NewCounterVec(prometheus.CounterOpts{
			Name: "socdash_fetches_total",
			Help: "Backend fetches by poll task and outcome.",
		}, []string{"task", "outcome"}),

		FetchDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "socdash_fetch_duration_seconds",
			Help:    "Backend fetch latency by poll task.",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"task"}),

		StaleDiscards: f.NewCounterVec(prometheus.CounterOpts{
			Name: "socdash_stale_discards_total",
			Help: "Fetch results dropped because a newer result was already applied.",
		}, []string{"task"}),

		Actions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "socdash_actions_total",
			Help: "Response actions and simulations by outcome.",
		}, []string{"kind", "outcome"}),

		Notifications: f.NewCounterVec(prometheus.CounterOpts{
			Name: "socdash_notifications_total",
			Help: "Toasts pushed by kind.",
		}, []string{"kind"}),
	}
}

func (m *Metrics) observeFetch(task Task, err error, took time.Duration) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.Fetches.WithLabelValues(string(task), outcome).Inc()
	m.FetchDuration.WithLabelValues(string(task)).Observe(took.Seconds())
}

func (m *Metrics) observeStale(task Task) {
	if m == nil {
		return
	}
	m.StaleDiscards.WithLabelValues(string(task)).Inc()
}

func (m *Metrics) observeAction(kind, outcome string) {
	if m == nil {
		return
	}
	m.Actions.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) observeNotification(kind Kind) {
	if m == nil {
		return
	}
	m.Notifications.WithLabelValues(string(kind)).Inc()
}
