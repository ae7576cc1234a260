package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ekaradag/shopsync/internal/domain"
)

// Metrics groups all Prometheus instruments used across the application.
// Registered once at startup via New(); passed by pointer wherever needed.
type Metrics struct {
	PushSent            *prometheus.CounterVec
	PushFailed          *prometheus.CounterVec
	SubscriptionsPruned prometheus.Counter
	CampaignsDispatched *prometheus.CounterVec
	DispatchDuration    prometheus.Histogram
	ScheduledCampaigns  prometheus.Gauge
	OrdersReceived      prometheus.Counter
}

// New registers all instruments with the given Prometheus registerer and
// returns the populated Metrics struct.
// Using a custom registry (instead of prometheus.DefaultRegisterer) keeps
// tests isolated and avoids global state.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		PushSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "push_sent_total",
			Help: "Total number of push messages accepted by the push service.",
		}, []string{"category"}),

		PushFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "push_failed_total",
			Help: "Total number of push deliveries that failed (excluding pruned endpoints).",
		}, []string{"category"}),

		SubscriptionsPruned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "subscriptions_pruned_total",
			Help: "Total number of subscriptions deleted because the push service reported them gone.",
		}),

		CampaignsDispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "campaigns_dispatched_total",
			Help: "Total number of campaigns fanned out to their audience.",
		}, []string{"category"}),

		DispatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "campaign_dispatch_seconds",
			Help:    "Wall time of a full campaign fan-out, claim to bookkeeping.",
			Buckets: prometheus.DefBuckets,
		}),

		ScheduledCampaigns: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "scheduler_pending_campaigns",
			Help: "Number of campaigns currently armed in the scheduler's timer registry.",
		}),

		OrdersReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orders_received_total",
			Help: "Total number of checkout orders accepted, replayed duplicates included.",
		}),
	}

	reg.MustRegister(
		m.PushSent,
		m.PushFailed,
		m.SubscriptionsPruned,
		m.CampaignsDispatched,
		m.DispatchDuration,
		m.ScheduledCampaigns,
		m.OrdersReceived,
	)

	return m
}

// DispatchHooks returns the metric callback functions expected by
// dispatch.MetricHooks. Centralises the prometheus observation calls so
// the engine stays metrics-agnostic.
func (m *Metrics) DispatchHooks() (
	onSent func(domain.Category),
	onFailed func(domain.Category),
	onPruned func(),
	onDispatched func(domain.Category, time.Duration),
) {
	onSent = func(c domain.Category) {
		m.PushSent.WithLabelValues(string(c)).Inc()
	}
	onFailed = func(c domain.Category) {
		m.PushFailed.WithLabelValues(string(c)).Inc()
	}
	onPruned = func() {
		m.SubscriptionsPruned.Inc()
	}
	onDispatched = func(c domain.Category, elapsed time.Duration) {
		m.CampaignsDispatched.WithLabelValues(string(c)).Inc()
		m.DispatchDuration.Observe(elapsed.Seconds())
	}
	return
}
