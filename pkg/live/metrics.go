package live

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	activeSubscriptions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "housegram_live_subscriptions",
		Help: "Currently registered hub subscriptions.",
	})

	wakeupsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "housegram_live_wakeups_total",
		Help: "Wakeups delivered to subscribers.",
	})

	coalescedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "housegram_live_wakeups_coalesced_total",
		Help: "Wakeups coalesced into an already-pending one.",
	})

	snapshotsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "housegram_live_snapshots_total",
		Help: "Full snapshots rebuilt and delivered, by feed kind.",
	}, []string{"feed"})
)
