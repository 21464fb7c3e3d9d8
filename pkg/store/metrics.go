package store

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	writesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "housegram_store_writes_total",
		Help: "Document writes by kind.",
	}, []string{"kind"})

	writeFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "housegram_store_write_failures_total",
		Help: "Failed document writes by kind.",
	}, []string{"kind"})

	readsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "housegram_store_reads_total",
		Help: "Document reads and scans by kind.",
	}, []string{"kind"})

	scanDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "housegram_store_scan_seconds",
		Help:    "Wall time of namespace scans by kind.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})
)

func recordWrite(kind string) {
	writesTotal.WithLabelValues(kind).Inc()
}

func recordRead(kind string) {
	readsTotal.WithLabelValues(kind).Inc()
}

// observeScan times a namespace scan; call with the start time once the
// iterator is exhausted.
func observeScan(kind string, start time.Time) {
	scanDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}

// RecordWriteFailure counts a failed write for operators; callers invoke it
// at the point the error is surfaced.
func RecordWriteFailure(kind string) {
	writeFailures.WithLabelValues(kind).Inc()
}
