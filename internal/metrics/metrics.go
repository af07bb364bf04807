package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	// IdentifyRequestsTotal counts identify endpoint responses by status class.
	IdentifyRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scancoin",
		Subsystem: "api",
		Name:      "identify_requests_total",
		Help:      "Total number of identify-coin requests, labeled by mode and result.",
	}, []string{"mode", "result"})

	// UpstreamRequestsTotal counts calls to the external vision provider.
	UpstreamRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scancoin",
		Subsystem: "vision",
		Name:      "upstream_requests_total",
		Help:      "Total number of vision provider calls, labeled by provider and outcome.",
	}, []string{"provider", "outcome"})

	// UpstreamDurationSeconds is the wall time of one provider round trip.
	UpstreamDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "scancoin",
		Subsystem: "vision",
		Name:      "upstream_duration_seconds",
		Help:      "Duration of vision provider calls.",
		Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 15, 30, 60},
	}, []string{"provider"})

	// CollectionSavesTotal counts records appended to the collection.
	CollectionSavesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "scancoin",
		Subsystem: "collection",
		Name:      "saves_total",
		Help:      "Total number of coin records saved.",
	})

	// ResultCacheTotal counts identify result cache lookups by outcome.
	ResultCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scancoin",
		Subsystem: "cache",
		Name:      "lookups_total",
		Help:      "Identify result cache lookups, labeled by hit or miss.",
	}, []string{"result"})
)

// Register registers the collectors with the default Prometheus registry.
// Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			IdentifyRequestsTotal,
			UpstreamRequestsTotal,
			UpstreamDurationSeconds,
			CollectionSavesTotal,
			ResultCacheTotal,
		)
	})
}

// ObserveUpstream records one provider call.
func ObserveUpstream(provider, outcome string, elapsed time.Duration) {
	UpstreamRequestsTotal.WithLabelValues(provider, outcome).Inc()
	UpstreamDurationSeconds.WithLabelValues(provider).Observe(elapsed.Seconds())
}
