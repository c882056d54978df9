package search

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/cesargomez89/vibefinder/internal/domain"
)

var (
	providerCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vibefinder_provider_calls_total",
			Help: "Provider search calls by outcome",
		},
		[]string{"provider", "phase", "outcome"},
	)
	providerDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vibefinder_provider_duration_seconds",
			Help:    "Provider search latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)
	searches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vibefinder_searches_total",
			Help: "Aggregated searches by result status",
		},
		[]string{"status"},
	)
	searchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vibefinder_search_duration_seconds",
			Help:    "End-to-end aggregated search latency",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(providerCalls, providerDuration, searches, searchDuration)
}

const (
	phaseSequential = "sequential"
	phaseFallback   = "fallback"
)

func observeProvider(name domain.ProviderName, phase string, elapsed time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = string(domain.KindOf(err))
	}
	providerCalls.WithLabelValues(string(name), phase, outcome).Inc()
	providerDuration.WithLabelValues(string(name)).Observe(elapsed.Seconds())
}

func observeSearch(status string, elapsed time.Duration) {
	searches.WithLabelValues(status).Inc()
	searchDuration.Observe(elapsed.Seconds())
}
