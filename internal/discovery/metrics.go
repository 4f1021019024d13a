package discovery

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	swipesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discovery_swipes_total",
			Help: "Total number of swipes recorded",
		},
		[]string{"decision"},
	)

	matchesServed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "discovery_matches_served_total",
			Help: "Total number of ranked candidates returned",
		},
	)

	degradedFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "discovery_degraded_fallbacks_total",
			Help: "Ranking calls served by the degraded fallback",
		},
	)

	compatibilityScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "discovery_compatibility_scores",
			Help:    "Distribution of compatibility scores",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		},
	)

	rankingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "discovery_ranking_duration_seconds",
			Help:    "Time spent producing a ranked match list",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func RecordSwipeMetric(isLike bool) {
	decision := "pass"
	if isLike {
		decision = "like"
	}
	swipesTotal.WithLabelValues(decision).Inc()
}

func RecordMatchesServed(count int) {
	matchesServed.Add(float64(count))
}

func RecordDegradedFallback() {
	degradedFallbacks.Inc()
}

func ObserveCompatibilityScore(score float64) {
	compatibilityScores.Observe(score)
}

func ObserveRankingDuration(d time.Duration) {
	rankingDuration.Observe(d.Seconds())
}
