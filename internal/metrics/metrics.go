package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// OutcomeSuccess labels operations that completed normally.
	OutcomeSuccess = "success"
	// OutcomeError labels operations that failed outright.
	OutcomeError = "error"
	// OutcomeFallback labels operations that completed on a degraded path
	// (echo replies, neutral classifier verdicts).
	OutcomeFallback = "fallback"
)

// Trend report sources.
const (
	SourceCache    = "cache"
	SourceComputed = "computed"
)

var (
	chatTurnsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pulse",
			Name:      "chat_turns_total",
			Help:      "Total number of chat turns processed, partitioned by outcome.",
		},
		[]string{"outcome"},
	)

	chatTurnSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "pulse",
			Name:      "chat_turn_seconds",
			Help:      "End-to-end chat turn latency in seconds.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 3, 4, 5, 6, 8, 10},
		},
	)

	classifierRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pulse",
			Name:      "classifier_requests_total",
			Help:      "Sentiment classifier calls, partitioned by provider and outcome.",
		},
		[]string{"provider", "outcome"},
	)

	classifierSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "pulse",
			Name:      "classifier_seconds",
			Help:      "Sentiment classifier latency in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5},
		},
	)

	trendReportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pulse",
			Name:      "trend_reports_total",
			Help:      "Mood trend reports served, partitioned by source (cache or computed).",
		},
		[]string{"source"},
	)

	moodAlertsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pulse",
			Name:      "mood_alerts_total",
			Help:      "Mood alerts recorded by the analyzer, partitioned by kind.",
		},
		[]string{"kind"},
	)
)

// Register attaches pulse collectors to the supplied Prometheus registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		chatTurnsTotal,
		chatTurnSeconds,
		classifierRequestsTotal,
		classifierSeconds,
		trendReportsTotal,
		moodAlertsTotal,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveChatTurn records one processed chat turn.
func ObserveChatTurn(duration time.Duration, outcome string) {
	chatTurnsTotal.WithLabelValues(outcome).Inc()
	if duration < 0 {
		duration = 0
	}
	chatTurnSeconds.Observe(duration.Seconds())
}

// ObserveClassification records one classifier call.
func ObserveClassification(provider string, duration time.Duration, outcome string) {
	classifierRequestsTotal.WithLabelValues(provider, outcome).Inc()
	if duration < 0 {
		duration = 0
	}
	classifierSeconds.Observe(duration.Seconds())
}

// CountTrendReport records a served trend report and where it came from.
func CountTrendReport(source string) {
	trendReportsTotal.WithLabelValues(source).Inc()
}

// CountMoodAlert records a newly written mood alert.
func CountMoodAlert(kind string) {
	moodAlertsTotal.WithLabelValues(kind).Inc()
}
