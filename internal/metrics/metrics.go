package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricPrefix = "curbside_"

// Session lifecycle events.
const (
	SessionStarted  = "started"
	SessionStopped  = "stopped"
	SessionConflict = "conflict"
)

var (
	registerOnce sync.Once

	classificationsTotal *prometheus.CounterVec
	evaluationLatency    prometheus.Histogram
	budgetMinutesCharged prometheus.Counter
	sessionsTotal        *prometheus.CounterVec
)

// Init registers the engine metrics with the default registry. Recording
// functions are no-ops until Init has run.
func Init() {
	registerOnce.Do(func() {
		classificationsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "classifications_total",
				Help: "Total segment classifications by group",
			},
			[]string{"group"},
		)
		evaluationLatency = prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "evaluation_latency_seconds",
				Help:    "Latency of a segment evaluation request in seconds",
				Buckets: prometheus.DefBuckets,
			},
		)
		budgetMinutesCharged = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "budget_minutes_charged_total",
				Help: "Total free-parking budget minutes drawn from the daily ledger",
			},
		)
		sessionsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "sessions_total",
				Help: "Total parking session lifecycle events",
			},
			[]string{"event"},
		)

		prometheus.MustRegister(
			classificationsTotal,
			evaluationLatency,
			budgetMinutesCharged,
			sessionsTotal,
		)
	})
}

// IncClassification counts one classified segment.
func IncClassification(group string) {
	if group == "" {
		group = "unknown"
	}
	if classificationsTotal != nil {
		classificationsTotal.WithLabelValues(group).Inc()
	}
}

// ObserveEvaluation records the duration of one evaluation request.
func ObserveEvaluation(duration time.Duration) {
	if evaluationLatency != nil {
		evaluationLatency.Observe(duration.Seconds())
	}
}

// AddBudgetMinutesCharged adds minutes drawn from the ledger.
func AddBudgetMinutesCharged(minutes int) {
	if minutes <= 0 {
		return
	}
	if budgetMinutesCharged != nil {
		budgetMinutesCharged.Add(float64(minutes))
	}
}

// IncSession counts a session lifecycle event.
func IncSession(event string) {
	if sessionsTotal != nil {
		sessionsTotal.WithLabelValues(event).Inc()
	}
}
