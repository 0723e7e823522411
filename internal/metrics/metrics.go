package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Chat Metrics
	ChatRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "app_chat_requests_total",
		Help: "Total number of chat answers by outcome.",
	}, []string{"outcome"}) // outcome: "answered", "keyword", "failed"

	CompletionDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "app_completion_duration_seconds",
		Help:    "Latency of completion provider calls.",
		Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 15, 30},
	}, []string{"status"}) // status: "ok", "error", "timeout"

	ContextSectionFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "app_context_section_failures_total",
		Help: "Total number of context lookups that failed and were rendered empty.",
	}, []string{"section"})

	SuggestionsDroppedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "app_suggestions_dropped_total",
		Help: "Total number of model suggestions dropped before responding.",
	}, []string{"reason"}) // reason: "unknown_type", "missing_id", "unverified", "over_cap"

	ExtractionFallbacksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_extraction_fallbacks_total",
		Help: "Total number of completion replies that could not be parsed as structured answers.",
	})

	// Feedback Metrics
	FeedbackSubmittedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_feedback_submitted_total",
		Help: "Total number of feedback submissions.",
	})
)
