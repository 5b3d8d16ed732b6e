// Package metrics exposes Prometheus instrumentation for the relay.
//
// Label values are drawn from small fixed sets (handling outcomes and failure
// kinds) so cardinality stays bounded regardless of traffic.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Failure kinds used as the "kind" label of relay_failures_total.
const (
	KindCompletion = "completion"
	KindModeration = "moderation"
	KindSynthesis  = "synthesis"
	KindPlatform   = "platform"
	KindRegistry   = "registry"
)

var (
	// messagesTotal counts handled text messages by outcome.
	messagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_messages_total",
			Help: "Inbound text messages handled, by outcome.",
		},
		[]string{"outcome"},
	)

	// failuresTotal counts isolated per-message failures by collaborator.
	failuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_failures_total",
			Help: "Per-message failures recovered by the relay, by kind.",
		},
		[]string{"kind"},
	)

	pollErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_poll_errors_total",
			Help: "Failed getUpdates calls.",
		},
	)

	newChatsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_registry_new_chats_total",
			Help: "Chats added to the registry since start.",
		},
	)

	// completionDuration covers completion calls including failures.
	completionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "relay_completion_duration_seconds",
			Help:    "Duration of completion requests in seconds.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
		},
	)
)

func init() {
	prometheus.MustRegister(messagesTotal, failuresTotal, pollErrorsTotal, newChatsTotal, completionDuration)
}

// ObserveOutcome counts one handled message.
func ObserveOutcome(outcome string) {
	messagesTotal.WithLabelValues(outcome).Inc()
}

// ObserveFailure counts one recovered failure of the given kind.
func ObserveFailure(kind string) {
	failuresTotal.WithLabelValues(kind).Inc()
}

// ObservePollError counts one failed poll.
func ObservePollError() {
	pollErrorsTotal.Inc()
}

// ObserveNewChat counts one chat added to the registry.
func ObserveNewChat() {
	newChatsTotal.Inc()
}

// ObserveCompletion records the duration of one completion call.
func ObserveCompletion(d time.Duration) {
	completionDuration.Observe(d.Seconds())
}
