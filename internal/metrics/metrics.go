// Package metrics holds the service's prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// EventsIngested counts stored events by predicted type
	EventsIngested = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vapegaurd_events_ingested_total",
		Help: "Number of classified sensor events stored, by predicted type.",
	}, []string{"predicted_type"})

	// ClassifierFailures counts scoring calls that failed
	ClassifierFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "vapegaurd_classifier_failures_total",
		Help: "Number of classifier calls that failed or timed out.",
	})

	// StoreFailures counts event store operations that failed
	StoreFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "vapegaurd_store_failures_total",
		Help: "Number of event store operations that failed.",
	})

	// ClassifyDuration observes scoring latency
	ClassifyDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "vapegaurd_classify_duration_seconds",
		Help:    "Latency of classifier scoring calls.",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
	})
)

func init() {
	prometheus.MustRegister(EventsIngested, ClassifierFailures, StoreFailures, ClassifyDuration)
}
