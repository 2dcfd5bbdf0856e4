// Package metrics provides Prometheus metrics for the contact and rating lifecycle.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "sellerconnect"

var (
	// DedupDecisionsTotal tracks deduper decisions by scope and outcome
	DedupDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dedup",
			Name:      "decisions_total",
			Help:      "Total number of dedup decisions by scope and outcome",
		},
		[]string{"scope", "outcome"},
	)

	// DedupKeys tracks the number of keys held by the deduper
	DedupKeys = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "dedup",
			Name:      "keys",
			Help:      "Number of keys currently tracked by the deduper",
		},
	)

	// ContactsRecordedTotal tracks RecordContact outcomes
	ContactsRecordedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "contact",
			Name:      "recorded_total",
			Help:      "Total number of contact recordings by outcome",
		},
		[]string{"outcome"},
	)

	// AnalyticsWriteFailuresTotal tracks swallowed analytics sink failures
	AnalyticsWriteFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analytics",
			Name:      "write_failures_total",
			Help:      "Total number of best-effort analytics writes that failed",
		},
		[]string{"event_type"},
	)

	// RatingTransitionsTotal tracks rating ledger transitions
	RatingTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rating",
			Name:      "transitions_total",
			Help:      "Total number of rating state transitions",
		},
		[]string{"transition"},
	)

	// PromptsServedTotal tracks prompt lookups by result
	PromptsServedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "prompt",
			Name:      "lookups_total",
			Help:      "Total number of rating prompt lookups by result",
		},
		[]string{"result"},
	)
)
