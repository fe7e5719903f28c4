// Package metrics exposes the ledger's Prometheus instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RequestDuration tracks HTTP request latency by route and status.
var RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "ledger",
	Subsystem: "http",
	Name:      "request_duration_seconds",
	Help:      "HTTP request latency by route and status.",
	Buckets:   prometheus.DefBuckets,
}, []string{"method", "route", "status"})

// TransitionsTotal counts committed state-machine transitions by event kind.
var TransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "ledger",
	Subsystem: "core",
	Name:      "transitions_total",
	Help:      "Committed ledger transitions by event kind.",
}, []string{"kind"})

// BurnedUnits counts units permanently removed from circulation by cause.
var BurnedUnits = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "ledger",
	Subsystem: "core",
	Name:      "burned_units_total",
	Help:      "Units permanently removed from circulation by burn cause.",
}, []string{"cause"})

// ContributionsTotal counts accepted contributions.
var ContributionsTotal = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "ledger",
	Subsystem: "core",
	Name:      "contributions_total",
	Help:      "Accepted contributions.",
})

// ConservationViolations counts campaigns frozen by a failed conservation check.
var ConservationViolations = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "ledger",
	Subsystem: "core",
	Name:      "conservation_violations_total",
	Help:      "Campaigns frozen after a conservation check failure.",
})
