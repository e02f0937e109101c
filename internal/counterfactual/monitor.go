// Copyright 2025 Brujula Authors
// SPDX-License-Identifier: Apache-2.0

package counterfactual

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/brujula-dev/brujula/internal/monitoring"
)

// Collection of Prometheus metrics to monitor explanation generation.
type Monitor struct {
	// A histogram to measure how long a full generation takes.
	generationTimer prometheus.Observer
	// Counter for evaluated candidates, by outcome.
	candidateCounter *prometheus.CounterVec
	// Counter for requests answered by the rule-based fallback.
	fallbackCounter prometheus.Counter
}

// Create a new engine monitor and register the necessary Prometheus metrics.
func NewMonitor(registry *monitoring.Registry) Monitor {
	generationTimer := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "brujula_explainer_generation_duration_seconds",
		Help:    "Duration of a full counterfactual generation call",
		Buckets: prometheus.DefBuckets,
	})
	candidateCounter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "brujula_explainer_candidates_total",
		Help: "Number of candidate scenarios processed, by outcome",
	}, []string{"outcome"})
	fallbackCounter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "brujula_explainer_fallback_total",
		Help: "Number of requests answered by the rule-based fallback",
	})
	registry.MustRegister(
		generationTimer,
		candidateCounter,
		fallbackCounter,
	)
	return Monitor{
		generationTimer:  generationTimer,
		candidateCounter: candidateCounter,
		fallbackCounter:  fallbackCounter,
	}
}

func (m Monitor) observeGeneration(seconds float64) {
	if m.generationTimer != nil {
		m.generationTimer.Observe(seconds)
	}
}

func (m Monitor) countCandidate(outcome string) {
	if m.candidateCounter != nil {
		m.candidateCounter.WithLabelValues(outcome).Inc()
	}
}

func (m Monitor) countFallback() {
	if m.fallbackCounter != nil {
		m.fallbackCounter.Inc()
	}
}
