// Copyright 2025 Brujula Authors
// SPDX-License-Identifier: Apache-2.0

package explainer

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/brujula-dev/brujula/internal/monitoring"
)

// Collection of Prometheus metrics to monitor the explainer API.
type APIMonitor struct {
	// A histogram to measure how long each request takes, by url and status.
	requestTimer *prometheus.HistogramVec
}

// Create a new API monitor and register the necessary Prometheus metrics.
func NewAPIMonitor(registry *monitoring.Registry) APIMonitor {
	requestTimer := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "brujula_explainer_api_request_duration_seconds",
		Help:    "Duration of explainer API requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"url", "status"})
	registry.MustRegister(requestTimer)
	return APIMonitor{requestTimer: requestTimer}
}

func (m APIMonitor) observeRequest(url string, code int, seconds float64) {
	if m.requestTimer == nil {
		return
	}
	m.requestTimer.WithLabelValues(url, strconv.Itoa(code)).Observe(seconds)
}
