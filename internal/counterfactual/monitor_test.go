// Copyright 2025 Brujula Authors
// SPDX-License-Identifier: Apache-2.0

package counterfactual

import (
	"context"
	"testing"

	"github.com/brujula-dev/brujula/internal/conf"
	"github.com/brujula-dev/brujula/internal/monitoring"
	"github.com/brujula-dev/brujula/internal/oracle"
	testlibMonitoring "github.com/brujula-dev/brujula/testlib/monitoring"
)

func TestNewMonitorRegistersMetrics(t *testing.T) {
	registry := monitoring.NewRegistry(conf.MonitoringConfig{})
	monitor := NewMonitor(registry)
	if monitor.generationTimer == nil || monitor.candidateCounter == nil || monitor.fallbackCounter == nil {
		t.Fatal("expected all metrics to be initialized")
	}
	// Registering the same metrics twice must panic.
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	NewMonitor(registry)
}

func TestMonitorObservesGeneration(t *testing.T) {
	observer := &testlibMonitoring.MockObserver{}
	monitor := Monitor{generationTimer: observer}
	engine := New(testConfig(), erroringOracle{}, failingOptimizer{}, monitor)

	engine.Generate(context.Background(), Request{
		Features:        entrepreneurFeatures(),
		CurrentCategory: oracle.CategoryHigh,
		CurrentScore:    70,
	})
	if len(observer.Observations) != 1 {
		t.Errorf("expected one timing observation, got %d", len(observer.Observations))
	}
}
