// Copyright 2025 Brujula Authors
// SPDX-License-Identifier: Apache-2.0

package optimize

import (
	"context"
	"errors"
	"math"
	"testing"
)

func sphere(x []float64) float64 {
	sum := 0.0
	for _, v := range x {
		sum += v * v
	}
	return sum
}

func TestDifferentialEvolutionFindsSphereMinimum(t *testing.T) {
	de := DifferentialEvolution{PopulationSize: 20, MaxIterations: 200, Tolerance: 1e-6}
	lower := []float64{-5, -5, -5}
	upper := []float64{5, 5, 5}

	result, err := de.Minimize(context.Background(), sphere, lower, upper, 42)
	if err != nil {
		t.Fatalf("expected convergence, got %v", err)
	}
	if !result.Converged {
		t.Error("expected converged result")
	}
	for d, v := range result.X {
		if math.Abs(v) > 0.1 {
			t.Errorf("dimension %d not at minimum: %f", d, v)
		}
	}
	if result.Value > 0.01 {
		t.Errorf("expected near-zero objective, got %f", result.Value)
	}
}

func TestDifferentialEvolutionRespectsBounds(t *testing.T) {
	de := DifferentialEvolution{PopulationSize: 10, MaxIterations: 50}
	lower := []float64{1, -3}
	upper := []float64{2, -1}

	// The unconstrained minimum lies outside the box, so the search
	// presses against the bounds the whole time.
	result, err := de.Minimize(context.Background(), sphere, lower, upper, 7)
	if err != nil && !errors.Is(err, ErrNotConverged) {
		t.Fatalf("unexpected error: %v", err)
	}
	for d := range result.X {
		if result.X[d] < lower[d] || result.X[d] > upper[d] {
			t.Errorf("dimension %d out of bounds: %f", d, result.X[d])
		}
	}
}

func TestDifferentialEvolutionDeterministicPerSeed(t *testing.T) {
	de := DifferentialEvolution{PopulationSize: 15, MaxIterations: 30}
	lower := []float64{-2, -2}
	upper := []float64{2, 2}

	a, errA := de.Minimize(context.Background(), sphere, lower, upper, 123)
	b, errB := de.Minimize(context.Background(), sphere, lower, upper, 123)
	if (errA == nil) != (errB == nil) {
		t.Fatalf("errors differ: %v vs %v", errA, errB)
	}
	if a.Value != b.Value || a.Iterations != b.Iterations {
		t.Errorf("runs with equal seeds diverged: %+v vs %+v", a, b)
	}
	for d := range a.X {
		if a.X[d] != b.X[d] {
			t.Errorf("dimension %d diverged: %f vs %f", d, a.X[d], b.X[d])
		}
	}
}

func TestDifferentialEvolutionInvalidBounds(t *testing.T) {
	de := DifferentialEvolution{}
	if _, err := de.Minimize(context.Background(), sphere, nil, nil, 1); !errors.Is(err, ErrInvalidBounds) {
		t.Errorf("expected ErrInvalidBounds for empty bounds, got %v", err)
	}
	if _, err := de.Minimize(context.Background(), sphere, []float64{1}, []float64{0}, 1); !errors.Is(err, ErrInvalidBounds) {
		t.Errorf("expected ErrInvalidBounds for inverted bounds, got %v", err)
	}
}

func TestDifferentialEvolutionHonorsContext(t *testing.T) {
	de := DifferentialEvolution{PopulationSize: 10, MaxIterations: 1000}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := de.Minimize(ctx, sphere, []float64{-1}, []float64{1}, 5)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
