// Copyright 2025 Brujula Authors
// SPDX-License-Identifier: Apache-2.0

package optimize

import (
	"context"
	"errors"
)

var (
	// Returned when the optimizer exhausts its iteration budget without
	// meeting the convergence tolerance. The result still carries the
	// best point found so far.
	ErrNotConverged = errors.New("optimizer did not converge")
	// Returned when the given bounds are empty or inconsistent.
	ErrInvalidBounds = errors.New("invalid optimization bounds")
)

// Function to minimize. Implementations must be safe to call many times
// with arbitrary points inside the bounds.
type Objective func(x []float64) float64

// Result of one optimization run.
type Result struct {
	// The best point found.
	X []float64
	// The objective value at the best point.
	Value float64
	// Number of iterations performed.
	Iterations int
	// Whether the convergence tolerance was met.
	Converged bool
}

// Derivative-free, bound-respecting global optimizer. Implementations
// must be deterministic for identical (objective, bounds, seed) inputs
// so that search results are reproducible. Test doubles can replace the
// real optimizer through this interface.
type GlobalOptimizer interface {
	Minimize(ctx context.Context, objective Objective, lower, upper []float64, seed int64) (Result, error)
}
