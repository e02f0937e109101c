// Copyright 2025 Brujula Authors
// SPDX-License-Identifier: Apache-2.0

package counterfactual

// A fully evaluated counterfactual candidate. Scenarios live for the
// duration of one Generate call; the selector compares many and keeps
// only the winner.
type Scenario struct {
	// At most the configured number of changes, impact-descending.
	Changes []Change

	OriginalCategory string
	TargetCategory   string
	// The category the oracle actually assigns to the candidate, which
	// may fall short of the target.
	AchievedCategory string

	OriginalScore float64
	AchievedScore float64
	// Original minus achieved score; positive means lower risk.
	Improvement float64

	// In [0, 0.95]. Zero when any change is infeasible.
	SuccessProbability float64
	// In [0, 1].
	Viability float64
	// Euclidean distance between the candidate vector and the original.
	Distance float64
	// True iff every kept change satisfies its feasibility rule.
	Feasible bool
}
