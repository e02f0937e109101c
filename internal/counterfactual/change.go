// Copyright 2025 Brujula Authors
// SPDX-License-Identifier: Apache-2.0

package counterfactual

import (
	"github.com/brujula-dev/brujula/internal/features"
)

// How hard a proposed change is to implement in practice.
type Difficulty string

const (
	DifficultyLow      Difficulty = "LOW"
	DifficultyMedium   Difficulty = "MEDIUM"
	DifficultyHigh     Difficulty = "HIGH"
	DifficultyVeryHigh Difficulty = "VERY_HIGH"
)

// Base probability that a change of this difficulty is carried out
// successfully, before adjusting for impact magnitude.
func (d Difficulty) BaseProbability() float64 {
	switch d {
	case DifficultyLow:
		return 0.9
	case DifficultyMedium:
		return 0.7
	case DifficultyHigh:
		return 0.4
	case DifficultyVeryHigh:
		return 0.2
	}
	return 0.5
}

// Contribution of this difficulty to the viability score. Easier
// changes make a scenario more viable.
func (d Difficulty) ViabilityFactor() float64 {
	switch d {
	case DifficultyLow:
		return 0.9
	case DifficultyMedium:
		return 0.7
	case DifficultyHigh:
		return 0.4
	case DifficultyVeryHigh:
		return 0.2
	}
	return 0.5
}

// Coarse time horizon within which a change is expected to complete.
type TimeBucket string

const (
	TimeShort    TimeBucket = "SHORT"
	TimeMedium   TimeBucket = "MEDIUM"
	TimeLong     TimeBucket = "LONG"
	TimeVeryLong TimeBucket = "VERY_LONG"
)

// Nominal duration of the bucket in months.
func (t TimeBucket) Months() int {
	switch t {
	case TimeShort:
		return 3
	case TimeMedium:
		return 6
	case TimeLong:
		return 12
	case TimeVeryLong:
		return 24
	}
	return 6
}

// Time horizon implied by a change's difficulty.
func (d Difficulty) TimeBucket() TimeBucket {
	switch d {
	case DifficultyLow:
		return TimeShort
	case DifficultyMedium:
		return TimeMedium
	case DifficultyHigh:
		return TimeLong
	case DifficultyVeryHigh:
		return TimeVeryLong
	}
	return TimeMedium
}

// A single proposed modification to one feature. Created by the
// evaluator and not mutated afterwards, except for the Feasible flag
// which is set once during validation.
type Change struct {
	Feature    string
	Original   features.Value
	Proposed   features.Value
	Impact     float64
	Difficulty Difficulty
	Action     string
	TimeBucket TimeBucket
	CostMonths float64
	Feasible   bool
}
