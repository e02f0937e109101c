// Copyright 2025 Brujula Authors
// SPDX-License-Identifier: Apache-2.0

package counterfactual

import (
	"context"
	"math"
	"sort"

	"github.com/brujula-dev/brujula/internal/feasibility"
	"github.com/brujula-dev/brujula/internal/features"
	"github.com/brujula-dev/brujula/internal/oracle"
)

// Relative change below which a feature is considered unchanged.
const changeThreshold = 0.1

// Scores one candidate feature set against the oracle and the
// feasibility rules, turning it into a Scenario.
type Evaluator struct {
	Oracle     oracle.Oracle
	Rules      feasibility.Ruleset
	Impact     ImpactConfig
	MaxChanges int
}

func (e Evaluator) Evaluate(ctx context.Context, original, candidate features.Set, distance float64, originalCategory string, originalScore float64, target string) (Scenario, error) {
	prediction, err := e.Oracle.Predict(ctx, candidate)
	if err != nil {
		return Scenario{}, err
	}

	changes := e.changes(original, candidate)
	feasible := true
	for _, c := range changes {
		if !c.Feasible {
			feasible = false
			break
		}
	}

	return Scenario{
		Changes:            changes,
		OriginalCategory:   originalCategory,
		TargetCategory:     target,
		AchievedCategory:   prediction.Category,
		OriginalScore:      originalScore,
		AchievedScore:      prediction.Score,
		Improvement:        originalScore - prediction.Score,
		SuccessProbability: successProbability(changes),
		Viability:          viability(changes),
		Distance:           distance,
		Feasible:           feasible,
	}, nil
}

// Derives the change list: every numeric feature whose candidate value
// differs from the original by more than the threshold, impact
// descending, at most MaxChanges kept.
func (e Evaluator) changes(original, candidate features.Set) []Change {
	names := make([]string, 0, len(original))
	for name := range original {
		names = append(names, name)
	}
	sort.Strings(names)

	var changes []Change
	for _, name := range names {
		origValue := original[name]
		if !origValue.IsNumeric() {
			continue
		}
		propValue, ok := candidate[name]
		if !ok || !propValue.IsNumeric() {
			continue
		}
		origF, propF := origValue.Float(), propValue.Float()
		if !significantChange(origF, propF) {
			continue
		}
		difficulty := e.Impact.DifficultyFor(name)
		changes = append(changes, Change{
			Feature:    name,
			Original:   origValue,
			Proposed:   propValue,
			Impact:     e.Impact.Impact(name, origF, propF),
			Difficulty: difficulty,
			Action:     actionFor(name, origValue, propValue),
			TimeBucket: difficulty.TimeBucket(),
			CostMonths: e.Impact.CostFor(name, origF, propF),
			Feasible:   e.Rules.Allows(name, origF, propF),
		})
	}

	sort.SliceStable(changes, func(i, j int) bool {
		return changes[i].Impact > changes[j].Impact
	})
	maxChanges := e.MaxChanges
	if maxChanges <= 0 {
		maxChanges = 3
	}
	if len(changes) > maxChanges {
		changes = changes[:maxChanges]
	}
	return changes
}

func significantChange(original, proposed float64) bool {
	if original == 0 {
		return math.Abs(proposed) > changeThreshold
	}
	return math.Abs(proposed-original)/math.Abs(original) > changeThreshold
}

// Joint probability that all changes succeed, each tier's base
// probability damped by the change's impact, capped at 0.95. Any
// infeasible change zeroes the whole scenario.
func successProbability(changes []Change) float64 {
	if len(changes) == 0 {
		return 0
	}
	joint := 1.0
	for _, c := range changes {
		if !c.Feasible {
			return 0
		}
		joint *= c.Difficulty.BaseProbability() * (1 - c.Impact*0.3)
	}
	return math.Min(0.95, joint)
}

// Mean of per-change difficulty and cost factors, penalized when the
// scenario needs more than three changes.
func viability(changes []Change) float64 {
	if len(changes) == 0 {
		return 0
	}
	sum := 0.0
	for _, c := range changes {
		costFactor := math.Max(0.1, 1.0-c.CostMonths/12)
		sum += (c.Difficulty.ViabilityFactor() + costFactor) / 2
	}
	mean := sum / float64(len(changes))
	return mean * math.Min(1.0, 3.0/float64(len(changes)))
}
