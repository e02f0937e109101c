// Copyright 2025 Brujula Authors
// SPDX-License-Identifier: Apache-2.0

package counterfactual

import (
	"github.com/brujula-dev/brujula/internal/features"
	"github.com/brujula-dev/brujula/internal/oracle"
)

// Deterministic heuristic used when no candidate survives evaluation.
// For high-risk categories it proposes a fixed pair of improvements;
// for everything else it returns an empty change list. Never fails.
func fallbackResult(set features.Set, currentCategory, target string) *Result {
	var changes []Change
	if currentCategory == oracle.CategoryHigh || currentCategory == oracle.CategoryVeryHigh {
		if income, ok := set["ingresos_mensuales_promedio"]; ok && income.IsNumeric() {
			proposed := features.Number(income.Float() * 1.3)
			changes = append(changes, Change{
				Feature:    "ingresos_mensuales_promedio",
				Original:   income,
				Proposed:   proposed,
				Impact:     0.6,
				Difficulty: DifficultyHigh,
				Action:     actionFor("ingresos_mensuales_promedio", income, proposed),
				TimeBucket: TimeLong,
				CostMonths: 6,
				Feasible:   true,
			})
		}
		if months, ok := set["meses_operacion"]; ok && months.IsNumeric() {
			proposed := features.Integer(months.Int() + 12)
			changes = append(changes, Change{
				Feature:    "meses_operacion",
				Original:   months,
				Proposed:   proposed,
				Impact:     0.4,
				Difficulty: DifficultyLow,
				Action:     "Operar durante 12 meses adicionales",
				TimeBucket: TimeLong,
				CostMonths: 12,
				Feasible:   true,
			})
		}
	}

	resultChanges := make([]ResultChange, 0, len(changes))
	priorities := make([]string, 0, len(changes))
	actions := make([]string, 0, 1)
	for i, c := range changes {
		resultChanges = append(resultChanges, ResultChange{
			Feature:    c.Feature,
			Current:    c.Original,
			Proposed:   c.Proposed,
			Impact:     c.Impact,
			Difficulty: c.Difficulty,
			Action:     c.Action,
			TimeBucket: c.TimeBucket,
			CostMonths: c.CostMonths,
			Feasible:   c.Feasible,
		})
		priorities = append(priorities, c.Feature)
		if i < 1 {
			actions = append(actions, c.Action)
		}
	}

	return &Result{
		Current: CurrentScenario{Category: currentCategory},
		Target:  TargetScenario{Category: target},
		Changes: resultChanges,
		Metrics: ResultMetrics{
			Improvement:        10.0,
			SuccessProbability: 0.5,
			Viability:          0.6,
			Feasible:           true,
		},
		Recommendations: Recommendations{
			PriorityChanges:  priorities,
			ImmediateActions: actions,
			Timeline:         timeline(changes),
		},
		Metadata: Metadata{
			Algorithm: algorithmRuleBased,
			Note:      "Optimización fallida, usando reglas heurísticas",
		},
	}
}
