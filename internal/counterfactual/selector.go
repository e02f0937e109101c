// Copyright 2025 Brujula Authors
// SPDX-License-Identifier: Apache-2.0

package counterfactual

import "math"

// Scores used by the multi-criteria ranking. The improvement term is
// normalized to the system's 0-100 risk scale.
const (
	selectorImprovementWeight = 0.4
	selectorProbabilityWeight = 0.3
	selectorViabilityWeight   = 0.2
	selectorProximityWeight   = 0.1
)

func selectorScore(s Scenario) float64 {
	return selectorImprovementWeight*math.Abs(s.Improvement)/100 +
		selectorProbabilityWeight*s.SuccessProbability +
		selectorViabilityWeight*s.Viability +
		selectorProximityWeight*(1-math.Min(1.0, s.Distance/10))
}

// Picks the highest-scoring scenario. Ties go to the scenario closest
// to the original. The second return is false when there is nothing to
// choose from.
func SelectBest(scenarios []Scenario) (Scenario, bool) {
	if len(scenarios) == 0 {
		return Scenario{}, false
	}
	best := scenarios[0]
	bestScore := selectorScore(best)
	for _, s := range scenarios[1:] {
		score := selectorScore(s)
		if score > bestScore || (score == bestScore && s.Distance < best.Distance) {
			best = s
			bestScore = score
		}
	}
	return best, true
}
