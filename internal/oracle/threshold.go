// Copyright 2025 Brujula Authors
// SPDX-License-Identifier: Apache-2.0

package oracle

import (
	"context"
	"math"

	"github.com/brujula-dev/brujula/internal/features"
)

// Deterministic threshold-based oracle. This is not the trained scoring
// model, it mirrors its simplified scoring function and is used when no
// model service is configured, and by tests that need a reproducible
// oracle without network access.
type ThresholdOracle struct{}

func (ThresholdOracle) Predict(_ context.Context, set features.Set) (Prediction, error) {
	score := 50.0
	if months, ok := set["meses_operacion"]; ok && months.IsNumeric() {
		score -= math.Min(20, months.Float()/3)
	}
	if income, ok := set["ingresos_mensuales_promedio"]; ok && income.IsNumeric() {
		switch {
		case income.Float() > 5_000_000:
			score -= 15
		case income.Float() > 2_000_000:
			score -= 5
		}
	}

	var category string
	switch {
	case score < 20:
		category = CategoryVeryLow
	case score < 40:
		category = CategoryLow
	case score < 60:
		category = CategoryMedium
	case score < 80:
		category = CategoryHigh
	default:
		category = CategoryVeryHigh
	}

	return Prediction{
		Category: category,
		Score:    score,
		Probabilities: map[string]float64{
			CategoryVeryLow:  math.Max(0, 1-score/100),
			CategoryLow:      0.2,
			CategoryMedium:   0.3,
			CategoryHigh:     0.3,
			CategoryVeryHigh: math.Max(0, score/100-0.6),
		},
	}, nil
}
