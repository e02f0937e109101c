// Copyright 2025 Brujula Authors
// SPDX-License-Identifier: Apache-2.0

package oracle

import (
	"context"
	"sync"

	"github.com/brujula-dev/brujula/internal/features"
)

// Risk categories as produced by the scoring model, from best to worst.
const (
	CategoryVeryLow  = "MUY_BAJO"
	CategoryLow      = "BAJO"
	CategoryMedium   = "MEDIO"
	CategoryHigh     = "ALTO"
	CategoryVeryHigh = "MUY_ALTO"
)

// Fixed improvement ladder: the category one step better than the given
// one. The best category maps to itself, unknown categories target BAJO.
func NextBetterCategory(category string) string {
	switch category {
	case CategoryVeryHigh:
		return CategoryHigh
	case CategoryHigh:
		return CategoryMedium
	case CategoryMedium:
		return CategoryLow
	case CategoryLow, CategoryVeryLow:
		return CategoryVeryLow
	default:
		return CategoryLow
	}
}

// A single prediction of the risk scoring model.
type Prediction struct {
	// The predicted risk category.
	Category string `json:"categoria_riesgo"`
	// The predicted risk score on a 0-100 scale (higher is riskier).
	Score float64 `json:"puntaje_riesgo"`
	// Probability per risk category, each in [0, 1].
	Probabilities map[string]float64 `json:"probabilidades"`
}

// Opaque scoring model queried by the counterfactual engine. Predictions
// must be deterministic for identical input so the search is reproducible.
type Oracle interface {
	Predict(ctx context.Context, set features.Set) (Prediction, error)
}

// Oracle wrapper that serializes all prediction calls behind a mutex.
// The engine evaluates candidates in parallel, but oracles are not
// assumed to be safe for concurrent use.
type serializedOracle struct {
	mu    sync.Mutex
	inner Oracle
}

func Serialized(inner Oracle) Oracle {
	return &serializedOracle{inner: inner}
}

func (o *serializedOracle) Predict(ctx context.Context, set features.Set) (Prediction, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.inner.Predict(ctx, set)
}
