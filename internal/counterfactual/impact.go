// Copyright 2025 Brujula Authors
// SPDX-License-Identifier: Apache-2.0

package counterfactual

import (
	"math"

	"github.com/brujula-dev/brujula/internal/conf"
)

// Domain knowledge about how much each feature moves the risk score and
// how hard it is to change. Injected into the engine at construction so
// tests can substitute their own tables.
type ImpactConfig struct {
	// Base impact per feature, in [0, 1]. Scaled by the relative
	// magnitude of the proposed change.
	BaseImpacts map[string]float64
	// Fallback for features not listed in BaseImpacts.
	DefaultImpact float64
	// Difficulty tier per feature.
	Difficulties map[string]Difficulty
	// Fallback for features not listed in Difficulties.
	DefaultDifficulty Difficulty
	// Base cost in months per difficulty tier.
	CostMonths map[Difficulty]float64
	// Fallback for unknown tiers.
	DefaultCostMonths float64
}

func DefaultImpactConfig() ImpactConfig {
	return ImpactConfig{
		BaseImpacts: map[string]float64{
			"meses_operacion":             0.3,
			"empleados_directos":          0.4,
			"ingresos_mensuales_promedio": 0.8,
			"capital_trabajo":             0.6,
			"experiencia_total":           0.5,
			"nivel_educacion":             0.7,
			"sector_negocio":              0.9,
			"territorio":                  0.6,
		},
		DefaultImpact: 0.3,
		Difficulties: map[string]Difficulty{
			"meses_operacion":             DifficultyLow,
			"empleados_directos":          DifficultyMedium,
			"empleados_indirectos":        DifficultyMedium,
			"ingresos_mensuales_promedio": DifficultyHigh,
			"capital_trabajo":             DifficultyHigh,
			"activos_totales":             DifficultyHigh,
			"deuda_existente":             DifficultyHigh,
			"experiencia_total":           DifficultyHigh,
			"nivel_educacion":             DifficultyVeryHigh,
			"sector_negocio":              DifficultyVeryHigh,
			"territorio":                  DifficultyVeryHigh,
		},
		DefaultDifficulty: DifficultyMedium,
		CostMonths: map[Difficulty]float64{
			DifficultyLow:      1,
			DifficultyMedium:   3,
			DifficultyHigh:     6,
			DifficultyVeryHigh: 12,
		},
		DefaultCostMonths: 3,
	}
}

// Impact table overrides as given in the yaml config.
type ImpactOpts struct {
	BaseImpacts  map[string]float64    `yaml:"baseImpacts,omitempty"`
	Difficulties map[string]Difficulty `yaml:"difficulties,omitempty"`
}

// Build the impact config from the defaults plus any overrides given
// in the explainer config.
func ImpactConfigFromOpts(opts conf.RawOpts) ImpactConfig {
	config := DefaultImpactConfig()
	if !opts.Present() {
		return config
	}
	var o ImpactOpts
	if err := opts.Unmarshal(&o); err != nil {
		panic(err)
	}
	for feature, impact := range o.BaseImpacts {
		config.BaseImpacts[feature] = impact
	}
	for feature, difficulty := range o.Difficulties {
		config.Difficulties[feature] = difficulty
	}
	return config
}

// Estimated impact of changing a feature from original to proposed.
// The base impact is scaled by the relative magnitude of the change,
// capped at the base impact itself. A zero original has no relative
// magnitude, so the proposed value against a reference of 10 stands
// in for it, same as in CostFor.
func (c ImpactConfig) Impact(feature string, original, proposed float64) float64 {
	base := c.DefaultImpact
	if v, ok := c.BaseImpacts[feature]; ok {
		base = v
	}
	if original == 0 {
		return base * math.Min(1.0, math.Abs(proposed)/10)
	}
	magnitude := math.Min(1.0, math.Abs(proposed-original)/math.Abs(original))
	return base * magnitude
}

func (c ImpactConfig) DifficultyFor(feature string) Difficulty {
	if d, ok := c.Difficulties[feature]; ok {
		return d
	}
	return c.DefaultDifficulty
}

// Estimated cost of a change in months. The per-tier base cost is
// scaled by the relative magnitude of the change, up to a factor of 3.
func (c ImpactConfig) CostFor(feature string, original, proposed float64) float64 {
	tier := c.DifficultyFor(feature)
	base := c.DefaultCostMonths
	if v, ok := c.CostMonths[tier]; ok {
		base = v
	}
	var factor float64
	if original == 0 {
		factor = math.Min(3.0, math.Abs(proposed)/10)
	} else {
		factor = math.Min(3.0, math.Abs(proposed-original)/math.Abs(original))
	}
	return base * factor
}
