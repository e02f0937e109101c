// Copyright 2025 Brujula Authors
// SPDX-License-Identifier: Apache-2.0

package feasibility

import (
	"math"

	"github.com/brujula-dev/brujula/internal/conf"
	"github.com/brujula-dev/brujula/internal/features"
)

// Bounds for embedding dimensions, regardless of any rules.
const (
	EmbeddingLowerBound = -2.0
	EmbeddingUpperBound = 2.0
)

// Additive penalties fed into the search objective when a proposed
// value violates a rule. Penalties are summed across features and not
// capped, so the optimizer can still explore near-infeasible regions
// while being pushed away from them.
const (
	penaltySolelyIncreasing  = 10.0
	penaltyMinValue          = 5.0
	penaltyMaxRelativeChange = 3.0
)

// Domain constraint on how much, or in which direction, a single
// feature may realistically change.
type Rule struct {
	// The feature may only increase, never decrease.
	SolelyIncreasing bool
	// Lower bound on the proposed value.
	MinValue *float64
	// Upper bound on the relative change, e.g. 2.0 for "at most doubled".
	MaxRelativeChange *float64
}

// Feasibility rules by feature name. Features without a rule get the
// default bounds of half to one-and-a-half times the current value.
type Ruleset map[string]Rule

func ptr(v float64) *float64 { return &v }

// The built-in rules for the entrepreneur feature set. Operating months
// and accumulated experience cannot be undone, the remaining financial
// features are bounded in how fast they can realistically grow.
func DefaultRuleset() Ruleset {
	return Ruleset{
		"meses_operacion":             {SolelyIncreasing: true, MinValue: ptr(0)},
		"experiencia_total":           {SolelyIncreasing: true, MinValue: ptr(0)},
		"empleados_directos":          {MinValue: ptr(0), MaxRelativeChange: ptr(5.0)},
		"ingresos_mensuales_promedio": {MinValue: ptr(0), MaxRelativeChange: ptr(2.0)},
		"capital_trabajo":             {MinValue: ptr(0), MaxRelativeChange: ptr(3.0)},
		"activos_totales":             {MinValue: ptr(0), MaxRelativeChange: ptr(2.0)},
		"deuda_existente":             {MinValue: ptr(0), MaxRelativeChange: ptr(1.5)},
	}
}

// Build a ruleset from the explainer config, overriding the defaults
// for every feature that has a rule configured.
func RulesetFromConfig(config conf.ExplainerConfig) Ruleset {
	rules := DefaultRuleset()
	for feature, rule := range config.Rules {
		rules[feature] = Rule{
			SolelyIncreasing:  rule.SolelyIncreasing,
			MinValue:          rule.MinValue,
			MaxRelativeChange: rule.MaxRelativeChange,
		}
	}
	return rules
}

// Get the search bounds for a feature at its current value.
func (r Ruleset) Bounds(feature string, current float64) (lower, upper float64) {
	rule := r[feature]
	switch {
	case rule.SolelyIncreasing:
		lower = current // No decrease allowed.
	case rule.MinValue != nil:
		lower = math.Max(*rule.MinValue, current*0.5)
	default:
		lower = math.Max(0, current*0.5)
	}
	if rule.MaxRelativeChange != nil {
		upper = current * *rule.MaxRelativeChange
	} else {
		upper = current * 1.5
	}
	return lower, upper
}

// Check whether a proposed value satisfies the hard rules for a feature.
func (r Ruleset) Allows(feature string, original, proposed float64) bool {
	rule, ok := r[feature]
	if !ok {
		return true
	}
	if rule.SolelyIncreasing && proposed < original {
		return false
	}
	if rule.MinValue != nil && proposed < *rule.MinValue {
		return false
	}
	if rule.MaxRelativeChange != nil && original > 0 {
		if math.Abs(proposed-original)/original > *rule.MaxRelativeChange {
			return false
		}
	}
	return true
}

// Compute the additive penalty for a proposed feature set against the
// original one. Only numeric features that appear in both sets are
// considered.
func (r Ruleset) Penalty(original, proposed features.Set) float64 {
	penalty := 0.0
	for name, originalValue := range original {
		if !originalValue.IsNumeric() {
			continue
		}
		proposedValue, ok := proposed[name]
		if !ok || !proposedValue.IsNumeric() {
			continue
		}
		rule, ok := r[name]
		if !ok {
			continue
		}
		ov, pv := originalValue.Float(), proposedValue.Float()
		if rule.SolelyIncreasing && pv < ov {
			penalty += penaltySolelyIncreasing
		}
		if rule.MinValue != nil && pv < *rule.MinValue {
			penalty += penaltyMinValue
		}
		if rule.MaxRelativeChange != nil && ov > 0 {
			if math.Abs(pv-ov)/ov > *rule.MaxRelativeChange {
				penalty += penaltyMaxRelativeChange
			}
		}
	}
	return penalty
}
