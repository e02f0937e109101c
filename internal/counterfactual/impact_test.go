// Copyright 2025 Brujula Authors
// SPDX-License-Identifier: Apache-2.0

package counterfactual

import (
	"math"
	"testing"

	"github.com/brujula-dev/brujula/internal/conf"
)

func TestImpactScalesWithMagnitude(t *testing.T) {
	c := DefaultImpactConfig()

	small := c.Impact("ingresos_mensuales_promedio", 1_000_000, 1_100_000)
	large := c.Impact("ingresos_mensuales_promedio", 1_000_000, 2_000_000)
	if small >= large {
		t.Errorf("larger changes must have larger impact: %f >= %f", small, large)
	}
	if math.Abs(large-0.8) > 1e-9 {
		t.Errorf("a doubling caps the magnitude at 1, expected 0.8, got %f", large)
	}

	// Unknown features get the default base impact.
	if got := c.Impact("gasto_publicidad", 100, 300); got != 0.3 {
		t.Errorf("expected default impact 0.3, got %f", got)
	}
}

func TestImpactFromZeroOriginal(t *testing.T) {
	c := DefaultImpactConfig()

	// With no original to scale against, the proposed value is measured
	// against a reference of 10, same as the cost rule.
	if got := c.Impact("empleados_directos", 0, 5); math.Abs(got-0.2) > 1e-9 {
		t.Errorf("expected 0.4 * 0.5 = 0.2, got %f", got)
	}
	// Large proposed values cap the factor at 1.
	if got := c.Impact("capital_trabajo", 0, 500_000); got != 0.6 {
		t.Errorf("expected the full base impact, got %f", got)
	}
}

func TestCostScalesWithDifficultyAndMagnitude(t *testing.T) {
	c := DefaultImpactConfig()

	easy := c.CostFor("meses_operacion", 12, 18)
	hard := c.CostFor("capital_trabajo", 400_000, 600_000)
	if easy >= hard {
		t.Errorf("harder tiers must cost more: %f >= %f", easy, hard)
	}
	// The magnitude factor is capped at 3.
	capped := c.CostFor("capital_trabajo", 100, 10_000)
	if capped != 18 {
		t.Errorf("expected cost capped at 3x the base, got %f", capped)
	}
}

func TestImpactConfigFromOpts(t *testing.T) {
	opts := conf.NewRawOpts(`
baseImpacts:
  ingresos_mensuales_promedio: 0.5
difficulties:
  meses_operacion: MEDIUM
`)
	c := ImpactConfigFromOpts(opts)
	if c.BaseImpacts["ingresos_mensuales_promedio"] != 0.5 {
		t.Errorf("expected overridden base impact, got %f", c.BaseImpacts["ingresos_mensuales_promedio"])
	}
	if c.DifficultyFor("meses_operacion") != DifficultyMedium {
		t.Errorf("expected overridden difficulty, got %q", c.DifficultyFor("meses_operacion"))
	}
	// Everything else keeps its default.
	if c.DifficultyFor("capital_trabajo") != DifficultyHigh {
		t.Errorf("defaults must survive a partial override, got %q", c.DifficultyFor("capital_trabajo"))
	}
}

func TestImpactConfigFromEmptyOpts(t *testing.T) {
	c := ImpactConfigFromOpts(conf.RawOpts{})
	if c.BaseImpacts["ingresos_mensuales_promedio"] != 0.8 {
		t.Error("empty opts must yield the defaults")
	}
}
