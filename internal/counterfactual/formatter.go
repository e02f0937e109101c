// Copyright 2025 Brujula Authors
// SPDX-License-Identifier: Apache-2.0

package counterfactual

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/brujula-dev/brujula/internal/features"
)

// The wire shape of a generated explanation. Field names follow the
// domain's Spanish vocabulary.
type Result struct {
	Current         CurrentScenario `json:"escenario_actual"`
	Target          TargetScenario  `json:"escenario_objetivo"`
	Changes         []ResultChange  `json:"cambios_necesarios"`
	Metrics         ResultMetrics   `json:"metricas_escenario"`
	Recommendations Recommendations `json:"recomendaciones"`
	Metadata        Metadata        `json:"metadatos"`
}

type CurrentScenario struct {
	Category string   `json:"categoria_riesgo"`
	Score    *float64 `json:"puntaje_riesgo,omitempty"`
}

type TargetScenario struct {
	Category string `json:"categoria_riesgo"`
	// The score and category the oracle assigns to the chosen
	// candidate, which may fall short of the target.
	AchievableScore    *float64 `json:"puntaje_objetivo,omitempty"`
	AchievableCategory string   `json:"categoria_alcanzable,omitempty"`
}

type ResultChange struct {
	Feature    string         `json:"caracteristica"`
	Current    features.Value `json:"valor_actual"`
	Proposed   features.Value `json:"valor_sugerido"`
	Impact     float64        `json:"impacto_estimado"`
	Difficulty Difficulty     `json:"dificultad"`
	Action     string         `json:"accion_concreta"`
	TimeBucket TimeBucket     `json:"tiempo_estimado"`
	CostMonths float64        `json:"costo_estimado_meses"`
	Feasible   bool           `json:"factible"`
}

type ResultMetrics struct {
	Improvement        float64 `json:"mejora_puntaje"`
	SuccessProbability float64 `json:"probabilidad_exito"`
	Viability          float64 `json:"viabilidad_implementacion"`
	Distance           float64 `json:"distancia_original"`
	Feasible           bool    `json:"factible"`
}

type Recommendations struct {
	PriorityChanges  []string        `json:"cambios_prioritarios"`
	ImmediateActions []string        `json:"acciones_inmediatas"`
	Timeline         []TimelinePhase `json:"linea_tiempo_estimada"`
}

// One phase of the remediation timeline. Phases are ordered short to
// very long with cumulative elapsed time carried across them.
type TimelinePhase struct {
	Period          TimeBucket       `json:"periodo"`
	MonthsFromStart int              `json:"meses_desde_inicio"`
	DurationMonths  int              `json:"duracion_meses"`
	Changes         []TimelineChange `json:"cambios"`
}

type TimelineChange struct {
	Feature    string     `json:"caracteristica"`
	Action     string     `json:"accion"`
	Difficulty Difficulty `json:"dificultad"`
}

type Metadata struct {
	Algorithm string `json:"algoritmo"`
	Method    string `json:"metodo_optimizacion,omitempty"`
	Note      string `json:"nota,omitempty"`
}

const (
	algorithmCounterfactual = "DiCE"
	algorithmRuleBased      = "RULE_BASED"
	methodOptimization      = "differential_evolution"
)

// Renders the winning scenario into the wire shape.
func formatResult(s Scenario) *Result {
	changes := make([]ResultChange, 0, len(s.Changes))
	priorities := make([]string, 0, 2)
	actions := make([]string, 0, 1)
	for i, c := range s.Changes {
		changes = append(changes, ResultChange{
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
		if i < 2 {
			priorities = append(priorities, c.Feature)
		}
		if i < 1 {
			actions = append(actions, c.Action)
		}
	}

	originalScore := s.OriginalScore
	achievedScore := s.AchievedScore
	return &Result{
		Current: CurrentScenario{Category: s.OriginalCategory, Score: &originalScore},
		Target: TargetScenario{
			Category:           s.TargetCategory,
			AchievableScore:    &achievedScore,
			AchievableCategory: s.AchievedCategory,
		},
		Changes: changes,
		Metrics: ResultMetrics{
			Improvement:        s.Improvement,
			SuccessProbability: s.SuccessProbability,
			Viability:          s.Viability,
			Distance:           s.Distance,
			Feasible:           s.Feasible,
		},
		Recommendations: Recommendations{
			PriorityChanges:  priorities,
			ImmediateActions: actions,
			Timeline:         timeline(s.Changes),
		},
		Metadata: Metadata{Algorithm: algorithmCounterfactual, Method: methodOptimization},
	}
}

// Buckets changes by time horizon and lays them out sequentially.
func timeline(changes []Change) []TimelinePhase {
	byBucket := make(map[TimeBucket][]Change)
	for _, c := range changes {
		byBucket[c.TimeBucket] = append(byBucket[c.TimeBucket], c)
	}

	phases := make([]TimelinePhase, 0, len(byBucket))
	elapsed := 0
	for _, bucket := range []TimeBucket{TimeShort, TimeMedium, TimeLong, TimeVeryLong} {
		bucketChanges, ok := byBucket[bucket]
		if !ok {
			continue
		}
		phase := TimelinePhase{
			Period:          bucket,
			MonthsFromStart: elapsed,
			DurationMonths:  bucket.Months(),
		}
		for _, c := range bucketChanges {
			phase.Changes = append(phase.Changes, TimelineChange{
				Feature:    c.Feature,
				Action:     c.Action,
				Difficulty: c.Difficulty,
			})
		}
		phases = append(phases, phase)
		elapsed += bucket.Months()
	}
	return phases
}

// Concrete, user-facing action text for a change.
func actionFor(feature string, original, proposed features.Value) string {
	switch feature {
	case "meses_operacion":
		return fmt.Sprintf("Operar durante %d meses adicionales", proposed.Int()-original.Int())
	case "empleados_directos":
		extra := proposed.Int() - original.Int()
		if extra < 0 {
			extra = 0
		}
		return fmt.Sprintf("Contratar %d empleados adicionales", extra)
	case "ingresos_mensuales_promedio":
		return fmt.Sprintf("Incrementar ingresos mensuales a $%s COP", formatAmount(proposed.Float()))
	case "capital_trabajo":
		return fmt.Sprintf("Aumentar capital de trabajo a $%s COP", formatAmount(proposed.Float()))
	case "experiencia_total":
		return fmt.Sprintf("Acumular %d meses de experiencia en el sector", proposed.Int())
	}
	return fmt.Sprintf("Modificar %s de %s a %s",
		strings.ReplaceAll(feature, "_", " "), original.String(), proposed.String())
}

// Renders a monetary amount with thousands separators and no decimals.
func formatAmount(v float64) string {
	digits := strconv.FormatFloat(math.Round(v), 'f', 0, 64)
	negative := strings.HasPrefix(digits, "-")
	if negative {
		digits = digits[1:]
	}
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	if negative {
		return "-" + b.String()
	}
	return b.String()
}
