// Copyright 2025 Brujula Authors
// SPDX-License-Identifier: Apache-2.0

package counterfactual

import (
	"context"
	"log/slog"
	"time"

	"github.com/brujula-dev/brujula/internal/conf"
	"github.com/brujula-dev/brujula/internal/feasibility"
	"github.com/brujula-dev/brujula/internal/features"
	"github.com/brujula-dev/brujula/internal/optimize"
	"github.com/brujula-dev/brujula/internal/oracle"
)

// A single explanation request. Features and embeddings are read-only
// for the duration of the call.
type Request struct {
	Features   features.Set
	Embeddings map[string][]float64

	CurrentCategory string
	CurrentScore    float64
	// When empty, the next better category on the improvement ladder
	// is used.
	TargetCategory string

	// Overrides for the configured defaults; zero means "use config".
	NumCandidates int
	MaxChanges    int
	// When set, infeasible scenarios are discarded instead of being
	// used as a ranking signal of last resort.
	FeasibleOnly bool
}

// Generates counterfactual explanations. Each Generate call is
// self-contained and side-effect-free apart from logging and metrics,
// so one engine can serve concurrent requests.
type Engine struct {
	config    conf.ExplainerConfig
	oracle    oracle.Oracle
	rules     feasibility.Ruleset
	impact    ImpactConfig
	optimizer optimize.GlobalOptimizer
	monitor   Monitor
}

// Create an engine from the explainer config. The given oracle is
// serialized, so it does not need to be safe for concurrent use. A nil
// optimizer selects differential evolution tuned from the config.
func New(config conf.ExplainerConfig, o oracle.Oracle, optimizer optimize.GlobalOptimizer, monitor Monitor) *Engine {
	if optimizer == nil {
		optimizer = optimize.DifferentialEvolution{
			PopulationSize: config.PopulationSize,
			MaxIterations:  config.MaxIterations,
			Tolerance:      config.Tolerance,
		}
	}
	return &Engine{
		config:    config,
		oracle:    oracle.Serialized(o),
		rules:     feasibility.RulesetFromConfig(config),
		impact:    ImpactConfigFromOpts(config.ImpactOpts),
		optimizer: optimizer,
		monitor:   monitor,
	}
}

// Produce the best counterfactual scenario for the request. Never
// fails: when no candidate survives, the rule-based fallback is
// returned instead.
func (e *Engine) Generate(ctx context.Context, request Request) *Result {
	start := time.Now()
	defer func() {
		e.monitor.observeGeneration(time.Since(start).Seconds())
	}()

	target := request.TargetCategory
	if target == "" {
		target = oracle.NextBetterCategory(request.CurrentCategory)
	}

	numCandidates := request.NumCandidates
	if numCandidates <= 0 {
		numCandidates = e.config.NumCandidates
	}
	maxChanges := request.MaxChanges
	if maxChanges <= 0 {
		maxChanges = e.config.MaxChangesPerScenario
	}

	generator := Generator{
		Optimizer:         e.optimizer,
		Oracle:            e.oracle,
		Rules:             e.rules,
		NumCandidates:     numCandidates,
		BaseSeed:          e.config.BaseSeed,
		MaxParallel:       e.config.MaxParallel,
		RunTimeout:        time.Duration(e.config.RunTimeoutSeconds) * time.Second,
		DistanceWeight:    e.config.DistanceWeight,
		ChangeCountWeight: e.config.ChangeCountWeight,
		FeasibilityWeight: e.config.FeasibilityWeight,
	}
	evaluator := Evaluator{
		Oracle:     e.oracle,
		Rules:      e.rules,
		Impact:     e.impact,
		MaxChanges: maxChanges,
	}

	candidates := generator.Candidates(ctx, request.Features, request.Embeddings, target)

	scenarios := make([]Scenario, 0, len(candidates))
	for _, candidate := range candidates {
		scenario, err := evaluator.Evaluate(
			ctx, request.Features, candidate.Features, candidate.Distance,
			request.CurrentCategory, request.CurrentScore, target,
		)
		if err != nil {
			slog.Debug("candidate evaluation failed", "error", err)
			e.monitor.countCandidate("failed")
			continue
		}
		if request.FeasibleOnly && !scenario.Feasible {
			e.monitor.countCandidate("infeasible")
			continue
		}
		e.monitor.countCandidate("evaluated")
		scenarios = append(scenarios, scenario)
	}

	// Feasible scenarios always outrank infeasible ones; the full list
	// is only ranked when no candidate is feasible.
	if !request.FeasibleOnly {
		feasible := make([]Scenario, 0, len(scenarios))
		for _, scenario := range scenarios {
			if scenario.Feasible {
				feasible = append(feasible, scenario)
			}
		}
		if len(feasible) > 0 {
			scenarios = feasible
		}
	}

	best, ok := SelectBest(scenarios)
	if !ok {
		slog.Info("no viable candidate scenario, using rule-based fallback",
			"category", request.CurrentCategory, "target", target)
		e.monitor.countFallback()
		return fallbackResult(request.Features, request.CurrentCategory, target)
	}
	return formatResult(best)
}
