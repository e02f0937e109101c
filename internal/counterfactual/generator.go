// Copyright 2025 Brujula Authors
// SPDX-License-Identifier: Apache-2.0

package counterfactual

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/brujula-dev/brujula/internal/feasibility"
	"github.com/brujula-dev/brujula/internal/features"
	"github.com/brujula-dev/brujula/internal/optimize"
	"github.com/brujula-dev/brujula/internal/oracle"
)

// Objective value returned when the oracle fails for a probe point, so
// the search steers away from regions it cannot score.
const oracleFailurePenalty = 1000.0

// A candidate feature set produced by one optimization run, together
// with its vector distance to the original.
type Candidate struct {
	Features features.Set
	Distance float64
}

// Runs independent seeded optimization searches over the bounded
// feature space to produce diverse counterfactual candidates. All runs
// read the same immutable original vector and bounds; each writes only
// its own candidate.
type Generator struct {
	Optimizer optimize.GlobalOptimizer
	Oracle    oracle.Oracle
	Rules     feasibility.Ruleset

	NumCandidates int
	BaseSeed      int64
	// Upper bound on concurrently running searches. Zero means one
	// worker per candidate.
	MaxParallel int
	// Budget for a single search. A timed-out run is excluded like a
	// failed one. Zero disables the timeout.
	RunTimeout time.Duration

	DistanceWeight    float64
	ChangeCountWeight float64
	FeasibilityWeight float64
}

// Produces up to NumCandidates candidate feature sets. Runs that fail,
// time out, or do not converge are logged and skipped; an empty result
// is a valid outcome.
func (g Generator) Candidates(ctx context.Context, original features.Set, embeddings map[string][]float64, target string) []Candidate {
	var vectorizer features.Vectorizer
	x0, mapping := vectorizer.ToVector(original, embeddings)
	if mapping.Empty() {
		return nil
	}

	lower := make([]float64, len(x0))
	upper := make([]float64, len(x0))
	for i := range x0 {
		if mapping.IsEmbedding(i) {
			lower[i] = feasibility.EmbeddingLowerBound
			upper[i] = feasibility.EmbeddingUpperBound
		} else {
			lower[i], upper[i] = g.Rules.Bounds(mapping.Names[i], x0[i])
		}
	}

	numCandidates := g.NumCandidates
	if numCandidates <= 0 {
		numCandidates = 3
	}
	parallel := g.MaxParallel
	if parallel <= 0 {
		parallel = numCandidates
	}

	var mu sync.Mutex
	candidates := make([]Candidate, 0, numCandidates)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(parallel)
	for i := 0; i < numCandidates; i++ {
		seed := g.BaseSeed + int64(i)
		group.Go(func() error {
			runCtx := groupCtx
			if g.RunTimeout > 0 {
				var cancel context.CancelFunc
				runCtx, cancel = context.WithTimeout(groupCtx, g.RunTimeout)
				defer cancel()
			}

			objective := g.objective(runCtx, x0, mapping, original, target)
			result, err := g.Optimizer.Minimize(runCtx, objective, lower, upper, seed)
			if err != nil {
				slog.Debug("candidate search excluded", "seed", seed, "error", err)
				return nil
			}
			candidate := Candidate{
				Features: vectorizer.FromVector(result.X, mapping, original),
				Distance: euclidean(result.X, x0),
			}
			mu.Lock()
			candidates = append(candidates, candidate)
			mu.Unlock()
			return nil
		})
	}
	_ = group.Wait()
	return candidates
}

// Builds the scalar objective for one search run. Lower is better: a
// good candidate stays close to the original, changes few features,
// respects the feasibility rules, and maximizes the oracle's predicted
// probability of the target category.
func (g Generator) objective(ctx context.Context, x0 []float64, mapping features.MappingInfo, original features.Set, target string) optimize.Objective {
	var vectorizer features.Vectorizer
	dim := float64(len(x0))
	return func(x []float64) float64 {
		candidate := vectorizer.FromVector(x, mapping, original)
		prediction, err := g.Oracle.Predict(ctx, candidate)
		if err != nil {
			return oracleFailurePenalty
		}
		return g.DistanceWeight*euclidean(x, x0)/dim +
			g.ChangeCountWeight*float64(countChanged(x, x0))/dim +
			g.FeasibilityWeight*g.Rules.Penalty(original, candidate) +
			(1 - prediction.Probabilities[target])
	}
}

func euclidean(x, x0 []float64) float64 {
	sum := 0.0
	for i := range x {
		d := x[i] - x0[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// Number of vector components that moved by more than the relative
// change threshold.
func countChanged(x, x0 []float64) int {
	count := 0
	for i := range x {
		if significantChange(x0[i], x[i]) {
			count++
		}
	}
	return count
}
