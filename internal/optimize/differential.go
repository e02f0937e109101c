// Copyright 2025 Brujula Authors
// SPDX-License-Identifier: Apache-2.0

package optimize

import (
	"context"
	"math"
	"math/rand"
)

// Differential evolution (DE/rand/1/bin) with deferred population
// updating. The whole run is driven by a single seeded PRNG, so equal
// seeds produce equal trajectories.
type DifferentialEvolution struct {
	// Number of population members. Defaults to 15.
	PopulationSize int
	// Maximum number of generations. Defaults to 100.
	MaxIterations int
	// Relative convergence tolerance on the population energies.
	// Defaults to 0.001.
	Tolerance float64
	// Mutation factor. When zero, the factor is dithered uniformly in
	// [0.5, 1) once per generation.
	Mutation float64
	// Crossover probability. Defaults to 0.7.
	Recombination float64
}

// Absolute floor on the convergence check, so that populations whose
// energies collapse to zero still terminate.
const convergenceAtol = 1e-8

func (de DifferentialEvolution) Minimize(ctx context.Context, objective Objective, lower, upper []float64, seed int64) (Result, error) {
	dim := len(lower)
	if dim == 0 || len(upper) != dim {
		return Result{}, ErrInvalidBounds
	}
	for d := 0; d < dim; d++ {
		if lower[d] > upper[d] {
			return Result{}, ErrInvalidBounds
		}
	}

	popsize := de.PopulationSize
	if popsize <= 0 {
		popsize = 15
	}
	if popsize < 4 {
		// DE/rand/1 needs three distinct partners per member.
		popsize = 4
	}
	maxiter := de.MaxIterations
	if maxiter <= 0 {
		maxiter = 100
	}
	tol := de.Tolerance
	if tol <= 0 {
		tol = 0.001
	}
	recomb := de.Recombination
	if recomb <= 0 {
		recomb = 0.7
	}

	rng := rand.New(rand.NewSource(seed))

	pop := make([][]float64, popsize)
	energies := make([]float64, popsize)
	for i := range pop {
		pop[i] = make([]float64, dim)
		for d := 0; d < dim; d++ {
			pop[i][d] = lower[d] + rng.Float64()*(upper[d]-lower[d])
		}
		energies[i] = objective(pop[i])
	}

	bestIdx := 0
	for i := 1; i < popsize; i++ {
		if energies[i] < energies[bestIdx] {
			bestIdx = i
		}
	}
	best := append([]float64(nil), pop[bestIdx]...)
	bestEnergy := energies[bestIdx]

	trial := make([]float64, dim)
	nextPop := make([][]float64, popsize)
	for i := range nextPop {
		nextPop[i] = make([]float64, dim)
	}
	nextEnergies := make([]float64, popsize)

	iterations := 0
	for gen := 0; gen < maxiter; gen++ {
		if err := ctx.Err(); err != nil {
			return Result{X: best, Value: bestEnergy, Iterations: iterations}, err
		}

		mutation := de.Mutation
		if mutation <= 0 {
			mutation = 0.5 + 0.5*rng.Float64()
		}

		for i := 0; i < popsize; i++ {
			r0, r1, r2 := pickPartners(rng, popsize, i)
			jrand := rng.Intn(dim)
			for d := 0; d < dim; d++ {
				if d == jrand || rng.Float64() < recomb {
					v := pop[r0][d] + mutation*(pop[r1][d]-pop[r2][d])
					trial[d] = clamp(v, lower[d], upper[d])
				} else {
					trial[d] = pop[i][d]
				}
			}
			energy := objective(trial)
			if energy < energies[i] {
				copy(nextPop[i], trial)
				nextEnergies[i] = energy
				if energy < bestEnergy {
					copy(best, trial)
					bestEnergy = energy
				}
			} else {
				copy(nextPop[i], pop[i])
				nextEnergies[i] = energies[i]
			}
		}
		pop, nextPop = nextPop, pop
		energies, nextEnergies = nextEnergies, energies
		iterations = gen + 1

		if converged(energies, tol) {
			return Result{X: best, Value: bestEnergy, Iterations: iterations, Converged: true}, nil
		}
	}

	return Result{X: best, Value: bestEnergy, Iterations: iterations}, ErrNotConverged
}

// Draws three distinct population indices, all different from i.
func pickPartners(rng *rand.Rand, popsize, i int) (int, int, int) {
	var idx [3]int
	for n := 0; n < 3; {
		candidate := rng.Intn(popsize)
		if candidate == i {
			continue
		}
		duplicate := false
		for m := 0; m < n; m++ {
			if idx[m] == candidate {
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}
		idx[n] = candidate
		n++
	}
	return idx[0], idx[1], idx[2]
}

// The population has converged when the spread of its energies is small
// relative to their mean.
func converged(energies []float64, tol float64) bool {
	mean := 0.0
	for _, e := range energies {
		mean += e
	}
	mean /= float64(len(energies))
	variance := 0.0
	for _, e := range energies {
		d := e - mean
		variance += d * d
	}
	variance /= float64(len(energies))
	return math.Sqrt(variance) <= convergenceAtol+tol*math.Abs(mean)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
