// Package forecast estimates completion probability by Monte Carlo
// resampling of historical velocity. The draw sequence is fully determined by
// the seed, so identical inputs always produce bit-identical results across
// runs and platforms.
package forecast

import (
	"fmt"
	"math/rand/v2"
	"strconv"

	"github.com/sprintlab/sprintlens/core/algo"
	"github.com/sprintlab/sprintlens/schema"
)

// newRNG builds the deterministic generator for a seed. PCG is seeded with a
// fixed scheme so the same seed yields the same stream on every platform.
func newRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
}

// Simulate runs the completion-probability estimate: for each of iterations
// trials it draws one value uniformly at random (with replacement) from
// samples as the team's hypothetical next-sprint output, and counts the
// trials whose draw meets commitment. The result carries the full draw
// sequence, the probability estimate and summary percentiles.
func Simulate(samples []float64, commitment float64, iterations int, seed int64) (*schema.SimulationResult, error) {
	if len(samples) == 0 {
		return nil, &schema.InsufficientDataError{Reason: "no velocity samples to resample from"}
	}
	if iterations <= 0 {
		return nil, &schema.InvalidParameterError{
			Param:  "iterations",
			Value:  strconv.Itoa(iterations),
			Reason: "must be a positive integer",
		}
	}
	if commitment < 0 {
		return nil, &schema.InvalidParameterError{
			Param:  "commitment",
			Value:  fmt.Sprintf("%g", commitment),
			Reason: "must be non-negative",
		}
	}

	rng := newRNG(seed)
	draws := make([]float64, iterations)
	met := 0
	for i := range draws {
		draws[i] = samples[rng.IntN(len(samples))]
		if draws[i] >= commitment {
			met++
		}
	}

	return &schema.SimulationResult{
		Params: schema.SimulationParams{
			SampleSize: len(samples),
			Commitment: commitment,
			Iterations: iterations,
			Seed:       seed,
		},
		Draws:       draws,
		Probability: float64(met) / float64(iterations),
		Summary:     summarize(draws),
	}, nil
}

// Horizon forecasts velocity bands for the next horizon sprints. Each trial
// draws an independent velocity per future sprint; the per-step mean and
// percentiles form the forecast bands.
func Horizon(samples []float64, horizon, iterations int, seed int64) (*schema.HorizonForecast, error) {
	if len(samples) == 0 {
		return nil, &schema.InsufficientDataError{Reason: "no velocity samples to resample from"}
	}
	if horizon <= 0 {
		return nil, &schema.InvalidParameterError{
			Param:  "horizon",
			Value:  strconv.Itoa(horizon),
			Reason: "must be a positive integer",
		}
	}
	if iterations <= 0 {
		return nil, &schema.InvalidParameterError{
			Param:  "iterations",
			Value:  strconv.Itoa(iterations),
			Reason: "must be a positive integer",
		}
	}

	rng := newRNG(seed)
	steps := make([]schema.ForecastStep, horizon)
	column := make([]float64, iterations)
	for step := range steps {
		for i := range column {
			column[i] = samples[rng.IntN(len(samples))]
		}
		steps[step] = schema.ForecastStep{
			Step: step + 1,
			Mean: algo.Mean(column),
			P10:  algo.Percentile(column, 10),
			P50:  algo.Percentile(column, 50),
			P90:  algo.Percentile(column, 90),
		}
	}

	return &schema.HorizonForecast{
		Horizon:    horizon,
		Iterations: iterations,
		Seed:       seed,
		Steps:      steps,
	}, nil
}

// summarize computes the distribution summary once, after all trials.
func summarize(draws []float64) schema.DistributionSummary {
	return schema.DistributionSummary{
		Mean: algo.Mean(draws),
		P10:  algo.Percentile(draws, 10),
		P50:  algo.Percentile(draws, 50),
		P90:  algo.Percentile(draws, 90),
	}
}
