// Package core has core logic for validation, KPI computation, forecasting
// and team-profile inference.
package core

import (
	"context"
	"time"

	"github.com/sprintlab/sprintlens/core/algo"
	"github.com/sprintlab/sprintlens/core/forecast"
	"github.com/sprintlab/sprintlens/core/validate"
	"github.com/sprintlab/sprintlens/internal/contract"
	"github.com/sprintlab/sprintlens/internal/ingest"
	"github.com/sprintlab/sprintlens/internal/outwriter"
	"github.com/sprintlab/sprintlens/schema"
)

// ExecutorFunc defines the function signature for executing different analysis modes.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// loadHistory reads the configured dataset and validates it into an ordered
// sprint history.
func loadHistory(cfg *contract.Config) (*schema.SprintHistory, error) {
	table, err := ingest.ReadCSV(cfg.InputPath)
	if err != nil {
		return nil, err
	}
	return validate.Validate(table)
}

// velocitySamples returns the trailing window of completed work units that
// feeds the resampling engines.
func velocitySamples(history *schema.SprintHistory, window int) []float64 {
	return algo.Tail(history.Velocities(), window)
}

// GetKPIResults loads sprint history and computes KPIs over the configured
// window, returning the report without printing it.
func GetKPIResults(cfg *contract.Config, mgr contract.CacheManager) (*schema.KPIReport, error) {
	history, err := loadHistory(cfg)
	if err != nil {
		return nil, err
	}
	return cachedComputeKPIs(history, cfg.Window, mgr)
}

// ExecuteKPIs loads sprint history, computes KPIs over the configured window
// and prints the report. It serves as the main entry point for the 'kpis' command.
func ExecuteKPIs(_ context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	report, err := GetKPIResults(cfg, mgr)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return outwriter.PrintKPIReport(report, cfg, duration)
}

// GetForecastResults runs the Monte Carlo engines against the trailing
// velocity window, returning the results without printing them. A requested
// commitment (zero included, which is trivially met) yields a completion
// probability; a positive horizon yields per-sprint forecast bands. Both can
// run in one invocation.
func GetForecastResults(cfg *contract.Config, mgr contract.CacheManager) (*schema.SimulationResult, *schema.HorizonForecast, []schema.Insight, error) {
	history, err := loadHistory(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	samples := velocitySamples(history, cfg.Window)

	var result *schema.SimulationResult
	if cfg.Commitment != contract.CommitmentUnset {
		result, err = runTrackedSimulation(cfg, mgr, samples)
		if err != nil {
			return nil, nil, nil, err
		}
	}

	var horizon *schema.HorizonForecast
	var insights []schema.Insight
	if cfg.Horizon > 0 {
		horizon, err = forecast.Horizon(samples, cfg.Horizon, contract.DefaultHorizonIterations, cfg.Seed)
		if err != nil {
			return nil, nil, nil, err
		}
		insights = ForecastInsights(horizon)
	}

	return result, horizon, insights, nil
}

// ExecuteForecast runs the forecast engines and prints the results. It serves
// as the main entry point for the 'forecast' command.
func ExecuteForecast(_ context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	result, horizon, insights, err := GetForecastResults(cfg, mgr)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return outwriter.PrintForecast(result, horizon, insights, cfg, duration)
}

// runTrackedSimulation runs a single-commitment simulation, recording the run
// in the run store when one is configured. Tracking failures are logged and
// never fail the forecast itself.
func runTrackedSimulation(cfg *contract.Config, mgr contract.CacheManager, samples []float64) (*schema.SimulationResult, error) {
	params := schema.SimulationParams{
		SampleSize: len(samples),
		Commitment: cfg.Commitment,
		Iterations: cfg.Iterations,
		Seed:       cfg.Seed,
	}

	var runID int64
	runStore := mgr.GetRunStore()
	if runStore != nil {
		configParams := map[string]any{
			"input_path": cfg.InputPath,
			"window":     cfg.Window,
		}
		var err error
		runID, err = runStore.BeginRun(time.Now(), params, configParams)
		if err != nil {
			contract.LogWarn("Run tracking initialization failed", err)
		}
	}

	result, err := cachedSimulate(samples, cfg.Commitment, cfg.Iterations, cfg.Seed, mgr)
	if err != nil {
		return nil, err
	}

	if runStore != nil && runID > 0 {
		if err := runStore.EndRun(runID, time.Now(), result.Probability); err != nil {
			contract.LogWarn("Failed to finalize run tracking", err)
		}
	}

	return result, nil
}

// GetProfileResults infers team characteristics from the sprint history,
// returning the profile without printing it.
func GetProfileResults(cfg *contract.Config, mgr contract.CacheManager) (*schema.TeamProfile, error) {
	history, err := loadHistory(cfg)
	if err != nil {
		return nil, err
	}
	report, err := cachedComputeKPIs(history, cfg.Window, mgr)
	if err != nil {
		return nil, err
	}
	profile := InferProfile(report, history, ProfileOptions{
		ItemsPerPerson: cfg.ItemsPerPerson,
		HighThreshold:  cfg.HighThreshold,
		LowThreshold:   cfg.LowThreshold,
	})
	return &profile, nil
}

// ExecuteProfile infers team characteristics from the sprint history and
// prints them. It serves as the main entry point for the 'profile' command.
func ExecuteProfile(_ context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	profile, err := GetProfileResults(cfg, mgr)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return outwriter.PrintProfile(profile, cfg, duration)
}

// ExecuteCheck validates the dataset without computing any analytics and
// prints a short summary of what was accepted.
func ExecuteCheck(_ context.Context, cfg *contract.Config, _ contract.CacheManager) error {
	start := time.Now()
	history, err := loadHistory(cfg)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return outwriter.PrintCheckSummary(history, cfg, duration)
}
