// Package kpi computes deterministic KPI aggregates over a sprint history:
// per-sprint velocity, throughput, carryover and defect ratio, plus rolling
// mean/CoV measures and pooled cycle-time percentiles over a trailing window.
package kpi

import (
	"strconv"

	"github.com/sprintlab/sprintlens/core/algo"
	"github.com/sprintlab/sprintlens/schema"
)

// Compute derives a KPIReport from history over the trailing window sprints.
// Short histories never fail: all available sprints are used and the report
// carries the effective window size. The history is read-only; the report is
// a fresh value owned by the caller.
func Compute(history *schema.SprintHistory, window int) (*schema.KPIReport, error) {
	if window <= 0 {
		return nil, &schema.InvalidParameterError{
			Param:  "window",
			Value:  strconv.Itoa(window),
			Reason: "must be a positive integer",
		}
	}

	sprints := make([]schema.SprintKPI, 0, history.Len())
	for _, rec := range history.Records {
		sprints = append(sprints, sprintKPI(rec))
	}

	effective := min(window, history.Len())
	tail := history.Records[history.Len()-effective:]

	velocities := make([]float64, effective)
	throughputs := make([]float64, effective)
	carryovers := make([]float64, effective)
	var pooled []float64
	for i, rec := range tail {
		velocities[i] = rec.Completed
		throughputs[i] = float64(rec.IssuesResolved)
		carryovers[i] = carryoverRate(rec)
		pooled = append(pooled, rec.CycleTimes...)
	}

	return &schema.KPIReport{
		Window:          window,
		EffectiveWindow: effective,
		Sprints:         sprints,
		VelocityRolling: schema.RollingStats{
			Mean: algo.Mean(velocities),
			CoV:  algo.CoV(velocities),
		},
		ThroughputRolling: schema.RollingStats{
			Mean: algo.Mean(throughputs),
			CoV:  algo.CoV(throughputs),
		},
		CarryoverRolling: schema.RollingStats{
			Mean: algo.Mean(carryovers),
			CoV:  algo.CoV(carryovers),
		},
		CycleTime: cycleTimePercentiles(pooled),
	}, nil
}

// sprintKPI derives the per-sprint metrics from a single record.
func sprintKPI(rec schema.SprintRecord) schema.SprintKPI {
	return schema.SprintKPI{
		SprintID:      rec.SprintID,
		Velocity:      rec.Completed,
		Throughput:    rec.IssuesResolved,
		CarryoverRate: carryoverRate(rec),
		DefectRatio:   defectRatio(rec),
	}
}

// carryoverRate is the fraction of committed work not completed by sprint
// end. Nothing committed means nothing to carry over, so a zero denominator
// yields 0 rather than undefined. Scope added mid-sprint can push completed
// above committed; that is clamped to 0, never reported negative.
func carryoverRate(rec schema.SprintRecord) float64 {
	if rec.Committed == 0 {
		return 0
	}
	rate := (rec.Committed - rec.Completed) / rec.Committed
	if rate < 0 {
		return 0
	}
	return rate
}

// defectRatio is the share of resolved items that were defects, 0 when
// nothing was resolved.
func defectRatio(rec schema.SprintRecord) float64 {
	if rec.IssuesResolved == 0 {
		return 0
	}
	return float64(rec.DefectsResolved) / float64(rec.IssuesResolved)
}

// cycleTimePercentiles pools all samples in the window. An empty pool yields
// nil percentiles so "no data" never masquerades as zero latency.
func cycleTimePercentiles(pooled []float64) schema.CycleTimePercentiles {
	if len(pooled) == 0 {
		return schema.CycleTimePercentiles{}
	}
	p50 := algo.Percentile(pooled, 50)
	p85 := algo.Percentile(pooled, 85)
	p95 := algo.Percentile(pooled, 95)
	return schema.CycleTimePercentiles{P50: &p50, P85: &p85, P95: &p95}
}
