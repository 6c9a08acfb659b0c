package core

import (
	"fmt"
	"math"

	"github.com/sprintlab/sprintlens/core/algo"
	"github.com/sprintlab/sprintlens/schema"
)

// ProfileOptions are the tunable assumptions behind team-profile inference.
// They are explicit parameters, never globals, so alternative estimators can
// be substituted per invocation.
type ProfileOptions struct {
	ItemsPerPerson float64 // Assumed resolved items per person per sprint
	HighThreshold  float64 // Carryover CoV below this is "high" predictability
	LowThreshold   float64 // Carryover CoV above this is "low" predictability
}

// InferProfile derives a team profile from an already-computed KPI report and
// its history. It is pure and adds no randomness: cadence, approximate team
// size, velocity spread, a predictability label and short velocity insights.
func InferProfile(report *schema.KPIReport, history *schema.SprintHistory, opts ProfileOptions) schema.TeamProfile {
	profile := schema.TeamProfile{
		Cadence:            schema.UnknownCadence,
		TeamSize:           0,
		TeamSizeConfidence: "low", // rests on an assumed constant, never better than low
		AvgVelocity:        report.VelocityRolling.Mean,
		VelocityCoV:        report.VelocityRolling.CoV,
		Predictability:     predictabilityLabel(report, opts),
		Insights:           velocityInsights(history.Velocities(), opts),
	}

	if days := medianCadenceDays(history); days != nil {
		profile.CadenceDays = days
		profile.Cadence = fmt.Sprintf("%.0f days", *days)
	}

	if opts.ItemsPerPerson > 0 {
		profile.TeamSize = report.ThroughputRolling.Mean / opts.ItemsPerPerson
	}

	return profile
}

// medianCadenceDays returns the median gap in days between consecutive sprint
// end dates, or nil when fewer than two sprints carry timestamps.
func medianCadenceDays(history *schema.SprintHistory) *float64 {
	var gaps []float64
	var prev *schema.SprintRecord
	for i := range history.Records {
		rec := &history.Records[i]
		if rec.SprintEnd == nil {
			continue
		}
		if prev != nil {
			gaps = append(gaps, rec.SprintEnd.Sub(*prev.SprintEnd).Hours()/24)
		}
		prev = rec
	}
	if len(gaps) == 0 {
		return nil
	}
	m := algo.Median(gaps)
	return &m
}

// predictabilityLabel classifies the team by carryover variability over the
// report's effective window. A team that carries nothing over has no
// variability to measure and is classified high; a window too short to
// measure spread stays medium rather than pretending a signal exists.
func predictabilityLabel(report *schema.KPIReport, opts ProfileOptions) schema.PredictabilityLabel {
	tail := report.Sprints
	if report.EffectiveWindow < len(tail) {
		tail = tail[len(tail)-report.EffectiveWindow:]
	}
	if len(tail) < 2 {
		return schema.MediumPredictability
	}

	carryovers := make([]float64, len(tail))
	allZero := true
	for i, s := range tail {
		carryovers[i] = s.CarryoverRate
		if s.CarryoverRate != 0 {
			allZero = false
		}
	}
	if allZero {
		return schema.HighPredictability
	}

	cv := algo.CoV(carryovers)
	if cv == nil {
		return schema.MediumPredictability
	}
	switch {
	case *cv < opts.HighThreshold:
		return schema.HighPredictability
	case *cv > opts.LowThreshold:
		return schema.LowPredictability
	default:
		return schema.MediumPredictability
	}
}

// velocityInsights derives short commentary on the velocity series: trend
// direction and stability.
func velocityInsights(velocities []float64, opts ProfileOptions) []schema.Insight {
	var insights []schema.Insight

	if len(velocities) < 3 {
		return append(insights, schema.Insight{
			Level:   schema.WarningInsight,
			Message: "Limited history. Add more sprints for a better forecast.",
		})
	}

	slope := algo.TrendSlope(velocities)
	switch {
	case math.Abs(slope) < 0.2:
		insights = append(insights, schema.Insight{Level: schema.InfoInsight, Message: "Velocity trend is flat/stable."})
	case slope > 0:
		insights = append(insights, schema.Insight{Level: schema.SuccessInsight, Message: "Velocity is trending upward."})
	default:
		insights = append(insights, schema.Insight{Level: schema.WarningInsight, Message: "Velocity is trending downward."})
	}

	cv := algo.CoV(velocities)
	switch {
	case cv == nil:
		insights = append(insights, schema.Insight{Level: schema.WarningInsight, Message: "Past velocity is volatile; expect wider forecast bands."})
	case *cv < opts.HighThreshold:
		insights = append(insights, schema.Insight{Level: schema.SuccessInsight, Message: "Past velocity is very stable (low variability)."})
	case *cv < opts.LowThreshold:
		insights = append(insights, schema.Insight{Level: schema.InfoInsight, Message: "Past velocity variability is moderate."})
	default:
		insights = append(insights, schema.Insight{Level: schema.WarningInsight, Message: "Past velocity is volatile; expect wider forecast bands."})
	}

	return insights
}

// ForecastInsights derives commentary on forecast uncertainty from the width
// of the p10-p90 bands.
func ForecastInsights(fc *schema.HorizonForecast) []schema.Insight {
	spreads := fc.BandSpreads()
	if len(spreads) == 0 {
		return nil
	}
	avg := algo.Mean(spreads)
	switch {
	case avg < 3:
		return []schema.Insight{{Level: schema.SuccessInsight, Message: "Forecast uncertainty is low."}}
	case avg < 6:
		return []schema.Insight{{Level: schema.InfoInsight, Message: "Forecast uncertainty is moderate."}}
	default:
		return []schema.Insight{{Level: schema.WarningInsight, Message: "Forecast uncertainty is high."}}
	}
}
