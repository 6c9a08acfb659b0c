package schema

// SprintKPI holds the per-sprint metrics derived from a single record. Each
// field is a pure function of one SprintRecord.
type SprintKPI struct {
	SprintID      string  `json:"sprint_id"`
	Velocity      float64 `json:"velocity"`       // Completed work units
	Throughput    int     `json:"throughput"`     // Resolved item count
	CarryoverRate float64 `json:"carryover_rate"` // Fraction of committed work not completed, clamped to [0,1]
	DefectRatio   float64 `json:"defect_ratio"`   // Resolved defects over resolved items
}

// RollingStats holds the trailing-window mean and coefficient of variation for
// a metric series. CoV is nil when it is mathematically undefined (mean of
// zero, or fewer than two samples) rather than zero, so callers can tell "no
// signal" apart from "perfectly stable".
type RollingStats struct {
	Mean float64  `json:"mean"`
	CoV  *float64 `json:"cov"`
}

// CycleTimePercentiles holds aggregate cycle-time percentiles over the pooled
// samples of the trailing window. All fields are nil when the pool is empty,
// distinguishing "no data" from "zero latency".
type CycleTimePercentiles struct {
	P50 *float64 `json:"p50"`
	P85 *float64 `json:"p85"`
	P95 *float64 `json:"p95"`
}

// KPIReport is the immutable snapshot produced by the KPI engine. It is owned
// by the caller; the engine never mutates the history it was computed from.
type KPIReport struct {
	Window          int `json:"window"`           // Requested rolling window size
	EffectiveWindow int `json:"effective_window"` // Trailing sprints actually used (min of Window and history length)

	Sprints []SprintKPI `json:"sprints"` // Per-sprint metrics, oldest first

	VelocityRolling   RollingStats `json:"velocity_rolling"`
	ThroughputRolling RollingStats `json:"throughput_rolling"`
	CarryoverRolling  RollingStats `json:"carryover_rolling"`

	CycleTime CycleTimePercentiles `json:"cycle_time"`
}

// VelocitySamples returns the per-sprint velocity values of the report,
// oldest first. This is the series the completion-probability engine
// resamples from.
func (r *KPIReport) VelocitySamples() []float64 {
	out := make([]float64, len(r.Sprints))
	for i, s := range r.Sprints {
		out[i] = s.Velocity
	}
	return out
}
