package schema

// SimulationParams echoes the inputs a simulation ran with, so a result is
// self-describing and reproducible.
type SimulationParams struct {
	SampleSize int     `json:"sample_size"`
	Commitment float64 `json:"commitment"`
	Iterations int     `json:"iterations"`
	Seed       int64   `json:"seed"`
}

// DistributionSummary holds summary statistics over a simulated distribution.
type DistributionSummary struct {
	Mean float64 `json:"mean"`
	P10  float64 `json:"p10"`
	P50  float64 `json:"p50"`
	P90  float64 `json:"p90"`
}

// SimulationResult is the full outcome of a completion-probability run:
// the parameters used, every drawn value in order, the estimated probability
// of meeting the commitment, and summary percentiles of the distribution.
// It is immutable once produced, and identical inputs with the same seed
// always yield a bit-identical Probability.
type SimulationResult struct {
	Params      SimulationParams    `json:"params"`
	Draws       []float64           `json:"draws"`
	Probability float64             `json:"probability"`
	Summary     DistributionSummary `json:"summary"`
}

// ForecastStep is one future sprint in a horizon forecast, with the mean and
// percentile band of simulated velocity for that step.
type ForecastStep struct {
	Step int     `json:"step"` // 1-based offset from the current sprint
	Mean float64 `json:"mean"`
	P10  float64 `json:"p10"`
	P50  float64 `json:"p50"`
	P90  float64 `json:"p90"`
}

// HorizonForecast is a multi-sprint velocity forecast built from repeated
// resampling of historical velocity, one band per future sprint.
type HorizonForecast struct {
	Horizon    int            `json:"horizon"`
	Iterations int            `json:"iterations"`
	Seed       int64          `json:"seed"`
	Steps      []ForecastStep `json:"steps"`
}

// BandSpreads returns the p90-p10 spread for each step of the forecast.
func (f *HorizonForecast) BandSpreads() []float64 {
	out := make([]float64, len(f.Steps))
	for i, s := range f.Steps {
		out[i] = s.P90 - s.P10
	}
	return out
}
