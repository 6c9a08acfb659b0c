package schema

// UnknownCadence is reported when the dataset carries no sprint timestamps.
const UnknownCadence = "unknown"

// Insight is a short derived commentary message with a severity level.
type Insight struct {
	Level   InsightLevel `json:"level"`
	Message string       `json:"message"`
}

// TeamProfile is a derived summary of a team inferred from its KPI report.
// Everything here is a pure function of already-computed values; no new
// randomness or external data is involved.
type TeamProfile struct {
	Cadence     string   `json:"cadence"`                // Human-readable cadence, UnknownCadence without timestamps
	CadenceDays *float64 `json:"cadence_days,omitempty"` // Median gap between consecutive sprint end dates

	// TeamSize divides average throughput by an assumed items-per-person
	// constant that cannot be validated from the data alone, so it is always
	// flagged with a qualitative confidence rather than a numeric error bound.
	TeamSize           float64 `json:"team_size"`
	TeamSizeConfidence string  `json:"team_size_confidence"`

	AvgVelocity float64  `json:"avg_velocity"`
	VelocityCoV *float64 `json:"velocity_cov"`

	Predictability PredictabilityLabel `json:"predictability"`

	Insights []Insight `json:"insights"`
}
