// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/sprintlab/sprintlens/internal/contract"
	"github.com/sprintlab/sprintlens/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteKPIs prints a KPI report using the configured output format.
func (ow *OutWriter) WriteKPIs(report *schema.KPIReport, cfg *contract.Config, duration time.Duration) error {
	return PrintKPIReport(report, cfg, duration)
}

// WriteForecast prints forecast results using the configured output format.
func (ow *OutWriter) WriteForecast(result *schema.SimulationResult, horizon *schema.HorizonForecast, insights []schema.Insight, cfg *contract.Config, duration time.Duration) error {
	return PrintForecast(result, horizon, insights, cfg, duration)
}

// WriteProfile prints a team profile using the configured output format.
func (ow *OutWriter) WriteProfile(profile *schema.TeamProfile, cfg *contract.Config, duration time.Duration) error {
	return PrintProfile(profile, cfg, duration)
}

// WriteCheck prints a dataset validation summary using the configured output format.
func (ow *OutWriter) WriteCheck(history *schema.SprintHistory, cfg *contract.Config, duration time.Duration) error {
	return PrintCheckSummary(history, cfg, duration)
}
