package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sprintlab/sprintlens/internal/contract"
	"github.com/sprintlab/sprintlens/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func sampleReport() *schema.KPIReport {
	return &schema.KPIReport{
		Window:          6,
		EffectiveWindow: 2,
		Sprints: []schema.SprintKPI{
			{SprintID: "S1", Velocity: 20, Throughput: 10, CarryoverRate: 0.1, DefectRatio: 0.2},
			{SprintID: "S2", Velocity: 24, Throughput: 12, CarryoverRate: 0.0, DefectRatio: 0.25},
		},
		VelocityRolling:   schema.RollingStats{Mean: 22, CoV: floatPtr(0.13)},
		ThroughputRolling: schema.RollingStats{Mean: 11, CoV: floatPtr(0.13)},
		CarryoverRolling:  schema.RollingStats{Mean: 0.05, CoV: nil},
		CycleTime: schema.CycleTimePercentiles{
			P50: floatPtr(3.0),
			P85: floatPtr(5.5),
			P95: floatPtr(8.0),
		},
	}
}

func textConfig() *contract.Config {
	return &contract.Config{
		Output:       schema.TextOut,
		Precision:    2,
		Width:        120,
		UseColors:    false,
		CacheBackend: schema.SQLiteBackend,
	}
}

func TestWriteKPITable(t *testing.T) {
	cfg := textConfig()
	fmtFloat, fmtOptFloat := createFormatters(cfg.Precision)

	var buf bytes.Buffer
	err := writeKPITable(sampleReport(), cfg, fmtFloat, fmtOptFloat, 100*time.Millisecond, &buf)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "S1")
	assert.Contains(t, output, "S2")
	assert.Contains(t, output, "20.00")
	assert.Contains(t, output, "Rolling window: 2 of 6 requested sprints")
	assert.Contains(t, output, "Velocity mean 22.00 (CoV 0.13)")
	assert.Contains(t, output, "carryover mean 0.05 (CoV n/a)")
	assert.Contains(t, output, "p50 3.00, p85 5.50, p95 8.00")
	assert.Contains(t, output, "Analysis completed in 100ms")
}

func TestWriteKPICSV(t *testing.T) {
	fmtFloat, _ := createFormatters(2)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	err := writeKPICSV(w, sampleReport(), fmtFloat)
	require.NoError(t, err)
	w.Flush()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3) // header + 2 rows
	assert.Contains(t, lines[0], "sprint_id")
	assert.Contains(t, lines[0], "carryover_rate")
	assert.Contains(t, lines[1], "S1")
	assert.Contains(t, lines[1], "20.00")
	assert.Contains(t, lines[2], "S2")
}

func TestPrintKPIReportJSONFile(t *testing.T) {
	cfg := textConfig()
	cfg.Output = schema.JSONOut
	cfg.OutputFile = filepath.Join(t.TempDir(), "kpis.json")

	err := PrintKPIReport(sampleReport(), cfg, time.Millisecond)
	require.NoError(t, err)

	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)

	var decoded schema.KPIReport
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 2, decoded.EffectiveWindow)
	assert.Len(t, decoded.Sprints, 2)
	assert.Nil(t, decoded.CarryoverRolling.CoV)
}

func TestPrintKPIReportParquetRequiresFile(t *testing.T) {
	cfg := textConfig()
	cfg.Output = schema.ParquetOut

	err := PrintKPIReport(sampleReport(), cfg, time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output file")
}

func sampleSimulation() *schema.SimulationResult {
	return &schema.SimulationResult{
		Params: schema.SimulationParams{
			SampleSize: 6,
			Commitment: 21,
			Iterations: 10000,
			Seed:       42,
		},
		Probability: 0.87,
		Summary:     schema.DistributionSummary{Mean: 22.5, P10: 18, P50: 22, P90: 27},
	}
}

func sampleHorizon() *schema.HorizonForecast {
	return &schema.HorizonForecast{
		Horizon:    2,
		Iterations: 8000,
		Seed:       42,
		Steps: []schema.ForecastStep{
			{Step: 1, Mean: 22, P10: 18, P50: 22, P90: 26},
			{Step: 2, Mean: 44, P10: 38, P50: 44, P90: 50},
		},
	}
}

func TestWriteForecastText(t *testing.T) {
	cfg := textConfig()
	fmtFloat, _ := createFormatters(cfg.Precision)
	insights := []schema.Insight{
		{Level: schema.SuccessInsight, Message: "Forecast uncertainty is low."},
	}

	var buf bytes.Buffer
	err := writeForecastText(sampleSimulation(), sampleHorizon(), insights, cfg, fmtFloat, 50*time.Millisecond, &buf)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "Completion probability for 21.00 units: 87.0% (Likely)")
	assert.Contains(t, output, "mean 22.50, p10 18.00, p50 22.00, p90 27.00")
	assert.Contains(t, output, "+1")
	assert.Contains(t, output, "+2")
	assert.Contains(t, output, "Horizon of 2 sprints over 8000 iterations (seed 42)")
	assert.Contains(t, output, "[success] Forecast uncertainty is low.")
	assert.Contains(t, output, "Forecast completed in 50ms")
}

func TestWriteForecastTextCommitmentOnly(t *testing.T) {
	cfg := textConfig()
	fmtFloat, _ := createFormatters(cfg.Precision)

	var buf bytes.Buffer
	err := writeForecastText(sampleSimulation(), nil, nil, cfg, fmtFloat, time.Millisecond, &buf)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "Completion probability")
	assert.NotContains(t, output, "Horizon of")
}

func TestWriteForecastCSV(t *testing.T) {
	fmtFloat, _ := createFormatters(2)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	err := writeForecastCSV(w, sampleSimulation(), sampleHorizon(), fmtFloat)
	require.NoError(t, err)
	w.Flush()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4) // header + commitment + 2 horizon steps
	assert.Contains(t, lines[0], "kind")
	assert.Contains(t, lines[1], "commitment")
	assert.Contains(t, lines[1], "Likely")
	assert.Contains(t, lines[2], "horizon")
	assert.Contains(t, lines[3], "horizon")
}

func TestPrintForecastJSON(t *testing.T) {
	cfg := textConfig()
	cfg.Output = schema.JSONOut
	cfg.OutputFile = filepath.Join(t.TempDir(), "forecast.json")

	err := PrintForecast(sampleSimulation(), sampleHorizon(), nil, cfg, time.Millisecond)
	require.NoError(t, err)

	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "Likely", decoded["label"])
	assert.NotNil(t, decoded["simulation"])
	assert.NotNil(t, decoded["horizon"])
}

func TestPrintForecastParquetUnsupported(t *testing.T) {
	cfg := textConfig()
	cfg.Output = schema.ParquetOut

	err := PrintForecast(sampleSimulation(), nil, nil, cfg, time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not supported")
}

func sampleProfile() *schema.TeamProfile {
	return &schema.TeamProfile{
		Cadence:            "14 days",
		CadenceDays:        floatPtr(14),
		TeamSize:           4.2,
		TeamSizeConfidence: "low",
		AvgVelocity:        22,
		VelocityCoV:        floatPtr(0.11),
		Predictability:     schema.HighPredictability,
		Insights: []schema.Insight{
			{Level: schema.InfoInsight, Message: "Velocity trend is flat/stable."},
		},
	}
}

func TestWriteProfileText(t *testing.T) {
	cfg := textConfig()
	fmtFloat, fmtOptFloat := createFormatters(cfg.Precision)

	var buf bytes.Buffer
	err := writeProfileText(sampleProfile(), cfg, fmtFloat, fmtOptFloat, 20*time.Millisecond, &buf)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "Cadence:         14 days")
	assert.Contains(t, output, "~4.20 people (low confidence)")
	assert.Contains(t, output, "22.00 (CoV 0.11)")
	assert.Contains(t, output, "Predictability:  high")
	assert.Contains(t, output, "[info] Velocity trend is flat/stable.")
	assert.Contains(t, output, "Profile completed in 20ms")
}

func TestWriteProfileTextNilCoV(t *testing.T) {
	cfg := textConfig()
	fmtFloat, fmtOptFloat := createFormatters(cfg.Precision)
	profile := sampleProfile()
	profile.VelocityCoV = nil

	var buf bytes.Buffer
	err := writeProfileText(profile, cfg, fmtFloat, fmtOptFloat, time.Millisecond, &buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "(CoV n/a)")
}

func TestWriteProfileCSV(t *testing.T) {
	fmtFloat, fmtOptFloat := createFormatters(2)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	err := writeProfileCSV(w, sampleProfile(), fmtFloat, fmtOptFloat)
	require.NoError(t, err)
	w.Flush()

	output := buf.String()
	assert.Contains(t, output, "cadence,14 days")
	assert.Contains(t, output, "predictability,high")
	assert.Contains(t, output, "insight_info,Velocity trend is flat/stable.")
}

func TestPrintProfileJSONFile(t *testing.T) {
	cfg := textConfig()
	cfg.Output = schema.JSONOut
	cfg.OutputFile = filepath.Join(t.TempDir(), "profile.json")

	err := PrintProfile(sampleProfile(), cfg, time.Millisecond)
	require.NoError(t, err)

	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)

	var decoded schema.TeamProfile
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "14 days", decoded.Cadence)
	assert.Equal(t, schema.HighPredictability, decoded.Predictability)
}

func sampleHistory() *schema.SprintHistory {
	end := time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC)
	return &schema.SprintHistory{Records: []schema.SprintRecord{
		{SprintID: "S1", Committed: 20, Completed: 18, IssuesResolved: 9, CycleTimes: []float64{2, 3}},
		{SprintID: "S2", Committed: 22, Completed: 22, IssuesResolved: 11, CycleTimes: []float64{4}, SprintEnd: &end},
	}}
}

func TestWriteCheckText(t *testing.T) {
	cfg := textConfig()
	summary := summarizeHistory(sampleHistory())

	var buf bytes.Buffer
	err := writeCheckText(summary, cfg, 10*time.Millisecond, &buf)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "Dataset is valid: 2 sprints (S1 through S2)")
	assert.Contains(t, output, "Cycle time samples: 3")
	assert.Contains(t, output, "Sprint timestamps: present")
	assert.Contains(t, output, "Validation completed in 10ms")
}

func TestWriteCheckCSV(t *testing.T) {
	summary := summarizeHistory(sampleHistory())

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	err := writeCheckCSV(w, summary)
	require.NoError(t, err)
	w.Flush()

	output := buf.String()
	assert.Contains(t, output, "sprints,2")
	assert.Contains(t, output, "first_sprint,S1")
	assert.Contains(t, output, "has_timestamps,true")
}

func TestPrintCheckSummaryJSON(t *testing.T) {
	cfg := textConfig()
	cfg.Output = schema.JSONOut
	cfg.OutputFile = filepath.Join(t.TempDir(), "check.json")

	err := PrintCheckSummary(sampleHistory(), cfg, time.Millisecond)
	require.NoError(t, err)

	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, float64(2), decoded["sprints"])
	assert.Equal(t, true, decoded["has_timestamps"])
}

func TestCreateFormatters(t *testing.T) {
	fmtFloat, fmtOptFloat := createFormatters(3)
	// 1.2346 rounds unambiguously; values like 1.2345 sit below the half-way
	// point in binary and would round down.
	assert.Equal(t, "1.235", fmtFloat(1.2346))
	assert.Equal(t, "1.234", fmtFloat(1.2341))
	assert.Equal(t, "1.235", fmtOptFloat(floatPtr(1.2346)))
	assert.Equal(t, undefinedValue, fmtOptFloat(nil))
}

func TestGetMaxSprintIDWidth(t *testing.T) {
	wide := &contract.Config{Width: 200}
	assert.Equal(t, 40, getMaxSprintIDWidth(wide))

	narrow := &contract.Config{Width: 40}
	assert.Equal(t, 10, getMaxSprintIDWidth(narrow))

	medium := &contract.Config{Width: 80}
	assert.Equal(t, 25, getMaxSprintIDWidth(medium))
}
