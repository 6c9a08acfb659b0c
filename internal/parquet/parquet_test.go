package parquet

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/sprintlab/sprintlens/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForecastRunStructTags(t *testing.T) {
	// Verify struct tags are properly defined for parquet schema inference
	sch := parquet.SchemaOf(new(ForecastRun))
	require.NotNil(t, sch)

	expectedColumns := []string{
		"run_id",
		"start_time",
		"end_time",
		"run_duration_ms",
		"sample_size",
		"commitment",
		"iterations",
		"seed",
		"probability",
		"config_params",
	}

	for _, colName := range expectedColumns {
		col, ok := sch.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestSprintKPIRowStructTags(t *testing.T) {
	sch := parquet.SchemaOf(new(SprintKPIRow))
	require.NotNil(t, sch)

	expectedColumns := []string{
		"sprint_id",
		"velocity",
		"throughput",
		"carryover_rate",
		"defect_ratio",
	}

	for _, colName := range expectedColumns {
		col, ok := sch.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func sampleForecastRuns() []ForecastRun {
	now := time.Now()
	endTime := now.Add(2 * time.Second)
	durationMs := int32(endTime.Sub(now).Milliseconds())
	probability := 0.84
	configParams := `{"input_path":"sprints.csv","window":6}`

	return []ForecastRun{
		{
			RunID:         1,
			StartTime:     now,
			EndTime:       &endTime,
			RunDurationMs: &durationMs,
			SampleSize:    6,
			Commitment:    21,
			Iterations:    10000,
			Seed:          42,
			Probability:   &probability,
			ConfigParams:  &configParams,
		},
		{
			RunID:      2,
			StartTime:  now,
			SampleSize: 4,
			Commitment: 18,
			Iterations: 8000,
			Seed:       7,
			// EndTime, RunDurationMs, Probability, ConfigParams stay nil
			// for a run that never finished
		},
	}
}

func TestWriteForecastRunsParquet(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "forecast_runs.parquet")

	err := WriteForecastRunsParquet(sampleForecastRuns(), outputPath)
	require.NoError(t, err, "Writing Parquet file should not produce error")

	info, err := os.Stat(outputPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	// Read back and verify row content round-trips
	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	rows, err := parquet.Read[ForecastRun](file, info.Size())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(1), rows[0].RunID)
	require.NotNil(t, rows[0].Probability)
	assert.InDelta(t, 0.84, *rows[0].Probability, 1e-9)
	assert.Nil(t, rows[1].Probability)
}

func TestWriteSprintKPIsParquet(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "kpis.parquet")

	data := []SprintKPIRow{
		{SprintID: "S1", Velocity: 18, Throughput: 10, CarryoverRate: 0.1, DefectRatio: 0.2},
		{SprintID: "S2", Velocity: 20, Throughput: 12, CarryoverRate: 0.0, DefectRatio: 0.0},
	}

	err := WriteSprintKPIsParquet(data, outputPath)
	require.NoError(t, err)

	info, err := os.Stat(outputPath)
	require.NoError(t, err)

	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	rows, err := parquet.Read[SprintKPIRow](file, info.Size())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "S1", rows[0].SprintID)
	assert.InDelta(t, 20.0, rows[1].Velocity, 1e-9)
}

func TestConvertForecastRunRecords(t *testing.T) {
	now := time.Now()
	probability := 0.5
	records := []schema.ForecastRunRecord{
		{RunID: 3, StartTime: now, SampleSize: 5, Commitment: 20, Iterations: 1000, Seed: 42, Probability: &probability},
	}

	converted := ConvertForecastRunRecords(records)

	require.Len(t, converted, 1)
	assert.Equal(t, int64(3), converted[0].RunID)
	assert.Equal(t, int32(5), converted[0].SampleSize)
	require.NotNil(t, converted[0].Probability)
	assert.InDelta(t, 0.5, *converted[0].Probability, 1e-9)
}

func TestConvertSprintKPIs(t *testing.T) {
	sprints := []schema.SprintKPI{
		{SprintID: "S1", Velocity: 18, Throughput: 10, CarryoverRate: 0.1, DefectRatio: 0.25},
	}

	converted := ConvertSprintKPIs(sprints)

	require.Len(t, converted, 1)
	assert.Equal(t, "S1", converted[0].SprintID)
	assert.InDelta(t, 18.0, converted[0].Velocity, 1e-9)
	assert.InDelta(t, 0.25, converted[0].DefectRatio, 1e-9)
}
