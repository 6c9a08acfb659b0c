// Package parquet provides data structures and functions for exporting sprint
// analytics data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/sprintlab/sprintlens/schema"
)

// ForecastRun represents a single recorded forecast run with metadata.
// This struct maps to the sprintlens_forecast_runs database table.
type ForecastRun struct {
	// RunID is the unique identifier for this forecast run
	RunID int64 `parquet:"run_id,snappy"`

	// StartTime is when the forecast began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the forecast completed (nullable, stored as TIMESTAMP with nanosecond precision)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the forecast run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	// SampleSize is the number of velocity samples the run resampled from
	SampleSize int32 `parquet:"sample_size,snappy"`

	// Commitment is the work-unit commitment the run evaluated
	Commitment float64 `parquet:"commitment,snappy"`

	// Iterations is the Monte Carlo trial count
	Iterations int32 `parquet:"iterations,snappy"`

	// Seed is the pseudo-random seed the run was executed with
	Seed int64 `parquet:"seed,snappy"`

	// Probability is the estimated completion probability (nullable until the run finishes)
	Probability *float64 `parquet:"probability,optional,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// SprintKPIRow represents the per-sprint metrics of a KPI report.
type SprintKPIRow struct {
	// SprintID is the sprint identifier from the source dataset
	SprintID string `parquet:"sprint_id,snappy"`

	// Velocity is the completed work units
	Velocity float64 `parquet:"velocity,snappy"`

	// Throughput is the number of resolved work items
	Throughput int32 `parquet:"throughput,snappy"`

	// CarryoverRate is the fraction of committed work left unfinished
	CarryoverRate float64 `parquet:"carryover_rate,snappy"`

	// DefectRatio is defects resolved over total items resolved
	DefectRatio float64 `parquet:"defect_ratio,snappy"`
}

// WriteForecastRunsParquet writes a slice of ForecastRun structs to a Parquet file.
func WriteForecastRunsParquet(data []ForecastRun, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteSprintKPIsParquet writes a slice of SprintKPIRow structs to a Parquet file.
func WriteSprintKPIsParquet(data []SprintKPIRow, outputPath string) error {
	return writeParquet(data, outputPath)
}

// writeParquet writes records to a Parquet file using struct schema inference.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is automatically derived from the struct tags
	writer := parquet.NewGenericWriter[T](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// ConvertForecastRunRecords converts schema.ForecastRunRecord to ForecastRun for Parquet export.
func ConvertForecastRunRecords(records []schema.ForecastRunRecord) []ForecastRun {
	result := make([]ForecastRun, len(records))
	for i, record := range records {
		result[i] = ForecastRun{
			RunID:         record.RunID,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.RunDurationMs,
			SampleSize:    record.SampleSize,
			Commitment:    record.Commitment,
			Iterations:    record.Iterations,
			Seed:          record.Seed,
			Probability:   record.Probability,
			ConfigParams:  record.ConfigParams,
		}
	}
	return result
}

// MockFetchForecastRuns generates sample ForecastRun data for demonstration.
func MockFetchForecastRuns() []ForecastRun {
	now := time.Now()
	startTime1 := now.Add(-2 * time.Hour)
	endTime1 := startTime1.Add(450 * time.Millisecond)
	durationMs1 := int32(endTime1.Sub(startTime1).Milliseconds())
	probability1 := 0.87
	configParams1 := `{"window":6,"commitment":25,"iterations":10000}`

	startTime2 := now.Add(-24 * time.Hour)
	endTime2 := startTime2.Add(1200 * time.Millisecond)
	durationMs2 := int32(endTime2.Sub(startTime2).Milliseconds())
	probability2 := 0.42
	configParams2 := `{"window":8,"commitment":34,"iterations":100000}`

	startTime3 := now.Add(-10 * time.Minute)
	// Note: endTime3, durationMs3, probability3 are nil to demonstrate nullable fields

	return []ForecastRun{
		{
			RunID:         1,
			StartTime:     startTime1,
			EndTime:       &endTime1,
			RunDurationMs: &durationMs1,
			SampleSize:    6,
			Commitment:    25,
			Iterations:    10000,
			Seed:          42,
			Probability:   &probability1,
			ConfigParams:  &configParams1,
		},
		{
			RunID:         2,
			StartTime:     startTime2,
			EndTime:       &endTime2,
			RunDurationMs: &durationMs2,
			SampleSize:    8,
			Commitment:    34,
			Iterations:    100000,
			Seed:          7,
			Probability:   &probability2,
			ConfigParams:  &configParams2,
		},
		{
			RunID:      3,
			StartTime:  startTime3,
			SampleSize: 6,
			Commitment: 25,
			Iterations: 10000,
			Seed:       42,
		},
	}
}

// MockFetchSprintKPIs generates sample SprintKPIRow data for demonstration.
func MockFetchSprintKPIs() []SprintKPIRow {
	return []SprintKPIRow{
		{
			SprintID:      "2026-S14",
			Velocity:      23,
			Throughput:    12,
			CarryoverRate: 0.08,
			DefectRatio:   0.17,
		},
		{
			SprintID:      "2026-S15",
			Velocity:      19,
			Throughput:    10,
			CarryoverRate: 0.21,
			DefectRatio:   0.10,
		},
		{
			SprintID:      "2026-S16",
			Velocity:      25,
			Throughput:    14,
			CarryoverRate: 0.0,
			DefectRatio:   0.07,
		},
	}
}

// ConvertSprintKPIs converts the per-sprint section of a KPI report to
// SprintKPIRow for Parquet export.
func ConvertSprintKPIs(sprints []schema.SprintKPI) []SprintKPIRow {
	result := make([]SprintKPIRow, len(sprints))
	for i, s := range sprints {
		result[i] = SprintKPIRow{
			SprintID:      s.SprintID,
			Velocity:      s.Velocity,
			Throughput:    int32(s.Throughput),
			CarryoverRate: s.CarryoverRate,
			DefectRatio:   s.DefectRatio,
		}
	}
	return result
}
