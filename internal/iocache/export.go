package iocache

import (
	"errors"
	"fmt"

	"github.com/sprintlab/sprintlens/internal/parquet"
)

// ExecuteRunsExport performs the actual export of recorded forecast runs to a
// Parquet file.
func ExecuteRunsExport(outputFile string) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	// Get the run store
	store := Manager.GetRunStore()
	if store == nil {
		return errors.New("run tracking is not configured")
	}

	// Check if there's any data to export
	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get run store status: %w", err)
	}

	if status.TotalRuns == 0 {
		return errors.New("no forecast runs found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total forecast runs: %d\n", status.TotalRuns)

	// Retrieve all forecast runs
	runs, err := store.ListRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve forecast runs: %w", err)
	}

	// Convert to Parquet format and write
	parquetRuns := parquet.ConvertForecastRunRecords(runs)

	runsFile := outputFile + ".forecast_runs.parquet"
	if err := parquet.WriteForecastRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write forecast runs: %w", err)
	}
	fmt.Printf("Exported %d forecast runs to: %s\n", len(parquetRuns), runsFile)

	return nil
}
