package cmd

import (
	"github.com/spf13/cobra"
	"github.com/sprintlab/sprintlens/core"
	"github.com/sprintlab/sprintlens/internal/contract"
)

// kpisCmd computes sprint KPIs from a dataset.
var kpisCmd = &cobra.Command{
	Use:   "kpis <dataset-path>",
	Short: "Compute sprint KPIs from a sprint dataset.",
	Long: `Validate a sprint dataset and compute per-sprint and rolling KPIs.

Per-sprint metrics:
- Velocity (completed work units)
- Throughput (resolved item count)
- Carryover rate (fraction of committed work not completed)
- Defect ratio (resolved defects over resolved items)

Rolling metrics over the trailing window:
- Mean and coefficient of variation for velocity, throughput, and carryover
- Cycle time percentiles (p50, p85, p95) over pooled samples

Examples:
  # Compute KPIs over the default 6-sprint window
  sprintlens kpis sprints.csv

  # Use a longer window and export to JSON
  sprintlens kpis sprints.csv --window 12 --output json --output-file kpis.json

  # Export per-sprint rows to Parquet for DuckDB/pandas
  sprintlens kpis sprints.csv --output parquet --output-file kpis.parquet`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteKPIs(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot compute KPIs", err)
		}
	},
}
