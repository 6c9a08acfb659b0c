package cmd

import (
	"github.com/spf13/cobra"
	"github.com/sprintlab/sprintlens/core"
	"github.com/sprintlab/sprintlens/internal/contract"
)

// checkCmd validates a sprint dataset without computing analytics.
var checkCmd = &cobra.Command{
	Use:   "check <dataset-path>",
	Short: "Validate a sprint dataset without running any analytics.",
	Long: `Parse and validate a sprint dataset, reporting exactly what was accepted.

Validation enforces:
- All required columns are present (extra columns are ignored)
- Numeric fields parse and are non-negative
- Sprint ids are unique; records are ordered by sprint id
- Cycle time samples are non-negative
- Timestamps, when present, parse as dates

The first violation is reported with its row and column so datasets can be
fixed incrementally. Exits non-zero when the dataset is rejected, which makes
this suitable for CI gating of exported sprint data.

Examples:
  # Validate before running analytics
  sprintlens check sprints.csv

  # Machine-readable summary for pipelines
  sprintlens check sprints.csv --output json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCheck(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Dataset validation failed", err)
		}
	},
}
