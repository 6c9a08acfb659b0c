package cmd

import (
	"github.com/spf13/cobra"
	"github.com/sprintlab/sprintlens/core"
	"github.com/sprintlab/sprintlens/internal/contract"
)

// profileCmd infers team characteristics from sprint history.
var profileCmd = &cobra.Command{
	Use:   "profile <dataset-path>",
	Short: "Infer team cadence, size, and predictability from sprint history.",
	Long: `Derive a qualitative team profile from already-computed KPIs.

The profile includes:
- Sprint cadence from the median gap between sprint end dates
- Approximate team size from throughput and an items-per-person assumption
- Average velocity with its coefficient of variation
- A predictability label from carryover stability
- Short insight messages about velocity trend and forecast reliability

Team size is always reported with low confidence: the items-per-person
assumption cannot be validated from the dataset alone.

Examples:
  # Infer a profile with defaults
  sprintlens profile sprints.csv

  # Assume a team that resolves 8 items per person per sprint
  sprintlens profile sprints.csv --items-per-person 8

  # Export the profile as JSON
  sprintlens profile sprints.csv --output json --output-file profile.json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteProfile(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot infer team profile", err)
		}
	},
}
