package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/sprintlab/sprintlens/core"
	"github.com/sprintlab/sprintlens/internal/contract"
)

// forecastCmd runs Monte Carlo forecasts against sprint history.
var forecastCmd = &cobra.Command{
	Use:   "forecast <dataset-path>",
	Short: "Estimate completion probability and future velocity bands.",
	Long: `Run Monte Carlo resampling of historical velocity to answer two questions:

1. How likely is the team to meet a given commitment next sprint? (--commitment)
2. What velocity range should we expect over the next N sprints? (--horizon)

Both forecasts draw from the trailing window of completed work and are fully
deterministic for a given seed, so results are reproducible and auditable.

Examples:
  # Probability of completing 25 work units next sprint
  sprintlens forecast sprints.csv --commitment 25

  # Velocity bands for the next 3 sprints
  sprintlens forecast sprints.csv --horizon 3

  # Both in one run, with a fixed seed and more iterations
  sprintlens forecast sprints.csv --commitment 25 --horizon 3 --seed 7 --iterations 100000

  # Track runs in SQLite for later export
  sprintlens forecast sprints.csv --commitment 25 --runs-backend sqlite`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := sharedSetup(rootCtx, cmd, args); err != nil {
			return err
		}
		if cfg.Commitment == contract.CommitmentUnset && cfg.Horizon <= 0 {
			return fmt.Errorf("at least one of --commitment or --horizon is required")
		}
		return nil
	},
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteForecast(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run forecast", err)
		}
	},
}
