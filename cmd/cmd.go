// Package cmd defines the command-line interface for sprintlens.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/sprintlab/sprintlens/internal/contract"
	"github.com/sprintlab/sprintlens/schema"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(kpisCmd)
	rootCmd.AddCommand(forecastCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(runsCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the runs subcommands to the parent runs command
	runsCmd.AddCommand(runsClearCmd)
	runsCmd.AddCommand(runsStatusCmd)
	runsCmd.AddCommand(runsExportCmd)
	runsCmd.AddCommand(runsMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().IntP("window", "w", contract.DefaultWindow, "Rolling window size in sprints")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("runs-backend", "", "Run tracking backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("runs-db-connect", "", "Database connection string for run tracking (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of forecastCmd to Viper
	forecastCmd.Flags().Float64P("commitment", "c", contract.CommitmentUnset, "Work units pledged for the upcoming sprint (0 is a valid, trivially met commitment)")
	forecastCmd.Flags().IntP("iterations", "i", contract.DefaultIterations, "Monte Carlo trial count")
	forecastCmd.Flags().Int64("seed", contract.DefaultSeed, "Pseudo-random seed for reproducible forecasts")
	forecastCmd.Flags().Int("horizon", 0, "Number of future sprints to forecast velocity bands for")
	if err := viper.BindPFlags(forecastCmd.Flags()); err != nil {
		contract.LogFatal("Error binding forecast flags", err)
	}

	// Bind all flags of profileCmd to Viper
	profileCmd.Flags().Float64("items-per-person", contract.DefaultItemsPerPerson, "Assumed resolved items per person per sprint")
	profileCmd.Flags().Float64("high-threshold", contract.DefaultHighThreshold, "Carryover CoV below which predictability is high")
	profileCmd.Flags().Float64("low-threshold", contract.DefaultLowThreshold, "Carryover CoV above which predictability is low")
	if err := viper.BindPFlags(profileCmd.Flags()); err != nil {
		contract.LogFatal("Error binding profile flags", err)
	}

	// Bind all flags of runsMigrateCmd to Viper
	runsMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(runsMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding runs migrate flags", err)
	}
}
