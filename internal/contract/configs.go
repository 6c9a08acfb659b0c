package contract

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sprintlab/sprintlens/schema"
)

// Default values for configuration.
const (
	DefaultWindow            = 6
	DefaultIterations        = 10000
	DefaultHorizon           = 3
	DefaultHorizonIterations = 8000
	DefaultSeed              = 42
	DefaultPrecision         = 2
	DefaultItemsPerPerson    = 5.0
	DefaultHighThreshold     = 0.10
	DefaultLowThreshold      = 0.25
	MaxIterations            = 10_000_000
)

// CommitmentUnset marks a commitment that was never requested. A commitment
// of exactly 0 is a real request (trivially met, probability 1), so absence
// needs its own sentinel.
const CommitmentUnset float64 = -1

// Config holds the runtime configuration for an analysis.
// This struct remains the "final, validated" config.
type Config struct {
	InputPath string // Path to the sprint dataset

	Window     int     // Rolling window size in sprints
	Commitment float64 // Work units pledged for the upcoming sprint
	Iterations int     // Monte Carlo trial count
	Seed       int64   // Pseudo-random seed for reproducible forecasts
	Horizon    int     // Future sprints for horizon forecasts (0 = single-commitment mode)

	ItemsPerPerson float64 // Assumed resolved items per person per sprint
	HighThreshold  float64 // Carryover CoV below which predictability is "high"
	LowThreshold   float64 // Carryover CoV above which predictability is "low"

	Output     schema.OutputMode
	OutputFile string
	Precision  int
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	RunsBackend   schema.DatabaseBackend
	RunsDBConnect string // Please use env var as this is plaintext
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	InputPathStr string

	Window         int     `mapstructure:"window"`
	Commitment     float64 `mapstructure:"commitment"`
	Iterations     int     `mapstructure:"iterations"`
	Seed           int64   `mapstructure:"seed"`
	Horizon        int     `mapstructure:"horizon"`
	ItemsPerPerson float64 `mapstructure:"items-per-person"`
	HighThreshold  float64 `mapstructure:"high-threshold"`
	LowThreshold   float64 `mapstructure:"low-threshold"`
	Output         string  `mapstructure:"output"`
	OutputFile     string  `mapstructure:"output-file"`
	Precision      int     `mapstructure:"precision"`
	Width          int     `mapstructure:"width"`
	Color          string  `mapstructure:"color"`
	CacheBackend   string  `mapstructure:"cache-backend"`
	CacheDBConnect string  `mapstructure:"cache-db-connect"`
	RunsBackend    string  `mapstructure:"runs-backend"`
	RunsDBConnect  string  `mapstructure:"runs-db-connect"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateAnalysisInputs(cfg, input); err != nil {
		return err
	}
	if err := validateOutputInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	cfg.InputPath = input.InputPathStr
	return nil
}

// validateAnalysisInputs checks the engine-facing parameters.
func validateAnalysisInputs(cfg *Config, input *ConfigRawInput) error {
	if input.Window <= 0 {
		return fmt.Errorf("window must be a positive integer, got %d", input.Window)
	}
	cfg.Window = input.Window

	if input.Commitment < 0 && input.Commitment != CommitmentUnset {
		return fmt.Errorf("commitment must be non-negative, got %g", input.Commitment)
	}
	cfg.Commitment = input.Commitment

	if input.Iterations <= 0 || input.Iterations > MaxIterations {
		return fmt.Errorf("iterations must be in [1, %d], got %d", MaxIterations, input.Iterations)
	}
	cfg.Iterations = input.Iterations

	if input.Horizon < 0 {
		return fmt.Errorf("horizon must be non-negative, got %d", input.Horizon)
	}
	cfg.Horizon = input.Horizon
	cfg.Seed = input.Seed

	if input.ItemsPerPerson <= 0 {
		return fmt.Errorf("items-per-person must be positive, got %g", input.ItemsPerPerson)
	}
	cfg.ItemsPerPerson = input.ItemsPerPerson

	if input.HighThreshold < 0 || input.LowThreshold < input.HighThreshold {
		return fmt.Errorf("predictability thresholds must satisfy 0 <= high-threshold <= low-threshold, got high=%g low=%g",
			input.HighThreshold, input.LowThreshold)
	}
	cfg.HighThreshold = input.HighThreshold
	cfg.LowThreshold = input.LowThreshold

	return nil
}

// validateOutputInputs checks the presentation-facing parameters.
func validateOutputInputs(cfg *Config, input *ConfigRawInput) error {
	out := schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[out]; !ok {
		return fmt.Errorf("invalid output mode '%s'. must be text, csv, json, or parquet", input.Output)
	}
	cfg.Output = out
	cfg.OutputFile = input.OutputFile

	precision := input.Precision
	if precision < 1 {
		precision = 1
	}
	if precision > 4 {
		precision = 4
	}
	cfg.Precision = precision
	cfg.Width = input.Width

	useColors, err := parseBoolFlexible(input.Color)
	if err != nil {
		return fmt.Errorf("invalid color flag '%s': %w", input.Color, err)
	}
	cfg.UseColors = useColors

	return nil
}

// validateBackendConfigs validates cache and run store backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	cfg.RunsBackend = schema.DatabaseBackend(strings.ToLower(input.RunsBackend))
	if input.RunsBackend == "" {
		cfg.RunsBackend = schema.NoneBackend
	} else if _, ok := schema.ValidDatabaseBackends[cfg.RunsBackend]; !ok {
		return fmt.Errorf("invalid runs backend '%s'. must be sqlite, mysql, postgresql, none", input.RunsBackend)
	}
	cfg.RunsDBConnect = input.RunsDBConnect
	if err := ValidateDatabaseConnectionString(cfg.RunsBackend, cfg.RunsDBConnect); err != nil {
		return err
	}

	if cfg.CacheBackend != schema.SQLiteBackend && cfg.CacheBackend != schema.NoneBackend &&
		cfg.CacheBackend == cfg.RunsBackend && cfg.CacheDBConnect == cfg.RunsDBConnect && cfg.CacheDBConnect != "" {
		return fmt.Errorf("cache-db-connect and runs-db-connect must differ when both use the %s backend", cfg.CacheBackend)
	}

	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection
// strings for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("db connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("db connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// parseBoolFlexible accepts yes/no style values alongside standard booleans.
func parseBoolFlexible(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "yes", "y", "on":
		return true, nil
	case "no", "n", "off":
		return false, nil
	case "":
		return true, nil
	}
	return strconv.ParseBool(value)
}
