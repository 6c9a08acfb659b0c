package contract

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/sprintlab/sprintlens/schema"
)

// Forecast confidence label constants.
const (
	LikelyValue   = "Likely"   // Commitment is very probably met
	PossibleValue = "Possible" // Better-than-even odds
	AtRiskValue   = "At Risk"  // Meaningful chance of a miss
	UnlikelyValue = "Unlikely" // Commitment is probably missed
)

// Color variables for console output.
var (
	LikelyColor   = color.New(color.FgGreen, color.Bold)   // likelyColor signals a safe commitment.
	PossibleColor = color.New(color.FgYellow)              // possibleColor signals caution, not bold.
	AtRiskColor   = color.New(color.FgMagenta, color.Bold) // atRiskColor signals a strong, distinct warning.
	UnlikelyColor = color.New(color.FgRed, color.Bold)     // unlikelyColor signals standard danger.

	successColor = color.New(color.FgGreen)
	infoColor    = color.New(color.FgCyan)
	warningColor = color.New(color.FgYellow)
)

// GetPlainForecastLabel returns a plain text label for a completion
// probability. This is the core logic used for CSV, JSON, and table printing.
func GetPlainForecastLabel(probability float64) string {
	switch {
	case probability >= 0.85:
		return LikelyValue
	case probability >= 0.5:
		return PossibleValue
	case probability >= 0.25:
		return AtRiskValue
	default:
		return UnlikelyValue
	}
}

// GetColorForecastLabel returns a colored text label for console output.
// It uses GetPlainForecastLabel to determine the string, then applies the
// appropriate color.
func GetColorForecastLabel(probability float64) string {
	text := GetPlainForecastLabel(probability)

	switch text {
	case LikelyValue:
		return LikelyColor.Sprint(text)
	case PossibleValue:
		return PossibleColor.Sprint(text)
	case AtRiskValue:
		return AtRiskColor.Sprint(text)
	default: // "Unlikely"
		return UnlikelyColor.Sprint(text)
	}
}

// GetColorPredictabilityLabel colors a predictability label for table output.
func GetColorPredictabilityLabel(label schema.PredictabilityLabel) string {
	switch label {
	case schema.HighPredictability:
		return LikelyColor.Sprint(string(label))
	case schema.MediumPredictability:
		return PossibleColor.Sprint(string(label))
	default:
		return UnlikelyColor.Sprint(string(label))
	}
}

// GetColorInsightLevel colors an insight level marker for console output.
func GetColorInsightLevel(level schema.InsightLevel) string {
	switch level {
	case schema.SuccessInsight:
		return successColor.Sprint(string(level))
	case schema.WarningInsight:
		return warningColor.Sprint(string(level))
	default:
		return infoColor.Sprint(string(level))
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. It falls back to os.Stdout when the path is empty.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for memoized results.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".sprintlens_cache.db"
	}
	return filepath.Join(homeDir, ".sprintlens_cache.db")
}

// GetRunsDBFilePath returns the path to the SQLite DB file for forecast run tracking.
func GetRunsDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".sprintlens_runs.db"
	}
	return filepath.Join(homeDir, ".sprintlens_runs.db")
}

// TruncateID shortens an identifier to fit within maxWidth characters,
// keeping the leading part since sprint ids differ at the end.
func TruncateID(id string, maxWidth int) string {
	runes := []rune(id)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return id
}

// ProfileConfig holds profiling configuration.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// ProcessProfilingConfig enables profiling when a non-empty prefix is given.
func ProcessProfilingConfig(profile *ProfileConfig, prefix string) error {
	if prefix == "" {
		return nil
	}
	profile.Enabled = true
	profile.Prefix = prefix
	return nil
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warning %s: %v\n", msg, err)
}
