package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/sprintlab/sprintlens/internal/contract"
	"github.com/sprintlab/sprintlens/schema"
)

// PrintProfile outputs the team profile, dispatching based on the output format configured.
func PrintProfile(profile *schema.TeamProfile, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, fmtOptFloat := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, profile)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			csvWriter := csv.NewWriter(w)
			defer csvWriter.Flush()
			return writeProfileCSV(csvWriter, profile, fmtFloat, fmtOptFloat)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is not supported for team profiles")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeProfileText(profile, cfg, fmtFloat, fmtOptFloat, duration, w)
		}, "Wrote table")
	}
}

// writeProfileText generates and writes the human-readable profile output.
func writeProfileText(profile *schema.TeamProfile, cfg *contract.Config, fmtFloat func(float64) string, fmtOptFloat func(*float64) string, duration time.Duration, writer io.Writer) error {
	predictability := string(profile.Predictability)
	if cfg.UseColors {
		predictability = contract.GetColorPredictabilityLabel(profile.Predictability)
	}

	lines := []string{
		fmt.Sprintf("Cadence:         %s", profile.Cadence),
		fmt.Sprintf("Team size:       ~%s people (%s confidence)", fmtFloat(profile.TeamSize), profile.TeamSizeConfidence),
		fmt.Sprintf("Avg velocity:    %s (CoV %s)", fmtFloat(profile.AvgVelocity), fmtOptFloat(profile.VelocityCoV)),
		fmt.Sprintf("Predictability:  %s", predictability),
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(writer, line); err != nil {
			return err
		}
	}

	for _, insight := range profile.Insights {
		level := string(insight.Level)
		if cfg.UseColors {
			level = contract.GetColorInsightLevel(insight.Level)
		}
		if _, err := fmt.Fprintf(writer, "[%s] %s\n", level, insight.Message); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(writer, "Profile completed in %v. Cache backend: %s\n", duration, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// writeProfileCSV writes the profile as key-value rows.
func writeProfileCSV(w *csv.Writer, profile *schema.TeamProfile, fmtFloat func(float64) string, fmtOptFloat func(*float64) string) error {
	if err := w.Write([]string{"field", "value"}); err != nil {
		return err
	}
	rows := [][]string{
		{"cadence", profile.Cadence},
		{"team_size", fmtFloat(profile.TeamSize)},
		{"team_size_confidence", profile.TeamSizeConfidence},
		{"avg_velocity", fmtFloat(profile.AvgVelocity)},
		{"velocity_cov", fmtOptFloat(profile.VelocityCoV)},
		{"predictability", string(profile.Predictability)},
	}
	for _, insight := range profile.Insights {
		rows = append(rows, []string{fmt.Sprintf("insight_%s", insight.Level), insight.Message})
	}
	for _, rec := range rows {
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}
