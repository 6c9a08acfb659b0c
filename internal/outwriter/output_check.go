package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/sprintlab/sprintlens/internal/contract"
	"github.com/sprintlab/sprintlens/schema"
)

// checkSummary is the JSON shape for a validation summary.
type checkSummary struct {
	Sprints          int    `json:"sprints"`
	FirstSprint      string `json:"first_sprint,omitempty"`
	LastSprint       string `json:"last_sprint,omitempty"`
	CycleTimeSamples int    `json:"cycle_time_samples"`
	HasTimestamps    bool   `json:"has_timestamps"`
}

// PrintCheckSummary outputs a summary of a successfully validated dataset,
// dispatching based on the output format configured.
func PrintCheckSummary(history *schema.SprintHistory, cfg *contract.Config, duration time.Duration) error {
	summary := summarizeHistory(history)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, summary)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			csvWriter := csv.NewWriter(w)
			defer csvWriter.Flush()
			return writeCheckCSV(csvWriter, summary)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is not supported for validation summaries")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCheckText(summary, cfg, duration, w)
		}, "Wrote table")
	}
}

// summarizeHistory condenses a validated history into a printable summary.
func summarizeHistory(history *schema.SprintHistory) checkSummary {
	summary := checkSummary{Sprints: history.Len()}
	if history.Len() > 0 {
		summary.FirstSprint = history.Records[0].SprintID
		summary.LastSprint = history.Records[history.Len()-1].SprintID
	}
	for _, r := range history.Records {
		summary.CycleTimeSamples += len(r.CycleTimes)
		if r.SprintEnd != nil {
			summary.HasTimestamps = true
		}
	}
	return summary
}

// writeCheckText generates and writes the human-readable validation summary.
func writeCheckText(summary checkSummary, cfg *contract.Config, duration time.Duration, writer io.Writer) error {
	ok := "Dataset is valid"
	if cfg.UseColors {
		ok = contract.LikelyColor.Sprint(ok)
	}
	if _, err := fmt.Fprintf(writer, "%s: %d sprints (%s through %s)\n",
		ok, summary.Sprints, summary.FirstSprint, summary.LastSprint); err != nil {
		return err
	}
	timestamps := "absent"
	if summary.HasTimestamps {
		timestamps = "present"
	}
	if _, err := fmt.Fprintf(writer, "Cycle time samples: %d. Sprint timestamps: %s\n",
		summary.CycleTimeSamples, timestamps); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Validation completed in %v\n", duration); err != nil {
		return err
	}
	return nil
}

// writeCheckCSV writes the validation summary as key-value rows.
func writeCheckCSV(w *csv.Writer, summary checkSummary) error {
	rows := [][]string{
		{"field", "value"},
		{"sprints", strconv.Itoa(summary.Sprints)},
		{"first_sprint", summary.FirstSprint},
		{"last_sprint", summary.LastSprint},
		{"cycle_time_samples", strconv.Itoa(summary.CycleTimeSamples)},
		{"has_timestamps", strconv.FormatBool(summary.HasTimestamps)},
	}
	for _, rec := range rows {
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}
