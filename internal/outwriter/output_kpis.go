package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/sprintlab/sprintlens/internal/contract"
	"github.com/sprintlab/sprintlens/internal/parquet"
	"github.com/sprintlab/sprintlens/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintKPIReport outputs the KPI report, dispatching based on the output format configured.
func PrintKPIReport(report *schema.KPIReport, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, fmtOptFloat := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, report)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			csvWriter := csv.NewWriter(w)
			defer csvWriter.Flush()
			return writeKPICSV(csvWriter, report, fmtFloat)
		}, "Wrote CSV")
	case schema.ParquetOut:
		if cfg.OutputFile == "" {
			return fmt.Errorf("parquet output requires an output file path")
		}
		if err := parquet.WriteSprintKPIsParquet(parquet.ConvertSprintKPIs(report.Sprints), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		fmt.Printf("💾 Wrote %d sprint KPI rows to %s\n", len(report.Sprints), cfg.OutputFile)
		return nil
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeKPITable(report, cfg, fmtFloat, fmtOptFloat, duration, w)
		}, "Wrote table")
	}
}

// writeKPITable generates and writes the human-readable KPI table.
func writeKPITable(report *schema.KPIReport, cfg *contract.Config, fmtFloat func(float64) string, fmtOptFloat func(*float64) string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Sprint", "Velocity", "Throughput", "Carryover", "Defect Ratio"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	maxIDWidth := getMaxSprintIDWidth(cfg)
	var data [][]string
	for _, s := range report.Sprints {
		data = append(data, []string{
			contract.TruncateID(s.SprintID, maxIDWidth),
			fmtFloat(s.Velocity),
			strconv.Itoa(s.Throughput),
			fmtFloat(s.CarryoverRate),
			fmtFloat(s.DefectRatio),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(writer, "Rolling window: %d of %d requested sprints\n",
		report.EffectiveWindow, report.Window); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Velocity mean %s (CoV %s), throughput mean %s (CoV %s), carryover mean %s (CoV %s)\n",
		fmtFloat(report.VelocityRolling.Mean), fmtOptFloat(report.VelocityRolling.CoV),
		fmtFloat(report.ThroughputRolling.Mean), fmtOptFloat(report.ThroughputRolling.CoV),
		fmtFloat(report.CarryoverRolling.Mean), fmtOptFloat(report.CarryoverRolling.CoV)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Cycle time days: p50 %s, p85 %s, p95 %s\n",
		fmtOptFloat(report.CycleTime.P50), fmtOptFloat(report.CycleTime.P85), fmtOptFloat(report.CycleTime.P95)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Analysis completed in %v. Cache backend: %s\n", duration, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// writeKPICSV writes the per-sprint KPI rows in CSV format.
func writeKPICSV(w *csv.Writer, report *schema.KPIReport, fmtFloat func(float64) string) error {
	header := []string{
		"sprint_id",
		"velocity",
		"throughput",
		"carryover_rate",
		"defect_ratio",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, s := range report.Sprints {
		rec := []string{
			s.SprintID,
			fmtFloat(s.Velocity),
			strconv.Itoa(s.Throughput),
			fmtFloat(s.CarryoverRate),
			fmtFloat(s.DefectRatio),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}
