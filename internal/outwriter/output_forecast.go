package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/sprintlab/sprintlens/internal/contract"
	"github.com/sprintlab/sprintlens/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// forecastPayload is the combined JSON shape for a forecast invocation. Either
// section may be absent depending on the flags used.
type forecastPayload struct {
	Simulation *schema.SimulationResult `json:"simulation,omitempty"`
	Label      string                   `json:"label,omitempty"`
	Horizon    *schema.HorizonForecast  `json:"horizon,omitempty"`
	Insights   []schema.Insight         `json:"insights,omitempty"`
}

// PrintForecast outputs forecast results, dispatching based on the output format
// configured. The simulation result and the horizon forecast are each optional.
func PrintForecast(result *schema.SimulationResult, horizon *schema.HorizonForecast, insights []schema.Insight, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		payload := forecastPayload{
			Simulation: result,
			Horizon:    horizon,
			Insights:   insights,
		}
		if result != nil {
			payload.Label = contract.GetPlainForecastLabel(result.Probability)
		}
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, payload)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			csvWriter := csv.NewWriter(w)
			defer csvWriter.Flush()
			return writeForecastCSV(csvWriter, result, horizon, fmtFloat)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is not supported for forecasts; use 'runs export' for run history")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeForecastText(result, horizon, insights, cfg, fmtFloat, duration, w)
		}, "Wrote table")
	}
}

// writeForecastText generates and writes the human-readable forecast output.
func writeForecastText(result *schema.SimulationResult, horizon *schema.HorizonForecast, insights []schema.Insight, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	if result != nil {
		var label string
		if cfg.UseColors {
			label = contract.GetColorForecastLabel(result.Probability)
		} else {
			label = contract.GetPlainForecastLabel(result.Probability)
		}
		if _, err := fmt.Fprintf(writer, "Completion probability for %s units: %.1f%% (%s)\n",
			fmtFloat(result.Params.Commitment), result.Probability*100, label); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(writer, "Simulated velocity: mean %s, p10 %s, p50 %s, p90 %s over %d iterations (seed %d)\n",
			fmtFloat(result.Summary.Mean), fmtFloat(result.Summary.P10),
			fmtFloat(result.Summary.P50), fmtFloat(result.Summary.P90),
			result.Params.Iterations, result.Params.Seed); err != nil {
			return err
		}
	}

	if horizon != nil {
		if err := writeHorizonTable(horizon, fmtFloat, writer); err != nil {
			return err
		}
	}

	for _, insight := range insights {
		level := string(insight.Level)
		if cfg.UseColors {
			level = contract.GetColorInsightLevel(insight.Level)
		}
		if _, err := fmt.Fprintf(writer, "[%s] %s\n", level, insight.Message); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(writer, "Forecast completed in %v. Cache backend: %s\n", duration, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// writeHorizonTable renders the per-sprint forecast bands.
func writeHorizonTable(horizon *schema.HorizonForecast, fmtFloat func(float64) string, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Sprint", "P10", "P50", "Mean", "P90"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, step := range horizon.Steps {
		data = append(data, []string{
			fmt.Sprintf("+%d", step.Step),
			fmtFloat(step.P10),
			fmtFloat(step.P50),
			fmtFloat(step.Mean),
			fmtFloat(step.P90),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(writer, "Horizon of %d sprints over %d iterations (seed %d)\n",
		horizon.Horizon, horizon.Iterations, horizon.Seed)
	return err
}

// writeForecastCSV writes forecast results in CSV format. Commitment results
// and horizon steps share one table, distinguished by the kind column.
func writeForecastCSV(w *csv.Writer, result *schema.SimulationResult, horizon *schema.HorizonForecast, fmtFloat func(float64) string) error {
	header := []string{"kind", "step", "probability", "label", "mean", "p10", "p50", "p90"}
	if err := w.Write(header); err != nil {
		return err
	}
	if result != nil {
		rec := []string{
			"commitment",
			"0",
			fmtFloat(result.Probability),
			contract.GetPlainForecastLabel(result.Probability),
			fmtFloat(result.Summary.Mean),
			fmtFloat(result.Summary.P10),
			fmtFloat(result.Summary.P50),
			fmtFloat(result.Summary.P90),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	if horizon != nil {
		for _, step := range horizon.Steps {
			rec := []string{
				"horizon",
				strconv.Itoa(step.Step),
				"",
				"",
				fmtFloat(step.Mean),
				fmtFloat(step.P10),
				fmtFloat(step.P50),
				fmtFloat(step.P90),
			}
			if err := w.Write(rec); err != nil {
				return err
			}
		}
	}
	return nil
}
