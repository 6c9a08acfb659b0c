package outwriter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sprintlab/sprintlens/internal/contract"
	"golang.org/x/term"
)

// undefinedValue is printed where a metric is mathematically undefined.
const undefinedValue = "n/a"

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// createFormatters creates the common formatter closures used across multiple output types.
func createFormatters(precision int) (fmtFloat func(float64) string, fmtOptFloat func(*float64) string) {
	fmtFloat = func(v float64) string {
		return fmt.Sprintf("%.*f", precision, v)
	}
	fmtOptFloat = func(v *float64) string {
		if v == nil {
			return undefinedValue
		}
		return fmtFloat(*v)
	}
	return fmtFloat, fmtOptFloat
}

// getTerminalWidth resolves the output width, preferring the config override
// and falling back to a conservative default when detection fails.
func getTerminalWidth(cfg *contract.Config) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detectedWidth <= 0 {
		// Conservative default for narrow terminals and CI
		return 80
	}
	return detectedWidth
}

// getMaxSprintIDWidth calculates the space available for the sprint id column
// after reserving room for the numeric columns and table formatting.
func getMaxSprintIDWidth(cfg *contract.Config) int {
	// Velocity + Throughput + Carryover + Defect Ratio with borders/padding
	const baseWidth = 55

	available := getTerminalWidth(cfg) - baseWidth
	if available < 10 {
		return 10
	}
	if available > 40 {
		return 40
	}
	return available
}
