// Package ingest reads sprint datasets from CSV files and maps exported
// headers onto the canonical column names the validator expects. It owns all
// file I/O; the analysis engines only ever see an already-parsed table.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/sprintlab/sprintlens/schema"
)

// headerSynonyms maps each canonical column to the header spellings commonly
// seen across tracker exports.
var headerSynonyms = map[string][]string{
	schema.ColSprintID:        {"sprint", "sprint id", "sprint key", "sprint name", "iteration"},
	schema.ColCommitted:       {"committed", "committed points", "planned", "planned points", "commitment", "planned scope"},
	schema.ColCompleted:       {"completed", "completed points", "done", "done points", "velocity", "delivered"},
	schema.ColDefectsResolved: {"defects resolved", "defects", "bugs resolved", "bugs", "defect count"},
	schema.ColIssuesResolved:  {"issues resolved", "issues", "resolved", "resolved issues", "throughput", "items resolved"},
	schema.ColCycleTimes:      {"cycle times", "cycle time days", "cycle time", "lead times"},
	schema.ColSprintStart:     {"sprint start", "start", "start date", "sprint start date", "iteration start"},
	schema.ColSprintEnd:       {"sprint end", "end", "end date", "sprint end date", "iteration end"},
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// normalizeHeader lowercases a header and collapses punctuation to single
// spaces so "Sprint-ID" and "sprint_id" compare equal.
func normalizeHeader(s string) string {
	return strings.TrimSpace(nonAlnum.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), " "))
}

// InferMapping returns a best-effort mapping from canonical column names to
// source header names. Canonical names map to themselves; otherwise the first
// synonym hit wins. Unmapped columns are absent from the result.
func InferMapping(header []string) map[string]string {
	normalized := make(map[string]string, len(header)) // normalized -> original
	for _, h := range header {
		n := normalizeHeader(h)
		if _, exists := normalized[n]; !exists {
			normalized[n] = h
		}
	}

	mapping := make(map[string]string)
	for _, target := range append(append([]string{}, schema.RequiredColumns...), schema.OptionalColumns...) {
		candidates := append([]string{target}, headerSynonyms[target]...)
		for _, c := range candidates {
			if src, ok := normalized[normalizeHeader(c)]; ok {
				mapping[target] = src
				break
			}
		}
	}
	return mapping
}

// ReadCSV reads a CSV dataset from path and returns it with canonical column
// names applied. Columns that map to no canonical name are dropped; missing
// required columns are left for the validator to report, so all schema
// failures surface through one error type.
func ReadCSV(path string) (*schema.RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer func() { _ = f.Close() }()

	return readTable(f)
}

// readTable parses CSV content from r into a canonical RawTable.
func readTable(r io.Reader) (*schema.RawTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // ragged rows surface as validation errors, not parse aborts
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("dataset is empty")
	}

	srcHeader := rows[0]
	mapping := InferMapping(srcHeader)

	// Build the canonical header and the source column index for each kept column.
	var header []string
	var srcIdx []int
	for _, target := range append(append([]string{}, schema.RequiredColumns...), schema.OptionalColumns...) {
		src, ok := mapping[target]
		if !ok {
			continue
		}
		for i, h := range srcHeader {
			if h == src {
				header = append(header, target)
				srcIdx = append(srcIdx, i)
				break
			}
		}
	}

	table := &schema.RawTable{Header: header, Rows: make([][]string, 0, len(rows)-1)}
	for _, src := range rows[1:] {
		row := make([]string, len(header))
		for j, idx := range srcIdx {
			if idx < len(src) {
				row[j] = src[idx]
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}
