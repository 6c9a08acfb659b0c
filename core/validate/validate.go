// Package validate is the boundary contract between arbitrary tabular input
// and the analysis engines. It checks the required column set and per-row
// value constraints in a single pass, coerces sprint ids into a total order,
// and returns a fresh immutable history. It never repairs malformed input on
// the caller's behalf.
package validate

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sprintlab/sprintlens/schema"
)

// Accepted layouts for optional sprint timestamps.
var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// Validate checks table against the required column set and value constraints
// and returns the records as an ordered SprintHistory. Errors are typed:
// *schema.SchemaError for missing columns, *schema.ValueRangeError for
// out-of-domain cells, *schema.LogicalConsistencyError for cross-field
// violations and *schema.OrderingError for duplicate sprint ids.
func Validate(table *schema.RawTable) (*schema.SprintHistory, error) {
	cols, err := resolveColumns(table)
	if err != nil {
		return nil, err
	}

	records := make([]schema.SprintRecord, 0, len(table.Rows))
	for i, row := range table.Rows {
		rec, err := parseRow(row, cols, i+1)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := orderRecords(records); err != nil {
		return nil, err
	}

	return &schema.SprintHistory{Records: records}, nil
}

// columnIndexes maps each canonical column to its position in the header.
// Optional columns may be -1; required ones are guaranteed by resolveColumns.
type columnIndexes struct {
	sprintID    int
	committed   int
	completed   int
	defects     int
	issues      int
	cycleTimes  int
	sprintStart int
	sprintEnd   int
}

// resolveColumns locates every canonical column and fails with a SchemaError
// naming all missing required columns at once.
func resolveColumns(table *schema.RawTable) (*columnIndexes, error) {
	var missing []string
	for _, name := range schema.RequiredColumns {
		if table.ColumnIndex(name) < 0 {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &schema.SchemaError{Missing: missing}
	}

	return &columnIndexes{
		sprintID:    table.ColumnIndex(schema.ColSprintID),
		committed:   table.ColumnIndex(schema.ColCommitted),
		completed:   table.ColumnIndex(schema.ColCompleted),
		defects:     table.ColumnIndex(schema.ColDefectsResolved),
		issues:      table.ColumnIndex(schema.ColIssuesResolved),
		cycleTimes:  table.ColumnIndex(schema.ColCycleTimes),
		sprintStart: table.ColumnIndex(schema.ColSprintStart),
		sprintEnd:   table.ColumnIndex(schema.ColSprintEnd),
	}, nil
}

// parseRow converts one raw row into a SprintRecord, checking every value
// constraint as it goes.
func parseRow(row []string, cols *columnIndexes, rowNum int) (schema.SprintRecord, error) {
	var rec schema.SprintRecord

	rec.SprintID = strings.TrimSpace(cell(row, cols.sprintID))
	if rec.SprintID == "" {
		return rec, &schema.ValueRangeError{Row: rowNum, Column: schema.ColSprintID, Value: ""}
	}

	var err error
	if rec.Committed, err = parseNonNegative(row, cols.committed, schema.ColCommitted, rowNum); err != nil {
		return rec, err
	}
	if rec.Completed, err = parseNonNegative(row, cols.completed, schema.ColCompleted, rowNum); err != nil {
		return rec, err
	}
	if rec.DefectsResolved, err = parseCount(row, cols.defects, schema.ColDefectsResolved, rowNum); err != nil {
		return rec, err
	}
	if rec.IssuesResolved, err = parseCount(row, cols.issues, schema.ColIssuesResolved, rowNum); err != nil {
		return rec, err
	}

	if rec.DefectsResolved > rec.IssuesResolved {
		return rec, &schema.LogicalConsistencyError{
			Row:    rowNum,
			Detail: fmt.Sprintf("defects_resolved %d exceeds issues_resolved %d", rec.DefectsResolved, rec.IssuesResolved),
		}
	}

	if rec.CycleTimes, err = parseCycleTimes(cell(row, cols.cycleTimes), rowNum); err != nil {
		return rec, err
	}

	if rec.SprintStart, err = parseOptionalDate(row, cols.sprintStart, schema.ColSprintStart, rowNum); err != nil {
		return rec, err
	}
	if rec.SprintEnd, err = parseOptionalDate(row, cols.sprintEnd, schema.ColSprintEnd, rowNum); err != nil {
		return rec, err
	}

	return rec, nil
}

// orderRecords sorts records by sprint id ascending, numerically when every
// id parses as an integer and lexically otherwise, and rejects duplicates.
func orderRecords(records []schema.SprintRecord) error {
	numeric := true
	nums := make(map[string]int64, len(records))
	for _, r := range records {
		n, err := strconv.ParseInt(r.SprintID, 10, 64)
		if err != nil {
			numeric = false
			break
		}
		nums[r.SprintID] = n
	}

	sort.SliceStable(records, func(i, j int) bool {
		if numeric {
			return nums[records[i].SprintID] < nums[records[j].SprintID]
		}
		return records[i].SprintID < records[j].SprintID
	})

	for i := 1; i < len(records); i++ {
		if records[i].SprintID == records[i-1].SprintID {
			return &schema.OrderingError{SprintID: records[i].SprintID}
		}
	}
	return nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// parseNonNegative parses a cell as a non-negative float.
func parseNonNegative(row []string, idx int, column string, rowNum int) (float64, error) {
	raw := strings.TrimSpace(cell(row, idx))
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return 0, &schema.ValueRangeError{Row: rowNum, Column: column, Value: raw}
	}
	return v, nil
}

// parseCount parses a cell as a non-negative integer count. Fractional values
// are rejected rather than rounded.
func parseCount(row []string, idx int, column string, rowNum int) (int, error) {
	raw := strings.TrimSpace(cell(row, idx))
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 || v != float64(int64(v)) {
		return 0, &schema.ValueRangeError{Row: rowNum, Column: column, Value: raw}
	}
	return int(v), nil
}

// parseCycleTimes splits a semicolon-separated list of day durations. An
// empty cell yields an empty sample set, which is legal.
func parseCycleTimes(raw string, rowNum int) ([]float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ";")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil || v < 0 {
			return nil, &schema.ValueRangeError{Row: rowNum, Column: schema.ColCycleTimes, Value: p}
		}
		out = append(out, v)
	}
	return out, nil
}

// parseOptionalDate parses an optional timestamp cell. Absent columns and
// empty cells are fine; a non-empty cell that fails every layout is not.
func parseOptionalDate(row []string, idx int, column string, rowNum int) (*time.Time, error) {
	if idx < 0 {
		return nil, nil
	}
	raw := strings.TrimSpace(cell(row, idx))
	if raw == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, &schema.ValueRangeError{Row: rowNum, Column: column, Value: raw}
}
