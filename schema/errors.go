package schema

import (
	"fmt"
	"strings"
)

// SchemaError reports required columns missing from the input table.
type SchemaError struct {
	Missing []string // Canonical names of the absent columns
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}

// ValueRangeError reports an out-of-domain value in a specific cell, such as a
// negative count or a cell that does not parse as a number.
type ValueRangeError struct {
	Row    int    // 1-based data row index
	Column string // Canonical column name
	Value  string // Offending raw value
}

func (e *ValueRangeError) Error() string {
	return fmt.Sprintf("row %d: column %q has out-of-range value %q", e.Row, e.Column, e.Value)
}

// LogicalConsistencyError reports a cross-field invariant violation within a
// single row, such as more resolved defects than resolved issues.
type LogicalConsistencyError struct {
	Row    int
	Detail string
}

func (e *LogicalConsistencyError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Detail)
}

// OrderingError reports sprint identifiers that cannot be coerced into a
// total order, i.e. duplicates.
type OrderingError struct {
	SprintID string
}

func (e *OrderingError) Error() string {
	return fmt.Sprintf("duplicate sprint id %q", e.SprintID)
}

// InsufficientDataError reports an operation requested on data that cannot
// support it, such as a simulation with no velocity samples.
type InsufficientDataError struct {
	Reason string
}

func (e *InsufficientDataError) Error() string {
	return e.Reason
}

// InvalidParameterError reports a caller-supplied parameter outside its
// documented domain.
type InvalidParameterError struct {
	Param  string
	Value  string
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid %s %s: %s", e.Param, e.Value, e.Reason)
}
