// Package schema has configs, models and shared types for all parts of sprintlens.
package schema

import "time"

// SprintRecord represents the observed outcome of a single completed sprint.
// It includes planned and completed scope, defect counts, and cycle-time
// samples for the items resolved during the sprint.
type SprintRecord struct {
	SprintID        string     // Ordered, unique sprint identifier
	Committed       float64    // Work units planned at sprint start
	Completed       float64    // Work units finished by sprint end (may exceed Committed)
	DefectsResolved int        // Defect-type items resolved in the sprint
	IssuesResolved  int        // Total items resolved in the sprint
	CycleTimes      []float64  // Days from work-start to resolution per resolved item, possibly empty
	SprintStart     *time.Time // Sprint window start, if the dataset carries timestamps
	SprintEnd       *time.Time // Sprint window end, if the dataset carries timestamps
}

// SprintHistory is an ordered sequence of sprint records, sorted by sprint id
// ascending with no duplicates. It is constructed once per analysis session by
// the validator and treated as read-only by every engine afterwards.
type SprintHistory struct {
	Records []SprintRecord
}

// Len returns the number of sprints in the history.
func (h *SprintHistory) Len() int {
	return len(h.Records)
}

// Velocities returns the per-sprint velocity series (completed work units),
// ordered oldest to newest.
func (h *SprintHistory) Velocities() []float64 {
	out := make([]float64, len(h.Records))
	for i, r := range h.Records {
		out[i] = r.Completed
	}
	return out
}

// Throughputs returns the per-sprint throughput series (resolved item counts),
// ordered oldest to newest.
func (h *SprintHistory) Throughputs() []float64 {
	out := make([]float64, len(h.Records))
	for i, r := range h.Records {
		out[i] = float64(r.IssuesResolved)
	}
	return out
}

// RawTable is a parsed tabular dataset with canonical column names. The
// ingestion layer produces it from an uploaded file; the validator is the only
// gate between a RawTable and the engines.
type RawTable struct {
	Header []string   // Canonical column names
	Rows   [][]string // Cell values as strings, one slice per data row
}

// ColumnIndex returns the position of the named column, or -1 when absent.
func (t *RawTable) ColumnIndex(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Canonical column names for sprint datasets.
const (
	ColSprintID        = "sprint_id"
	ColCommitted       = "committed"
	ColCompleted       = "completed"
	ColDefectsResolved = "defects_resolved"
	ColIssuesResolved  = "issues_resolved"
	ColCycleTimes      = "cycle_times"
	ColSprintStart     = "sprint_start"
	ColSprintEnd       = "sprint_end"
)

// RequiredColumns lists the columns every dataset must carry.
var RequiredColumns = []string{
	ColSprintID,
	ColCommitted,
	ColCompleted,
	ColDefectsResolved,
	ColIssuesResolved,
	ColCycleTimes,
}

// OptionalColumns lists the columns a dataset may carry.
var OptionalColumns = []string{
	ColSprintStart,
	ColSprintEnd,
}
