// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"time"

	"github.com/sprintlab/sprintlens/schema"
)

// CacheManager defines the interface for managing the memoization and run
// stores. This allows the persistence layer to be mocked for testing.
type CacheManager interface {
	GetResultStore() CacheStore
	GetRunStore() RunStore
}

// CacheStore defines the interface for memoized result storage. Keys are
// content hashes of the inputs that produced a result, so the engines stay
// stateless and the determinism contract stays auditable.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Clear() error
	Close() error
}

// RunStore defines the interface for tracking forecast runs.
type RunStore interface {
	// BeginRun creates a new forecast run and returns its unique ID.
	BeginRun(startTime time.Time, params schema.SimulationParams, configParams map[string]any) (int64, error)

	// EndRun updates the run with its completion time and probability estimate.
	EndRun(runID int64, endTime time.Time, probability float64) error

	// ListRuns returns all recorded runs, oldest first.
	ListRuns() ([]schema.ForecastRunRecord, error)

	// GetStatus returns status information about the run store.
	GetStatus() (schema.RunStatus, error)

	// Clear removes all recorded runs.
	Clear() error

	// Close closes the underlying connection.
	Close() error
}
