package iocache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sprintlab/sprintlens/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempDBPath(t *testing.T, name string) string {
	t.Helper()
	return filepath.Join(t.TempDir(), name)
}

// TestCacheStoreSQLiteRoundtrip tests Set/Get against a fresh SQLite store.
func TestCacheStoreSQLiteRoundtrip(t *testing.T) {
	store, err := NewCacheStore(resultsTable, schema.SQLiteBackend, tempDBPath(t, "cache.db"))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	ts := time.Now().Unix()
	require.NoError(t, store.Set("key1", []byte("value1"), 1, ts))

	value, version, gotTs, err := store.Get("key1")
	require.NoError(t, err)
	assert.Equal(t, []byte("value1"), value)
	assert.Equal(t, 1, version)
	assert.Equal(t, ts, gotTs)
}

// TestCacheStoreRewrite tests that Set on an existing key replaces the entry.
func TestCacheStoreRewrite(t *testing.T) {
	store, err := NewCacheStore(resultsTable, schema.SQLiteBackend, tempDBPath(t, "cache.db"))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	require.NoError(t, store.Set("key1", []byte("old"), 1, 100))
	require.NoError(t, store.Set("key1", []byte("new"), 2, 200))

	value, version, ts, err := store.Get("key1")
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), value)
	assert.Equal(t, 2, version)
	assert.Equal(t, int64(200), ts)
}

// TestCacheStoreMissingKey tests that unknown keys report an error.
func TestCacheStoreMissingKey(t *testing.T) {
	store, err := NewCacheStore(resultsTable, schema.SQLiteBackend, tempDBPath(t, "cache.db"))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	_, _, _, err = store.Get("missing")
	assert.Error(t, err)
}

// TestCacheStoreStatusAndClear tests status reporting and clearing entries.
func TestCacheStoreStatusAndClear(t *testing.T) {
	store, err := NewCacheStore(resultsTable, schema.SQLiteBackend, tempDBPath(t, "cache.db"))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	require.NoError(t, store.Set("key1", []byte("v1"), 1, 100))
	require.NoError(t, store.Set("key2", []byte("v2"), 1, 300))

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, string(schema.SQLiteBackend), status.Backend)
	assert.True(t, status.Connected)
	assert.Equal(t, 2, status.TotalEntries)
	assert.Equal(t, int64(300), status.LastEntryTime.Unix())
	assert.Equal(t, int64(100), status.OldestEntryTime.Unix())
	assert.Greater(t, status.TableSizeBytes, int64(0))

	require.NoError(t, store.Clear())
	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 0, status.TotalEntries)
}

// TestCacheStoreNoneBackend tests the no-op behavior of the disabled store.
func TestCacheStoreNoneBackend(t *testing.T) {
	store, err := NewCacheStore(resultsTable, schema.NoneBackend, "")
	require.NoError(t, err)

	assert.NoError(t, store.Set("key", []byte("v"), 1, 1))
	_, _, _, err = store.Get("key")
	assert.Error(t, err)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)

	assert.NoError(t, store.Clear())
	assert.NoError(t, store.Close())
}

// TestCacheStoreInvalidTableName tests SQL identifier validation.
func TestCacheStoreInvalidTableName(t *testing.T) {
	_, err := NewCacheStore("bad-name; DROP TABLE x", schema.SQLiteBackend, tempDBPath(t, "cache.db"))
	assert.Error(t, err)
}

// TestRunStoreLifecycle tests BeginRun/EndRun/ListRuns against SQLite.
func TestRunStoreLifecycle(t *testing.T) {
	store, err := NewRunStore(schema.SQLiteBackend, tempDBPath(t, "runs.db"))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	params := schema.SimulationParams{SampleSize: 6, Commitment: 21, Iterations: 10000, Seed: 42}
	start := time.Now()

	runID, err := store.BeginRun(start, params, map[string]any{"window": 6})
	require.NoError(t, err)
	assert.Greater(t, runID, int64(0))

	require.NoError(t, store.EndRun(runID, start.Add(50*time.Millisecond), 0.84))

	runs, err := store.ListRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)

	run := runs[0]
	assert.Equal(t, runID, run.RunID)
	assert.Equal(t, int32(6), run.SampleSize)
	assert.InDelta(t, 21.0, run.Commitment, 1e-9)
	assert.Equal(t, int32(10000), run.Iterations)
	assert.Equal(t, int64(42), run.Seed)
	require.NotNil(t, run.Probability)
	assert.InDelta(t, 0.84, *run.Probability, 1e-9)
	require.NotNil(t, run.EndTime)
	require.NotNil(t, run.RunDurationMs)
	assert.GreaterOrEqual(t, *run.RunDurationMs, int32(0))
	require.NotNil(t, run.ConfigParams)
	assert.Contains(t, *run.ConfigParams, "window")
}

// TestRunStoreUnfinishedRun tests that a run without EndRun keeps nullable
// fields empty.
func TestRunStoreUnfinishedRun(t *testing.T) {
	store, err := NewRunStore(schema.SQLiteBackend, tempDBPath(t, "runs.db"))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	params := schema.SimulationParams{SampleSize: 4, Commitment: 18, Iterations: 8000, Seed: 7}
	_, err = store.BeginRun(time.Now(), params, nil)
	require.NoError(t, err)

	runs, err := store.ListRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Nil(t, runs[0].EndTime)
	assert.Nil(t, runs[0].Probability)
	assert.Nil(t, runs[0].RunDurationMs)
}

// TestRunStoreStatusAndClear tests run store status reporting and clearing.
func TestRunStoreStatusAndClear(t *testing.T) {
	store, err := NewRunStore(schema.SQLiteBackend, tempDBPath(t, "runs.db"))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	params := schema.SimulationParams{SampleSize: 6, Commitment: 20, Iterations: 1000, Seed: 1}
	first, err := store.BeginRun(time.Now().Add(-time.Hour), params, nil)
	require.NoError(t, err)
	second, err := store.BeginRun(time.Now(), params, nil)
	require.NoError(t, err)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, 2, status.TotalRuns)
	assert.Equal(t, second, status.LastRunID)
	assert.True(t, status.OldestRunTime.Before(status.LastRunTime))
	_ = first

	require.NoError(t, store.Clear())
	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 0, status.TotalRuns)
}

// TestRunStoreNoneBackend tests the no-op behavior of disabled run tracking.
func TestRunStoreNoneBackend(t *testing.T) {
	store, err := NewRunStore(schema.NoneBackend, "")
	require.NoError(t, err)

	runID, err := store.BeginRun(time.Now(), schema.SimulationParams{}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), runID)

	assert.NoError(t, store.EndRun(0, time.Now(), 0.5))

	runs, err := store.ListRuns()
	require.NoError(t, err)
	assert.Nil(t, runs)
}

// TestMigrateRunsUpAndDown tests the embedded migrations against SQLite.
func TestMigrateRunsUpAndDown(t *testing.T) {
	dbPath := tempDBPath(t, "migrate.db")

	require.NoError(t, MigrateRuns(schema.SQLiteBackend, dbPath, -1))

	// A migrated database accepts run inserts
	store, err := NewRunStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	params := schema.SimulationParams{SampleSize: 3, Commitment: 10, Iterations: 100, Seed: 9}
	_, err = store.BeginRun(time.Now(), params, nil)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	require.NoError(t, MigrateRuns(schema.SQLiteBackend, dbPath, 0))
}

// TestMigrateRunsNoneBackend tests that migrations reject NoneBackend.
func TestMigrateRunsNoneBackend(t *testing.T) {
	assert.Error(t, MigrateRuns(schema.NoneBackend, "", -1))
}

// TestClearCacheSQLiteFile tests that clearing removes the database file.
func TestClearCacheSQLiteFile(t *testing.T) {
	dbPath := tempDBPath(t, "cache.db")

	store, err := NewCacheStore(resultsTable, schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Set("key", []byte("v"), 1, 1))
	require.NoError(t, store.Close())

	require.NoError(t, ClearCache(schema.SQLiteBackend, dbPath, ""))
	_, err = os.Stat(dbPath)
	assert.True(t, os.IsNotExist(err))

	// Clearing an already-missing file is not an error
	assert.NoError(t, ClearCache(schema.SQLiteBackend, dbPath, ""))
}

// TestClearCacheRequiresPath tests the SQLite path guard.
func TestClearCacheRequiresPath(t *testing.T) {
	assert.Error(t, ClearCache(schema.SQLiteBackend, "", ""))
	assert.Error(t, ClearRuns(schema.SQLiteBackend, "", ""))
	assert.NoError(t, ClearCache(schema.NoneBackend, "", ""))
	assert.NoError(t, ClearRuns(schema.NoneBackend, "", ""))
}

// TestInitStoresOnce tests that repeated initialization is a no-op.
func TestInitStoresOnce(t *testing.T) {
	cachePath := tempDBPath(t, "cache.db")
	runsPath := tempDBPath(t, "runs.db")

	err1 := InitStores(schema.SQLiteBackend, cachePath, schema.SQLiteBackend, runsPath)
	err2 := InitStores(schema.SQLiteBackend, cachePath, schema.SQLiteBackend, runsPath)

	assert.NoError(t, err1)
	assert.NoError(t, err2)
	assert.NotNil(t, Manager.GetResultStore())
	assert.NotNil(t, Manager.GetRunStore())

	CloseStores()
}
