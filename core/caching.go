package core

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sprintlab/sprintlens/core/forecast"
	"github.com/sprintlab/sprintlens/core/kpi"
	"github.com/sprintlab/sprintlens/internal/contract"
	"github.com/sprintlab/sprintlens/schema"
)

// currentCacheVersion defines the version of the cache schema
const currentCacheVersion = 1

// cachedComputeKPIs memoizes KPI computation keyed by history content and
// window. Results are keyed on input content, so edits to the source file
// invalidate naturally.
func cachedComputeKPIs(history *schema.SprintHistory, window int, mgr contract.CacheManager) (*schema.KPIReport, error) {
	store := mgr.GetResultStore()
	if store == nil {
		// Fallback to direct computation
		return kpi.Compute(history, window)
	}

	key := generateKPICacheKey(history, window)

	if data := checkCacheHit(store, key); data != nil {
		var report schema.KPIReport
		if err := json.Unmarshal(data, &report); err == nil {
			return &report, nil
		}
	}

	// Cache miss: compute and store
	report, err := kpi.Compute(history, window)
	if err != nil {
		return nil, err
	}
	storeResult(store, key, report)
	return report, nil
}

// cachedSimulate memoizes a completion-probability simulation. The key covers
// every input that determines the draw sequence, so a hit is bit-identical to
// a fresh run.
func cachedSimulate(samples []float64, commitment float64, iterations int, seed int64, mgr contract.CacheManager) (*schema.SimulationResult, error) {
	store := mgr.GetResultStore()
	if store == nil {
		return forecast.Simulate(samples, commitment, iterations, seed)
	}

	key := generateSimulationCacheKey(samples, commitment, iterations, seed)

	if data := checkCacheHit(store, key); data != nil {
		var result schema.SimulationResult
		if err := json.Unmarshal(data, &result); err == nil {
			return &result, nil
		}
	}

	result, err := forecast.Simulate(samples, commitment, iterations, seed)
	if err != nil {
		return nil, err
	}
	storeResult(store, key, result)
	return result, nil
}

// checkCacheHit attempts to retrieve a valid cached payload
func checkCacheHit(store contract.CacheStore, key string) []byte {
	data, version, ts, err := store.Get(key)
	if err != nil {
		return nil // Cache miss
	}

	// Validate version and staleness
	if version == currentCacheVersion {
		entryTimestamp := time.Unix(ts, 0)
		if time.Since(entryTimestamp) <= 7*24*time.Hour {
			return data
		}
	}

	return nil // Cache miss (stale or version mismatch)
}

// storeResult persists a computed value; cache write failures are not
// propagated since the computation already succeeded.
func storeResult(store contract.CacheStore, key string, value any) {
	if data, err := json.Marshal(value); err == nil {
		_ = store.Set(key, data, currentCacheVersion, time.Now().Unix())
	}
}

// generateKPICacheKey creates a unique key from the full history content and
// the requested window.
func generateKPICacheKey(history *schema.SprintHistory, window int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "kpi:%d", window)
	for i := range history.Records {
		r := &history.Records[i]
		fmt.Fprintf(&b, ":%s|%g|%g|%d|%d|%v", r.SprintID, r.Committed, r.Completed, r.DefectsResolved, r.IssuesResolved, r.CycleTimes)
	}
	return fmt.Sprintf("%x", sha256.Sum256([]byte(b.String())))
}

// generateSimulationCacheKey creates a unique key from every simulation input.
func generateSimulationCacheKey(samples []float64, commitment float64, iterations int, seed int64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "sim:%g:%d:%d:%v", commitment, iterations, seed, samples)
	return fmt.Sprintf("%x", sha256.Sum256([]byte(b.String())))
}
