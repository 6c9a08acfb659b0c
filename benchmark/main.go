// Package main provides a performance benchmarking tool for the Sprintlens CLI.
// It generates synthetic sprint datasets of increasing size, measures execution
// times across command types, treating the first successful cached run as cold
// and averaging the rest as warm, and writes CSV output for performance analysis.
//
// Prerequisites:
// - sprintlens binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory where synthetic datasets are written
package main

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Dataset     string
	Command     string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir      string
	Timeout      time.Duration
	NoCacheRuns  int
	CacheRuns    int
	DatasetSizes map[string]int
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:     os.Args[1],
		Timeout:     2 * time.Minute,
		NoCacheRuns: 3,
		CacheRuns:   4,
		DatasetSizes: map[string]int{
			"small":  12,
			"medium": 120,
			"large":  1200,
		},
	}

	if err := checkPrerequisites(); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	datasets, err := generateDatasets(config)
	if err != nil {
		fmt.Printf("Failed to generate datasets: %v\n", err)
		os.Exit(1)
	}

	// Clear the cache using sprintlens cache clear
	fmt.Printf("Clearing cache...\n")
	clearCmd := exec.Command("sprintlens", "cache", "clear")
	if output, err := clearCmd.CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear cache: %v\nOutput: %s\n", err, string(output))
	} else {
		fmt.Printf("Cache cleared successfully\n")
	}

	results := runBenchmarks(config, datasets)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the sprintlens binary exists.
func checkPrerequisites() error {
	if _, err := exec.LookPath("sprintlens"); err != nil {
		return fmt.Errorf("sprintlens binary not found in PATH")
	}
	return nil
}

// generateDatasets writes synthetic sprint CSVs and returns name -> path.
func generateDatasets(config BenchmarkConfig) (map[string]string, error) {
	if err := os.MkdirAll(config.WorkDir, 0o755); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(42))
	datasets := make(map[string]string, len(config.DatasetSizes))
	for name, sprints := range config.DatasetSizes {
		path := filepath.Join(config.WorkDir, fmt.Sprintf("sprints_%s.csv", name))
		if err := writeDataset(path, sprints, rng); err != nil {
			return nil, err
		}
		datasets[name] = path
		fmt.Printf("Generated %s dataset (%d sprints) at %s\n", name, sprints, path)
	}
	return datasets, nil
}

// writeDataset generates one synthetic sprint history CSV.
func writeDataset(path string, sprints int, rng *rand.Rand) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"sprint_id", "committed", "completed", "defects_resolved", "issues_resolved", "cycle_times"}); err != nil {
		return err
	}
	for i := 1; i <= sprints; i++ {
		committed := 20 + rng.Float64()*10
		completed := committed * (0.8 + rng.Float64()*0.3)
		issues := 8 + rng.Intn(8)
		defects := rng.Intn(3)

		samples := make([]string, 0, issues)
		for range issues {
			samples = append(samples, fmt.Sprintf("%.1f", 1+rng.Float64()*9))
		}

		rec := []string{
			fmt.Sprintf("S%04d", i),
			fmt.Sprintf("%.1f", committed),
			fmt.Sprintf("%.1f", completed),
			fmt.Sprintf("%d", defects),
			fmt.Sprintf("%d", issues),
			strings.Join(samples, ";"),
		}
		if err := writer.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// runBenchmarks executes all benchmark tests across generated datasets.
func runBenchmarks(config BenchmarkConfig, datasets map[string]string) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d datasets, %v timeout, no-cache: %d runs, cache: %d runs\n",
		len(datasets), config.Timeout, config.NoCacheRuns, config.CacheRuns)

	for name, path := range datasets {
		fmt.Printf("Benchmarking %s\n", name)

		results = append(results, runBenchmarkSuite(config, name, path, "kpis", "KPI analysis", nil))
		results = append(results, runBenchmarkSuite(config, name, path, "forecast", "commitment forecast",
			[]string{"--commitment", "25", "--iterations", "100000"}))
		results = append(results, runBenchmarkSuite(config, name, path, "profile", "team profile", nil))
	}

	return results
}

// runBenchmarkSuite runs both no-cache and cache benchmarks for a command.
func runBenchmarkSuite(config BenchmarkConfig, dataset, datasetPath, command, description string, extraArgs []string) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", description, dataset)

	runPhase := func(cacheBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, datasetPath, command, extraArgs, cacheBackend, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avg := sum / float64(len(times))
			avgTime = fmt.Sprintf("%.3fs", avg)
		}
		return cold, avgTime
	}

	// Phase 1: No-cache runs
	_, noCacheAvg := runPhase("none", config.NoCacheRuns, "No-cache")

	// Phase 2: Cache runs
	coldTime, warmAvg := runPhase("sqlite", config.CacheRuns, "Cache")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Dataset:     dataset,
		Command:     command,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes a sprintlens command multiple times with the specified
// cache backend and returns cold time and warm times.
func runBenchmark(config BenchmarkConfig, datasetPath, command string, extraArgs []string, cacheBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := []string{command, datasetPath, "--cache-backend", cacheBackend}
	args = append(args, extraArgs...)

	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()

		cmd := exec.Command("sprintlens", args...)

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output, command) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output indicates successful completion.
func isSuccess(output []byte, command string) bool {
	outputStr := string(output)

	var completionPhrase string
	switch command {
	case "forecast":
		completionPhrase = "Forecast completed in"
	case "profile":
		completionPhrase = "Profile completed in"
	default:
		completionPhrase = "Analysis completed in"
	}

	return strings.Contains(outputStr, completionPhrase)
}

// saveResults writes benchmark results to a timestamped CSV file.
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/sprintlens_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"dataset", "cmd", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, result := range results {
		if err := writer.Write([]string{result.Dataset, result.Command, result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary.
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")

	printCommandSummary(results, "kpis", "KPI Analysis:")
	printCommandSummary(results, "forecast", "Commitment Forecast:")
	printCommandSummary(results, "profile", "Team Profile:")

	fmt.Printf("Benchmark script completed successfully\n")
}

// printCommandSummary displays results for a specific command type.
func printCommandSummary(results []BenchmarkResult, command, title string) {
	fmt.Printf("%s\n", title)
	for _, result := range results {
		if result.Command == command {
			fmt.Printf("  %-8s: No-cache: %s, Cold: %s, Warm: %s\n", result.Dataset, result.NoCacheTime, result.ColdTime, result.WarmTime)
		}
	}
}
