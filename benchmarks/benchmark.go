package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"lockladder/pkg/concurrency/chain"
	"lockladder/pkg/concurrency/lock"
	"lockladder/pkg/levels"
)

// BenchmarkResult captures detailed performance metrics for a single benchmark test.
// It includes timing statistics, throughput metrics, and success/error counts.
type BenchmarkResult struct {
	Operation         string        `json:"operation"`          // Descriptive name of the benchmark test
	Iterations        int           `json:"iterations"`         // Total number of operation executions
	TotalDuration     time.Duration `json:"total_duration_ns"`  // Total time taken for all iterations
	AvgDuration       time.Duration `json:"avg_duration_ns"`    // Average time per operation
	MinDuration       time.Duration `json:"min_duration_ns"`    // Fastest execution time
	MaxDuration       time.Duration `json:"max_duration_ns"`    // Slowest execution time
	MedianDuration    time.Duration `json:"median_duration_ns"` // Median execution time
	P95Duration       time.Duration `json:"p95_duration_ns"`    // 95th percentile execution time
	P99Duration       time.Duration `json:"p99_duration_ns"`    // 99th percentile execution time
	OpsPerSecond      float64       `json:"ops_per_second"`     // Throughput metric
	ConcurrentWorkers int           `json:"concurrent_workers"` // Number of concurrent goroutines
	SuccessCount      int           `json:"success_count"`      // Number of successful executions
	ErrorCount        int           `json:"error_count"`        // Number of failed executions
	ErrorSamples      []string      `json:"error_samples"`      // Sample error messages for debugging
	Timestamp         time.Time     `json:"timestamp"`          // When this benchmark was executed
}

// BenchmarkReport aggregates results from all benchmark tests into a single report.
type BenchmarkReport struct {
	StartTime     time.Time         `json:"start_time"`
	EndTime       time.Time         `json:"end_time"`
	TotalDuration time.Duration     `json:"total_duration"`
	Results       []BenchmarkResult `json:"results"`
	MaxLevel      int               `json:"max_level"`
}

// operation is one benchmarkable unit against a fresh coordinator.
type operation struct {
	name       string
	concurrent bool // whether a contended variant makes sense
	run        func(coord *lock.Coordinator) error
}

func operations() []operation {
	return []operation{
		{
			name:       "AcquireRead/ReleaseRead",
			concurrent: true,
			run: func(coord *lock.Coordinator) error {
				if err := coord.AcquireRead(levels.Level(5)); err != nil {
					return err
				}
				coord.ReleaseRead(levels.Level(5))
				return nil
			},
		},
		{
			name:       "AcquireWrite/ReleaseWrite",
			concurrent: true,
			run: func(coord *lock.Coordinator) error {
				if err := coord.AcquireWrite(levels.Level(5)); err != nil {
					return err
				}
				coord.ReleaseWrite(levels.Level(5))
				return nil
			},
		},
		{
			name:       "Chain climb and dispose (3 levels)",
			concurrent: true,
			run: func(coord *lock.Coordinator) error {
				c := chain.New(coord)
				for _, lvl := range []levels.Level{2, 5, 9} {
					next, err := c.AcquireWrite(lvl)
					if err != nil {
						c.Dispose()
						return err
					}
					c = next
				}
				c.Dispose()
				return nil
			},
		},
		{
			name:       "Chain rollback (5 levels to 1)",
			concurrent: false,
			run: func(coord *lock.Coordinator) error {
				c := chain.New(coord)
				for lvl := levels.Level(1); lvl <= 5; lvl++ {
					next, err := c.AcquireWrite(lvl)
					if err != nil {
						c.Dispose()
						return err
					}
					c = next
				}
				rolled, err := c.RollbackTo(levels.Level(1))
				if err != nil {
					c.Dispose()
					return err
				}
				rolled.Dispose()
				return nil
			},
		},
		{
			name:       "UseWithAcquire scoped write",
			concurrent: true,
			run: func(coord *lock.Coordinator) error {
				c := chain.New(coord)
				return c.UseWithAcquire(levels.Level(7), levels.Write, func(chain.Chain) error {
					return nil
				})
			},
		},
		{
			name:       "Coordinator snapshot (15 touched levels)",
			concurrent: false,
			run: func(coord *lock.Coordinator) error {
				coord.Snapshot()
				return nil
			},
		},
	}
}

// main orchestrates the benchmark suite: runs every operation
// sequentially and (where meaningful) concurrently, then writes a JSON
// report.
//
// Environment variables:
//   - BENCHMARK_OUTPUT: Directory for output reports (default: ./benchmark-results)
//   - BENCHMARK_ITERATIONS: Number of iterations per benchmark (default: 10000)
//   - BENCHMARK_WORKERS: Number of concurrent workers (default: 8)
func main() {
	outputDir := os.Getenv("BENCHMARK_OUTPUT")
	if outputDir == "" {
		outputDir = "./benchmark-results"
	}

	iterations := 10000
	if iter := os.Getenv("BENCHMARK_ITERATIONS"); iter != "" {
		_, _ = fmt.Sscanf(iter, "%d", &iterations)
	}

	workers := 8
	if w := os.Getenv("BENCHMARK_WORKERS"); w != "" {
		_, _ = fmt.Sscanf(w, "%d", &workers)
	}

	_ = os.MkdirAll(outputDir, 0o750)

	log.Printf("Starting benchmark suite...")
	log.Printf("Iterations: %d, Concurrent Workers: %d", iterations, workers)

	report := BenchmarkReport{
		StartTime: time.Now(),
		MaxLevel:  int(levels.MaxLevel),
		Results:   []BenchmarkResult{},
	}

	for _, op := range operations() {
		log.Printf("%s", "\n"+strings.Repeat("=", 80))
		log.Printf("TEST: %s", op.name)
		log.Printf("%s", strings.Repeat("=", 80))

		log.Printf("→ Running sequential test (%d iterations)...", iterations)
		seqResult := runBenchmark(op, iterations, 1)
		report.Results = append(report.Results, seqResult)
		printBenchmarkResult(seqResult)

		if op.concurrent {
			log.Printf("→ Running concurrent test (%d workers, %d iterations)...", workers, iterations)
			conc := op
			conc.name = op.name + " (Concurrent)"
			concResult := runBenchmark(conc, iterations, workers)
			report.Results = append(report.Results, concResult)
			printBenchmarkResult(concResult)
		}
	}

	report.EndTime = time.Now()
	report.TotalDuration = report.EndTime.Sub(report.StartTime)

	timestamp := time.Now().Format("20060102_150405")
	jsonFile := fmt.Sprintf("%s/benchmark_report_%s.json", outputDir, timestamp)

	log.Printf("%s", "\n"+strings.Repeat("=", 80))
	log.Printf("BENCHMARK SUITE COMPLETE")
	log.Printf("  Total Duration: %s", report.TotalDuration.Round(time.Millisecond))
	log.Printf("  Tests Run:      %d", len(report.Results))

	saveJSONReport(report, jsonFile)
	log.Printf("  Report saved to: %s", jsonFile)
}

// runBenchmark executes one operation `iterations` times across
// `workers` goroutines against a fresh coordinator and aggregates
// timing statistics.
func runBenchmark(op operation, iterations, workers int) BenchmarkResult {
	coord := lock.NewCoordinator(levels.MaxLevel)

	// Touch every level so the snapshot benchmark measures a full map.
	for lvl := levels.MinLevel; lvl <= levels.MaxLevel; lvl++ {
		_ = coord.AcquireRead(lvl)
		coord.ReleaseRead(lvl)
	}

	var mu sync.Mutex
	durations := make([]time.Duration, 0, iterations)
	errorSamples := make([]string, 0)
	errorCount := 0

	perWorker := iterations / workers
	if perWorker == 0 {
		perWorker = 1
	}

	var wg sync.WaitGroup
	start := time.Now()

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				opStart := time.Now()
				err := op.run(coord)
				elapsed := time.Since(opStart)

				mu.Lock()
				durations = append(durations, elapsed)
				if err != nil {
					errorCount++
					if len(errorSamples) < 5 {
						errorSamples = append(errorSamples, err.Error())
					}
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	total := time.Since(start)
	slices.Sort(durations)

	result := BenchmarkResult{
		Operation:         op.name,
		Iterations:        len(durations),
		TotalDuration:     total,
		ConcurrentWorkers: workers,
		SuccessCount:      len(durations) - errorCount,
		ErrorCount:        errorCount,
		ErrorSamples:      errorSamples,
		Timestamp:         time.Now(),
	}

	if len(durations) > 0 {
		var sum time.Duration
		for _, d := range durations {
			sum += d
		}
		result.AvgDuration = sum / time.Duration(len(durations))
		result.MinDuration = durations[0]
		result.MaxDuration = durations[len(durations)-1]
		result.MedianDuration = durations[len(durations)/2]
		result.P95Duration = durations[len(durations)*95/100]
		result.P99Duration = durations[len(durations)*99/100]
		result.OpsPerSecond = float64(len(durations)) / total.Seconds()
	}

	return result
}

func printBenchmarkResult(r BenchmarkResult) {
	log.Printf("    ops/sec: %.0f  avg: %s  p95: %s  p99: %s  errors: %d",
		r.OpsPerSecond,
		r.AvgDuration.Round(time.Nanosecond),
		r.P95Duration.Round(time.Nanosecond),
		r.P99Duration.Round(time.Nanosecond),
		r.ErrorCount,
	)
}

func saveJSONReport(report BenchmarkReport, path string) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		log.Printf("Failed to marshal report: %v", err)
		return
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		log.Printf("Failed to write report: %v", err)
	}
}
