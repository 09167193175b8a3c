package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"lockladder/pkg/concurrency/lock"
	"lockladder/pkg/levels"
	"lockladder/pkg/workload"
)

// The exporter runs a workload scenario against a coordinator and
// serves its diagnostic snapshots over HTTP: JSON on /snapshot,
// Prometheus text format on /metrics.

func prometheusMetrics(snap lock.Snapshot) string {
	out := fmt.Sprintf(`# HELP lockladder_acquire_calls_total Total acquire calls across all levels
# TYPE lockladder_acquire_calls_total counter
lockladder_acquire_calls_total %d

# HELP lockladder_release_calls_total Total release calls across all levels
# TYPE lockladder_release_calls_total counter
lockladder_release_calls_total %d

# HELP lockladder_pending_writers Writers currently queued across all levels
# TYPE lockladder_pending_writers gauge
lockladder_pending_writers %d

# HELP lockladder_pending_readers Readers currently waiting across all levels
# TYPE lockladder_pending_readers gauge
lockladder_pending_readers %d
`,
		snap.AcquireCalls,
		snap.ReleaseCalls,
		snap.TotalPendingWriters(),
		snap.TotalPendingReaders(),
	)

	for _, ls := range snap.Levels {
		out += fmt.Sprintf(`
# HELP lockladder_level_readers Active readers on a level
# TYPE lockladder_level_readers gauge
lockladder_level_readers{level="%d"} %d
lockladder_level_write_grants_total{level="%d"} %d
lockladder_level_read_grants_total{level="%d"} %d
lockladder_level_write_waits_total{level="%d"} %d
lockladder_level_read_waits_total{level="%d"} %d
`,
			ls.Level, ls.Readers,
			ls.Level, ls.WriteGrants,
			ls.Level, ls.ReadGrants,
			ls.Level, ls.WriteWaits,
			ls.Level, ls.ReadWaits,
		)
	}

	return out
}

func main() {
	scenarioName := os.Getenv("SCENARIO")
	if scenarioName == "" {
		scenarioName = "mixed"
	}

	workers := 8
	if w := os.Getenv("WORKERS"); w != "" {
		_, _ = fmt.Sscanf(w, "%d", &workers)
	}

	port := os.Getenv("METRICS_PORT")
	if port == "" {
		port = "8080"
	}

	scenario, err := workload.ByName(scenarioName)
	if err != nil {
		log.Fatalf("Failed to resolve scenario: %v", err)
	}

	coord := lock.NewCoordinator(levels.MaxLevel)

	log.Printf("Starting LockLadder snapshot exporter...")
	log.Printf("Scenario: %s, Workers: %d, Port: %s", scenarioName, workers, port)

	go func() {
		if err := scenario.Run(context.Background(), coord, workers); err != nil {
			log.Fatalf("Workload failed: %v", err)
		}
	}()

	mux := http.NewServeMux()
	mux.HandleFunc("/snapshot", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(coord.Snapshot()); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4")
		fmt.Fprint(w, prometheusMetrics(coord.Snapshot()))
	})
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("Snapshots available at http://localhost:%s/snapshot", port)
	log.Fatal(srv.ListenAndServe())
}
