package workload

import (
	"context"
	"fmt"
	"sync"

	"lockladder/pkg/concurrency/lock"
)

// Scenario is one self-contained contention pattern the demo CLI can run
// against a coordinator. Run loops until ctx is cancelled; workers is the
// number of concurrent logical holders the scenario drives.
type Scenario struct {
	Name        string
	Description string
	Run         func(ctx context.Context, coord *lock.Coordinator, workers int) error
}

// All returns every built-in scenario, in menu order.
func All() []Scenario {
	return []Scenario{
		{
			Name:        "reader-flood",
			Description: "Many readers sweep ascending level sets concurrently",
			Run:         runReaderFlood,
		},
		{
			Name:        "writer-convoy",
			Description: "Writers queue FIFO on a single hot level",
			Run:         runWriterConvoy,
		},
		{
			Name:        "staircase",
			Description: "Chains climb the full hierarchy, then roll back",
			Run:         runStaircase,
		},
		{
			Name:        "elevation",
			Description: "Readers take scoped write locks above their held levels",
			Run:         runElevation,
		},
		{
			Name:        "mixed",
			Description: "Readers, writers and rollbacks interleaved",
			Run:         runMixed,
		},
	}
}

// ByName looks up a scenario by its CLI name.
func ByName(name string) (Scenario, error) {
	for _, s := range All() {
		if s.Name == name {
			return s, nil
		}
	}
	return Scenario{}, fmt.Errorf("unknown scenario %q", name)
}

// spawn runs fn in `workers` goroutines, each looping until ctx is
// cancelled, and collects the first error.
func spawn(ctx context.Context, workers int, fn func(worker int) error) error {
	var wg sync.WaitGroup
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for ctx.Err() == nil {
				if err := fn(worker); err != nil {
					errCh <- err
					return
				}
			}
		}(i)
	}

	wg.Wait()
	close(errCh)
	return <-errCh
}
