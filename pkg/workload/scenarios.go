package workload

import (
	"context"
	"math/rand"
	"time"

	"lockladder/pkg/concurrency/chain"
	"lockladder/pkg/concurrency/lock"
	"lockladder/pkg/levels"
	"lockladder/pkg/logging"
)

// holdFor keeps critical sections short enough that the monitor shows
// movement but long enough that queues actually form.
const holdFor = 2 * time.Millisecond

// runReaderFlood drives every worker through the same ascending read
// sweep. Readers share each level, so the only queuing the monitor shows
// comes from lazy lock creation churn.
func runReaderFlood(ctx context.Context, coord *lock.Coordinator, workers int) error {
	sweep := []levels.Level{2, 5, 9}

	return spawn(ctx, workers, func(worker int) error {
		c := chain.New(coord)
		for _, lvl := range sweep {
			next, err := c.AcquireRead(lvl)
			if err != nil {
				c.Dispose()
				return err
			}
			c = next
		}

		time.Sleep(holdFor)
		c.Dispose()
		return nil
	})
}

// runWriterConvoy pushes every worker through the same hot level in
// write mode. Grants drain in FIFO order; the monitor shows the queue
// length breathing.
func runWriterConvoy(ctx context.Context, coord *lock.Coordinator, workers int) error {
	hot := levels.Level(5)

	return spawn(ctx, workers, func(worker int) error {
		c := chain.New(coord)
		return c.UseWithAcquire(hot, levels.Write, func(chain.Chain) error {
			time.Sleep(holdFor)
			return nil
		})
	})
}

// runStaircase climbs write locks up the hierarchy one rung at a time,
// rolls back to the first rung, and disposes.
func runStaircase(ctx context.Context, coord *lock.Coordinator, workers int) error {
	top := coord.MaxLevel()
	if top > 6 {
		top = 6
	}

	return spawn(ctx, workers, func(worker int) error {
		c := chain.New(coord)
		for lvl := levels.MinLevel; lvl <= top; lvl++ {
			next, err := c.AcquireWrite(lvl)
			if err != nil {
				c.Dispose()
				return err
			}
			c = next
		}

		rolled, err := c.RollbackTo(levels.MinLevel)
		if err != nil {
			c.Dispose()
			return err
		}

		rolled.Dispose()
		return nil
	})
}

// runElevation holds a low read lock and takes scoped write locks above
// it, the temporary privilege elevation pattern ReleaseLock exists for.
func runElevation(ctx context.Context, coord *lock.Coordinator, workers int) error {
	return spawn(ctx, workers, func(worker int) error {
		c := chain.New(coord)

		held, err := c.AcquireRead(levels.Level(2))
		if err != nil {
			return err
		}

		err = held.UseWithAcquire(levels.Level(6), levels.Write, func(chain.Chain) error {
			time.Sleep(holdFor)
			return nil
		})
		if err != nil {
			held.Dispose()
			return err
		}

		// Drop the low read lock out of order, then confirm the chain
		// is empty before the next iteration.
		remaining, err := held.ReleaseLock(levels.Level(2))
		if err != nil {
			held.Dispose()
			return err
		}
		remaining.Dispose()
		return nil
	})
}

// runMixed interleaves the other patterns with per-worker randomness so
// the monitor shows realistic cross-level contention.
func runMixed(ctx context.Context, coord *lock.Coordinator, workers int) error {
	return spawn(ctx, workers, func(worker int) error {
		rng := rand.New(rand.NewSource(int64(worker) + time.Now().UnixNano()))
		log := logging.WithWorker("mixed", worker)

		c := chain.New(coord)
		lvl := levels.Level(1 + rng.Intn(int(coord.MaxLevel())))

		var err error
		var held chain.Chain
		if rng.Intn(4) == 0 {
			held, err = c.AcquireWrite(lvl)
		} else {
			held, err = c.AcquireRead(lvl)
		}
		if err != nil {
			return err
		}

		// Half the iterations climb one more rung before releasing.
		if lvl < coord.MaxLevel() && rng.Intn(2) == 0 {
			upper := lvl + levels.Level(1+rng.Intn(int(coord.MaxLevel()-lvl)))
			next, err := held.AcquireRead(upper)
			if err != nil {
				held.Dispose()
				return err
			}
			next, err = next.RollbackTo(lvl)
			if err != nil {
				log.Error("rollback failed", "error", err)
				held.Dispose()
				return err
			}
			held = next
		}

		time.Sleep(holdFor)
		held.Dispose()
		return nil
	})
}
