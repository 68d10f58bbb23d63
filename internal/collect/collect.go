package collect

import (
	"context"
	"log/slog"
	"time"

	"cryptotrend/internal/normalize"
	"cryptotrend/internal/source"
)

// Collector runs the fetch+normalize step a fixed number of times with a
// delay between iterations and concatenates the results into one table.
type Collector struct {
	Source source.Source
	Logger *slog.Logger

	// Sleep pauses between iterations. Nil means a context-aware
	// real-time sleep; tests inject a recorder instead.
	Sleep func(ctx context.Context, d time.Duration) error
	// Now stamps each iteration's rows. Nil means time.Now().UTC().
	Now func() time.Time
}

// Collect starts from an empty table and performs exactly iterations
// fetch+normalize cycles. A failed or empty cycle is logged and
// contributes zero rows; the loop never aborts. The delay is applied
// between iterations, not after the last one.
func (c *Collector) Collect(ctx context.Context, iterations int, delay time.Duration, coinIDs, vsCurrencies []string) normalize.Table {
	logger := c.Logger
	if logger == nil {
		logger = slog.Default()
	}
	sleep := c.Sleep
	if sleep == nil {
		sleep = waitFor
	}
	now := c.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}

	var table normalize.Table
	for i := 1; i <= iterations; i++ {
		logger.Info("collecting", "iteration", i, "of", iterations)

		raw, err := c.Source.Fetch(ctx, coinIDs, vsCurrencies)
		switch {
		case err != nil:
			logger.Warn("iteration failed", "iteration", i, "err", err)
		case len(raw) == 0:
			logger.Warn("no raw data ingested", "iteration", i)
		default:
			rows := normalize.Normalize(raw, now())
			if len(rows) == 0 {
				logger.Warn("no valid rows after normalization", "iteration", i)
				break
			}
			table = append(table, rows...)
			logger.Info("data point collected", "iteration", i, "rows", len(rows), "total", len(table))
		}

		if i < iterations && delay > 0 {
			logger.Info("waiting before next collection", "delay", delay)
			if err := sleep(ctx, delay); err != nil {
				logger.Warn("wait interrupted", "err", err)
				return table
			}
		}
	}

	logger.Info("collection complete", "records", len(table))
	return table
}

func waitFor(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
