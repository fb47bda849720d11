package jobs

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/Solvit-Africa-Training-Center/Blog-API/pkg/blog_api/repositories"
	"github.com/Solvit-Africa-Training-Center/Blog-API/pkg/tools"
)

const (
	// stalePendingAge is how long a ledger entry may stay pending before the
	// sweep fails it. Exports complete within one request cycle; anything
	// older belongs to a request that died mid-flight.
	stalePendingAge = time.Hour

	// retentionPeriod is how long ledger entries are kept at all.
	retentionPeriod = 180 * 24 * time.Hour

	stalePendingMessage = "request did not complete"
)

// ScheduleLedgerMaintenance sets up a daily job that sweeps stale pending
// download-log entries and purges entries past the retention period.
func ScheduleLedgerMaintenance(ctx context.Context, downloads repositories.DownloadLogRepository) *cron.Cron {
	c := cron.New()
	_, _ = c.AddFunc("@daily", func() {
		tools.Dispatch(context.Background(), "ledger_maintenance", func(ctx context.Context) error {
			return RunLedgerMaintenance(ctx, downloads)
		})
	})
	c.Start()

	go func() {
		<-ctx.Done()
		c.Stop()
	}()
	return c
}

// RunLedgerMaintenance executes the sweep and the purge concurrently.
func RunLedgerMaintenance(ctx context.Context, downloads repositories.DownloadLogRepository) error {
	g, ctx := errgroup.WithContext(ctx)
	now := time.Now().UTC()

	g.Go(func() error {
		swept, err := downloads.SweepStalePending(ctx, now.Add(-stalePendingAge), stalePendingMessage)
		if err != nil {
			return err
		}
		if swept > 0 {
			log.Printf("[INFO] ledger maintenance: failed %d stale pending entries", swept)
		}
		return nil
	})

	g.Go(func() error {
		purged, err := downloads.PurgeOlderThan(ctx, now.Add(-retentionPeriod))
		if err != nil {
			return err
		}
		if purged > 0 {
			log.Printf("[INFO] ledger maintenance: purged %d entries past retention", purged)
		}
		return nil
	})

	return g.Wait()
}
