package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/adhocore/gronx"

	"github.com/HouseGram-code/HouseGram-sub000/pkg/compose"
	"github.com/HouseGram-code/HouseGram-sub000/pkg/logger"
	"github.com/HouseGram-code/HouseGram-sub000/pkg/store"
)

// Start starts the deferred-delivery sweeper if enabled. Returns a cancel
// func. Each sweep delivers every scheduled send whose due time has passed
// and removes it from the schedule namespace.
func Start(ctx context.Context, composer *compose.Composer, enabled bool, cronExpr string) (context.CancelFunc, error) {
	if !enabled {
		logger.Info("scheduler_disabled")
		return func() {}, nil
	}

	// map empty cron to a sweep every minute
	if cronExpr == "" {
		cronExpr = "* * * * *"
	}
	if !gronx.IsValid(cronExpr) {
		logger.Error("scheduler_invalid_cron", "cron", cronExpr)
		return nil, fmt.Errorf("invalid scheduler cron expression: %s", cronExpr)
	}

	logger.Info("scheduler_enabled", "cron", cronExpr)
	ctx2, cancel := context.WithCancel(ctx)
	go run(ctx2, composer, cronExpr)
	return cancel, nil
}

// run computes the next tick for the configured cron expression with gronx
// and sleeps until that time, delivering due sends on every wake.
func run(ctx context.Context, composer *compose.Composer, cronExpr string) {
	for {
		select {
		case <-ctx.Done():
			logger.Info("scheduler_stopping")
			return
		default:
		}

		now := time.Now().UTC()
		next, err := gronx.NextTickAfter(cronExpr, now, false)
		if err != nil {
			logger.Error("scheduler_nexttick_failed", "cron", cronExpr, "error", err)
			select {
			case <-time.After(30 * time.Second):
			case <-ctx.Done():
				logger.Info("scheduler_stopping")
				return
			}
			continue
		}

		select {
		case <-time.After(time.Until(next)):
			if err := RunOnce(ctx, composer); err != nil {
				logger.Error("scheduler_run_error", "error", err)
			}
		case <-ctx.Done():
			logger.Info("scheduler_stopping")
			return
		}
	}
}

// RunOnce delivers all currently due scheduled sends. Exported so tests and
// admin triggers can invoke a sweep on demand.
func RunOnce(ctx context.Context, composer *compose.Composer) error {
	due, err := store.DueScheduled(time.Now().UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("schedule scan failed: %w", err)
	}
	for _, sc := range due {
		if err := composer.DeliverScheduled(ctx, sc); err != nil {
			// leave the entry in place; the next sweep retries
			logger.Error("scheduled_delivery_failed", "chat", sc.ChatID, "key", sc.Key, "error", err)
			continue
		}
		if err := store.DeleteKey(sc.Key); err != nil {
			logger.Error("schedule_cleanup_failed", "key", sc.Key, "error", err)
		}
		logger.Info("scheduled_delivered", "chat", sc.ChatID, "due", sc.DueAt)
	}
	return nil
}
