// Package housekeeping trims the message board down to its configured size
// on a cron schedule. Disabled by default; the board keeps everything unless
// an operator opts in.
package housekeeping

import (
	"context"
	"fmt"
	"time"

	"github.com/adhocore/gronx"

	"github.com/XiChenQi2025/taoci-magic/pkg/board"
	"github.com/XiChenQi2025/taoci-magic/pkg/config"
	"github.com/XiChenQi2025/taoci-magic/pkg/logger"
)

// Start starts the trim scheduler if enabled. Returns a cancel func.
func Start(ctx context.Context, cfg config.HousekeepingConfig, maxMessages int, repo *board.Repo) (context.CancelFunc, error) {
	if !cfg.Enabled {
		logger.Info("housekeeping_disabled")
		return func() {}, nil
	}

	// map empty cron to default daily @04:00
	cronExpr := cfg.Cron
	if cronExpr == "" {
		cronExpr = "0 4 * * *"
	}
	if !gronx.IsValid(cronExpr) {
		logger.Error("housekeeping_invalid_cron", "cron", cfg.Cron)
		return nil, fmt.Errorf("invalid housekeeping cron expression: %s", cfg.Cron)
	}

	logger.Info("housekeeping_enabled", "cron", cronExpr, "max_messages", maxMessages, "dry_run", cfg.DryRun)
	ctx2, cancel := context.WithCancel(ctx)
	go runScheduler(ctx2, cfg, maxMessages, repo, cronExpr)
	return cancel, nil
}

// RunOnce performs a single trim pass.
func RunOnce(cfg config.HousekeepingConfig, maxMessages int, repo *board.Repo) error {
	dropped, err := repo.Trim(maxMessages, cfg.DryRun)
	if err != nil {
		return err
	}
	if dropped > 0 {
		logger.Info("housekeeping_trimmed", "dropped", dropped, "dry_run", cfg.DryRun)
	}
	return nil
}

// runScheduler uses gronx to compute the next tick for the configured cron
// expression and sleeps until that time.
func runScheduler(ctx context.Context, cfg config.HousekeepingConfig, maxMessages int, repo *board.Repo, cronExpr string) {
	for {
		select {
		case <-ctx.Done():
			logger.Info("housekeeping_scheduler_stopping")
			return
		default:
		}

		now := time.Now().UTC()
		next, err := gronx.NextTickAfter(cronExpr, now, false)
		if err != nil {
			logger.Error("housekeeping_nexttick_failed", "cron", cronExpr, "error", err)
			select {
			case <-time.After(30 * time.Second):
			case <-ctx.Done():
				logger.Info("housekeeping_scheduler_stopping")
				return
			}
			continue
		}

		wait := time.Until(next)
		if wait <= 0 {
			if err := RunOnce(cfg, maxMessages, repo); err != nil {
				logger.Error("housekeeping_run_error", "error", err)
			}
			select {
			case <-time.After(time.Second):
			case <-ctx.Done():
				logger.Info("housekeeping_scheduler_stopping")
				return
			}
			continue
		}

		select {
		case <-time.After(wait):
			if err := RunOnce(cfg, maxMessages, repo); err != nil {
				logger.Error("housekeeping_run_error", "error", err)
			}
		case <-ctx.Done():
			logger.Info("housekeeping_scheduler_stopping")
			return
		}
	}
}
