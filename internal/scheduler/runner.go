// Package scheduler drives the battle schedule state machine on a fixed
// interval. The tick itself is owned by the usecase layer; the runner only
// decides when to fire it and logs what happened.
package scheduler

import (
	"context"
	"time"

	"github.com/webzeppelin/angry-birdman-sub003/internal/platform/logging"
	"github.com/webzeppelin/angry-birdman-sub003/internal/usecase"
)

const DefaultInterval = time.Hour

type Runner struct {
	tick     func(context.Context) usecase.TickResult
	interval time.Duration
	logger   *logging.Logger
}

func NewRunner(tick func(context.Context) usecase.TickResult, interval time.Duration, logger *logging.Logger) *Runner {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Runner{tick: tick, interval: interval, logger: logger}
}

// Run fires one tick immediately, then one per interval until ctx is
// cancelled. Tick failures are logged and never stop the loop; a stalled
// schedule catches up on later ticks.
func (r *Runner) Run(ctx context.Context) {
	r.logger.InfoContext(ctx, "schedule runner started", "interval", r.interval.String())

	r.fire(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.InfoContext(ctx, "schedule runner stopped", "reason", ctx.Err())
			return
		case <-ticker.C:
			r.fire(ctx)
		}
	}
}

func (r *Runner) fire(ctx context.Context) {
	result := r.tick(ctx)
	switch {
	case result.Err != nil:
		r.logger.ErrorContext(ctx, "schedule tick failed", "error", result.Err)
	case result.Advanced:
		r.logger.InfoContext(ctx, "schedule tick advanced",
			"battle_id", result.BattleID,
			"created", result.Created,
		)
	}
}
