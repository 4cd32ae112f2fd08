package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/webzeppelin/angry-birdman-sub003/internal/platform/logging"
	"github.com/webzeppelin/angry-birdman-sub003/internal/usecase"
)

func TestRunnerFiresImmediatelyAndOnInterval(t *testing.T) {
	t.Parallel()

	var ticks atomic.Int32
	runner := NewRunner(func(context.Context) usecase.TickResult {
		ticks.Add(1)
		return usecase.TickResult{}
	}, 10*time.Millisecond, logging.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		runner.Run(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for ticks.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("expected at least 3 ticks, got %d", ticks.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("runner did not stop on cancellation")
	}
}

func TestRunnerSurvivesTickFailures(t *testing.T) {
	t.Parallel()

	var ticks atomic.Int32
	runner := NewRunner(func(context.Context) usecase.TickResult {
		ticks.Add(1)
		return usecase.TickResult{Err: errors.New("boom")}
	}, 10*time.Millisecond, logging.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go runner.Run(ctx)

	deadline := time.After(2 * time.Second)
	for ticks.Load() < 2 {
		select {
		case <-deadline:
			t.Fatalf("failing tick stopped the runner after %d ticks", ticks.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestRunnerDefaultsInterval(t *testing.T) {
	t.Parallel()

	runner := NewRunner(func(context.Context) usecase.TickResult { return usecase.TickResult{} }, 0, nil)
	if runner.interval != DefaultInterval {
		t.Fatalf("interval = %v, want %v", runner.interval, DefaultInterval)
	}
}
