package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mavumo/jobbyist/internal/pipeline"
)

type ScheduleCmd struct {
	Every string `help:"Interval between runs (Go duration)." default:""`
	RunOptions
}

// Run executes the pipeline immediately, then on a fixed interval until
// SIGINT or SIGTERM. If a run is still going when the next tick fires, the
// tick is skipped rather than stacked.
func (s *ScheduleCmd) Run(ctx *Context) error {
	every := firstNonEmpty(s.Every, ctx.Config.ScheduleEvery)
	interval, err := time.ParseDuration(every)
	if err != nil {
		return fmt.Errorf("parse interval %q: %w", every, err)
	}
	if interval < time.Minute {
		return fmt.Errorf("interval must be at least 1m, got %s", interval)
	}

	opts, err := buildPipelineOptions(ctx, s.RunOptions)
	if err != nil {
		return err
	}

	var running atomic.Bool
	execute := func() {
		if !running.CompareAndSwap(false, true) {
			ctx.Logger.Warn().Msg("previous run still in progress, skipping tick")
			return
		}
		defer running.Store(false)

		summary, err := pipeline.Run(context.Background(), opts)
		if err != nil {
			ctx.Logger.Error().Err(err).Msg("scheduled run failed")
			return
		}
		reportSourceFailures(ctx, summary.Failures)
		printRunSummary(ctx, summary)
	}

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(fmt.Sprintf("@every %s", interval), execute); err != nil {
		return err
	}

	ctx.UI.Infof("Scheduling aggregation every %s", interval)
	execute()
	scheduler.Start()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx.UI.Infof("Stopping scheduler")
	stopCtx := scheduler.Stop()
	<-stopCtx.Done()
	return nil
}
