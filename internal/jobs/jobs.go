// Package jobs runs the API's periodic housekeeping on a cron schedule:
// purging dead auth sessions, expiring idle search sessions and forgetting
// idle rate-limiter clients.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Task does one unit of housekeeping and reports how many records it removed.
type Task func(ctx context.Context) (int64, error)

// Scheduler wraps a cron runner. Every task gets a named log line per run,
// panics are recovered, and a run is skipped while the previous one is
// still going.
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

// New constructs a stopped Scheduler.
func New(logger *slog.Logger) *Scheduler {
	cl := cronLogger{logger: logger}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:   cron.New(cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)), cron.WithLogger(cl)),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Add registers task under name. spec is any robfig/cron spec, including
// descriptors such as "@every 5m".
func (s *Scheduler) Add(name, spec string, task Task) error {
	_, err := s.cron.AddFunc(spec, func() { s.run(name, task) })
	if err != nil {
		return fmt.Errorf("jobs.Scheduler.Add: %s: %w", name, err)
	}
	return nil
}

func (s *Scheduler) run(name string, task Task) {
	start := time.Now()
	n, err := task(s.ctx)
	if err != nil {
		s.logger.ErrorContext(s.ctx, "job failed", "job", name, "error", err)
		return
	}
	s.logger.InfoContext(s.ctx, "job finished", "job", name, "removed", n,
		"duration_ms", time.Since(start).Milliseconds())
}

// Start begins running jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop cancels running tasks and waits for them to return, or for ctx to end.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.cancel()
	select {
	case <-s.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return fmt.Errorf("jobs.Scheduler.Stop: %w", ctx.Err())
	}
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
