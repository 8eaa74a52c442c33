// Package recompute records compliance snapshots on a cron schedule.
package recompute

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"ims/internal/domain"
)

// Recorder computes and stores one snapshot per standard.
type Recorder interface {
	RecordSnapshots(ctx context.Context) ([]domain.ComplianceSnapshot, error)
}

type Runner struct {
	recorder Recorder
	cron     *cron.Cron
	log      *slog.Logger
	timeout  time.Duration
}

// New parses schedule (standard five fields or a descriptor such as @hourly)
// and returns a runner that has not been started. Overlapping runs are skipped.
func New(recorder Recorder, schedule string, log *slog.Logger) (*Runner, error) {
	if log == nil {
		log = slog.Default()
	}
	log = log.With("component", "recompute")
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cronLogger{log})))
	r := &Runner{recorder: recorder, cron: c, log: log, timeout: time.Minute}
	if _, err := c.AddFunc(schedule, func() { r.RunOnce(context.Background()) }); err != nil {
		return nil, fmt.Errorf("snapshot schedule %q: %w", schedule, err)
	}
	return r, nil
}

// RunOnce records a snapshot now. Errors are logged, not returned, so a
// failed tick never stops the schedule.
func (r *Runner) RunOnce(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	snaps, err := r.recorder.RecordSnapshots(ctx)
	if err != nil {
		r.log.Error("snapshot failed", "err", err)
		return
	}
	for _, s := range snaps {
		r.log.Debug("snapshot recorded", "standard", s.Standard, "overall", s.Overall)
	}
	r.log.Info("compliance snapshots recorded", "count", len(snaps))
}

// Run starts the schedule and blocks until ctx is done, then waits for a
// running snapshot to finish.
func (r *Runner) Run(ctx context.Context) {
	r.cron.Start()
	r.log.Info("snapshot schedule started", "next", r.Next())
	<-ctx.Done()
	<-r.cron.Stop().Done()
	r.log.Info("snapshot schedule stopped")
}

// Next reports when the next snapshot is due.
func (r *Runner) Next() time.Time {
	entries := r.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	if !entries[0].Next.IsZero() {
		return entries[0].Next
	}
	return entries[0].Schedule.Next(time.Now())
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct{ log *slog.Logger }

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error(msg, append(keysAndValues, "err", err)...)
}
