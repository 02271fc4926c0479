package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/hairfy/appointment-notifier/internal/sweep"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type Runner interface {
	Run(ctx context.Context, ref time.Time) sweep.Result
}

// Scheduler triggers the reminder sweep on a cron spec. Overlapping
// triggers are skipped while a sweep is still running.
type Scheduler struct {
	cron   *cron.Cron
	runner Runner
	loc    *time.Location
	log    *zap.Logger
	now    func() time.Time
	ctx    context.Context
}

func New(runner Runner, spec string, loc *time.Location, log *zap.Logger) (*Scheduler, error) {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = zap.NewNop()
	}
	cl := cronLogger{log.Sugar()}

	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		runner: runner,
		loc:    loc,
		log:    log,
		now:    time.Now,
		ctx:    context.Background(),
	}

	if _, err := s.cron.AddFunc(spec, func() { s.RunOnce(s.ctx) }); err != nil {
		return nil, fmt.Errorf("add sweep job %q: %w", spec, err)
	}
	return s, nil
}

// RunOnce performs one sweep using the current time in the scheduler's location.
func (s *Scheduler) RunOnce(ctx context.Context) sweep.Result {
	ref := s.now().In(s.loc)
	s.log.Info("cron triggered reminder sweep", zap.Time("ref", ref))
	return s.runner.Run(ctx, ref)
}

// Run starts the cron loop and blocks until ctx is done, then waits for a
// running sweep to finish.
func (s *Scheduler) Run(ctx context.Context) error {
	s.ctx = ctx
	s.cron.Start()
	s.log.Info("scheduler started", zap.Int("jobs", len(s.cron.Entries())), zap.String("location", s.loc.String()))

	<-ctx.Done()

	stopped := s.cron.Stop()
	<-stopped.Done()
	s.log.Info("scheduler stopped")
	return nil
}

// Next reports when the sweep fires next.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Schedule.Next(s.now().In(s.loc))
}

type cronLogger struct{ l *zap.SugaredLogger }

func (c cronLogger) Info(msg string, kv ...any) { c.l.Debugw(msg, kv...) }
func (c cronLogger) Error(err error, msg string, kv ...any) {
	c.l.Errorw(msg, append(kv, "error", err)...)
}
