package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// Job is the unit of work run on each firing.
type Job interface {
	Run(ctx context.Context) error
}

// JobFunc is a function adapter for Job.
type JobFunc func(ctx context.Context) error

func (f JobFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// Config holds scheduler configuration.
type Config struct {
	Spec       string         // Standard 5-field cron spec or @descriptor
	Retries    int            // Immediate retries after a failed attempt
	RetryDelay time.Duration  // Pause between attempts
	Location   *time.Location // Zone the spec is evaluated in (default: UTC)
}

// RunResult is the outcome of one firing.
type RunResult struct {
	RunID    uuid.UUID
	Started  time.Time
	Finished time.Time
	Attempts int
	Err      error
}

// OK reports whether the run succeeded.
func (r RunResult) OK() bool {
	return r.Err == nil
}

// Status is a snapshot of scheduler state.
type Status struct {
	Running bool
	Runs    int64
	Failed  int64
	Last    *RunResult
	Next    time.Time
}

// Healthy reports whether no run has failed since the last success.
func (s Status) Healthy() bool {
	return s.Last == nil || s.Last.OK()
}

// Scheduler fires a Job on a cron schedule.
type Scheduler struct {
	cfg    Config
	job    Job
	logger *slog.Logger

	cron  *cron.Cron
	entry cron.EntryID

	mu      sync.Mutex
	running bool
	runs    int64
	failed  int64
	last    *RunResult

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a Scheduler. The spec is parsed up front.
func New(cfg Config, job Job, logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if job == nil {
		return nil, errors.New("schedule: nil job")
	}
	if cfg.Retries < 0 {
		return nil, fmt.Errorf("schedule: retries must be >= 0, got %d", cfg.Retries)
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}

	sched, err := cron.ParseStandard(cfg.Spec)
	if err != nil {
		return nil, fmt.Errorf("schedule: parse %q: %w", cfg.Spec, err)
	}

	s := &Scheduler{
		cfg:    cfg,
		job:    job,
		logger: logger,
	}
	s.cron = cron.New(
		cron.WithLocation(cfg.Location),
		cron.WithChain(cron.SkipIfStillRunning(cronLogger{logger})),
	)
	s.entry = s.cron.Schedule(sched, cron.FuncJob(s.fire))
	return s, nil
}

// Start begins firing the job.
func (s *Scheduler) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.cron.Start()

	s.logger.Info("scheduler started",
		"spec", s.cfg.Spec,
		"retries", s.cfg.Retries,
		"next", s.cron.Entry(s.entry).Next,
	)
	return nil
}

// Stop cancels any in-flight run and waits for it to return.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
	}

	done := s.cron.Stop().Done()
	select {
	case <-done:
		s.logger.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Status returns the current scheduler state.
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{
		Running: s.running,
		Runs:    s.runs,
		Failed:  s.failed,
		Next:    s.cron.Entry(s.entry).Next,
	}
	if s.last != nil {
		last := *s.last
		st.Last = &last
	}
	return st
}

func (s *Scheduler) fire() {
	ctx := s.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	s.RunOnce(ctx)
}

// RunOnce runs the job now with the configured retries and records the result.
func (s *Scheduler) RunOnce(ctx context.Context) RunResult {
	res := RunResult{
		RunID:   uuid.New(),
		Started: time.Now(),
	}
	logger := s.logger.With("run_id", res.RunID)

	s.mu.Lock()
	s.running = true
	s.mu.Unlock()

	logger.Info("job started")

	for attempt := 0; attempt <= s.cfg.Retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				res.Err = ctx.Err()
			case <-time.After(s.cfg.RetryDelay):
			}
			if ctx.Err() != nil {
				break
			}
		}

		res.Attempts++
		res.Err = s.job.Run(ctx)
		if res.Err == nil {
			break
		}
		logger.Warn("job attempt failed",
			"attempt", res.Attempts,
			"error", res.Err,
		)
		if ctx.Err() != nil {
			break
		}
	}
	res.Finished = time.Now()

	s.mu.Lock()
	s.running = false
	s.runs++
	if res.Err != nil {
		s.failed++
	}
	last := res
	s.last = &last
	s.mu.Unlock()

	if res.Err != nil {
		logger.Error("job failed",
			"attempts", res.Attempts,
			"error", res.Err,
			"duration", res.Finished.Sub(res.Started),
		)
	} else {
		logger.Info("job complete",
			"attempts", res.Attempts,
			"duration", res.Finished.Sub(res.Started),
		)
	}
	return res
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append([]interface{}{"error", err}, keysAndValues...)...)
}
