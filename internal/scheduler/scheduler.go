package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/contesthub/backend/internal/ingest"
	"go.uber.org/zap"
)

var errMissingRunner = errors.New("scheduler: runner is required")

const defaultInterval = 30 * time.Minute

// Runner triggers one ingestion run and reports per-platform outcomes.
type Runner interface {
	Run(ctx context.Context) ingest.Report
}

// Config describes one scheduler instance.
type Config struct {
	Runner   Runner
	Interval time.Duration
	Logger   *zap.Logger
}

// Scheduler owns the recurring ingestion cadence: one run at Start, then one
// per interval. A trigger that fires while a run is still in flight is
// skipped, never queued or run concurrently. Run failures are logged; the
// cadence itself never stops because of them.
type Scheduler struct {
	runner   Runner
	interval time.Duration
	logger   *zap.Logger

	running   atomic.Bool
	stop      chan struct{}
	done      chan struct{}
	startOnce sync.Once
	stopOnce  sync.Once
}

// New validates dependencies and constructs a stopped scheduler.
func New(cfg Config) (*Scheduler, error) {
	if cfg.Runner == nil {
		return nil, errMissingRunner
	}

	interval := cfg.Interval
	if interval <= 0 {
		interval = defaultInterval
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
		runner:   cfg.Runner,
		interval: interval,
		logger:   logger,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}, nil
}

// Start launches the scheduling loop and returns immediately. The first run
// triggers right away; subsequent runs follow the configured interval.
func (s *Scheduler) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		go s.loop(ctx)
	})
}

// Stop halts future triggers and waits for the loop to exit. An in-flight
// run is left to finish on its own context.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
	<-s.done
}

func (s *Scheduler) loop(ctx context.Context) {
	defer close(s.done)

	go s.trigger(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			go s.trigger(ctx)
		case <-s.stop:
			return
		case <-ctx.Done():
			return
		}
	}
}

// trigger runs one ingestion unless a previous run still holds the
// in-progress flag, in which case the trigger is dropped.
func (s *Scheduler) trigger(ctx context.Context) {
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Warn("ingestion run still in flight, skipping trigger")
		return
	}
	defer s.running.Store(false)

	report := s.runner.Run(ctx)
	for _, outcome := range report.Outcomes {
		if outcome.Status == ingest.OutcomeError {
			s.logger.Warn("scheduled ingestion failure",
				zap.String("platform", outcome.Platform.String()),
				zap.String("message", outcome.Message))
		}
	}
	s.logger.Info("ingestion run complete",
		zap.Int("platforms", len(report.Outcomes)),
		zap.Int("failures", report.Failures()))
}
