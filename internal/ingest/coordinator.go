package ingest

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/contesthub/backend/internal/contests"
	"go.uber.org/zap"
)

var (
	errMissingStore    = errors.New("ingest: contest store is required")
	errMissingAdapters = errors.New("ingest: at least one adapter is required")
)

// OutcomeStatus marks whether one platform's fetch-and-upsert succeeded.
type OutcomeStatus string

const (
	OutcomeSuccess OutcomeStatus = "success"
	OutcomeError   OutcomeStatus = "error"
)

// Outcome records one platform's result for a single ingestion run.
type Outcome struct {
	Platform contests.Platform `json:"platform"`
	Status   OutcomeStatus     `json:"status"`
	Count    int               `json:"count,omitempty"`
	Message  string            `json:"message,omitempty"`
}

// Report aggregates per-platform outcomes in adapter registration order.
type Report struct {
	Outcomes []Outcome `json:"outcomes"`
}

// Failures counts the platforms that did not complete their run.
func (r Report) Failures() int {
	failed := 0
	for _, outcome := range r.Outcomes {
		if outcome.Status == OutcomeError {
			failed++
		}
	}
	return failed
}

// ContestUpserter is the slice of the contest service the coordinator writes
// through.
type ContestUpserter interface {
	UpsertBatch(ctx context.Context, batch []contests.Contest) (int, error)
}

// CoordinatorConfig describes one ingestion pipeline.
type CoordinatorConfig struct {
	Adapters     []Adapter
	Store        ContestUpserter
	FetchTimeout time.Duration
	Logger       *zap.Logger
}

// Coordinator runs every registered adapter concurrently and upserts the
// batches that succeed. Platform failures never block or cancel each other.
type Coordinator struct {
	adapters     []Adapter
	store        ContestUpserter
	fetchTimeout time.Duration
	logger       *zap.Logger
}

// NewCoordinator validates dependencies and constructs the coordinator.
func NewCoordinator(cfg CoordinatorConfig) (*Coordinator, error) {
	if cfg.Store == nil {
		return nil, errMissingStore
	}
	if len(cfg.Adapters) == 0 {
		return nil, errMissingAdapters
	}

	fetchTimeout := cfg.FetchTimeout
	if fetchTimeout <= 0 {
		fetchTimeout = time.Minute
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Coordinator{
		adapters:     cfg.Adapters,
		store:        cfg.Store,
		fetchTimeout: fetchTimeout,
		logger:       logger,
	}, nil
}

// Run executes one ingestion run. Every adapter fetches concurrently under
// its own timeout; outcomes are collected independently and returned as a
// report. Run never fails, even when every platform does.
func (c *Coordinator) Run(ctx context.Context) Report {
	outcomes := make([]Outcome, len(c.adapters))

	var wg sync.WaitGroup
	for i, adapter := range c.adapters {
		wg.Add(1)
		go func(index int, adapter Adapter) {
			defer wg.Done()
			outcomes[index] = c.runAdapter(ctx, adapter)
		}(i, adapter)
	}
	wg.Wait()

	return Report{Outcomes: outcomes}
}

func (c *Coordinator) runAdapter(ctx context.Context, adapter Adapter) Outcome {
	platform := adapter.Platform()

	fetchCtx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	defer cancel()

	batch, err := adapter.FetchContests(fetchCtx)
	if err != nil {
		c.logger.Warn("platform fetch failed",
			zap.String("platform", platform.String()),
			zap.Error(err))
		return Outcome{Platform: platform, Status: OutcomeError, Message: err.Error()}
	}

	count, err := c.store.UpsertBatch(ctx, batch)
	if err != nil {
		c.logger.Error("contest upsert failed",
			zap.String("platform", platform.String()),
			zap.Error(err))
		return Outcome{Platform: platform, Status: OutcomeError, Message: err.Error()}
	}

	c.logger.Info("platform ingested",
		zap.String("platform", platform.String()),
		zap.Int("count", count))
	return Outcome{Platform: platform, Status: OutcomeSuccess, Count: count}
}
