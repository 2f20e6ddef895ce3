package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DueSweeper re-evaluates records that are waiting on the clock.
// Implemented by the zakat application service.
type DueSweeper interface {
	SweepDue(ctx context.Context, limit int) (int, error)
}

// EvaluationSweepScheduler periodically re-evaluates open records whose due
// date has arrived or whose below-threshold grace clock is running. Without
// it, an owner who never calls the API would keep a cycle open past its
// completion date.
type EvaluationSweepScheduler struct {
	service   DueSweeper
	logger    *zap.Logger
	config    EvaluationSweepConfig
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// EvaluationSweepConfig holds configuration for the sweep scheduler
type EvaluationSweepConfig struct {
	// Enabled determines if the scheduler is active
	Enabled bool

	// Interval is how often the sweep runs
	Interval time.Duration

	// BatchSize caps how many records one sweep picks up
	BatchSize int

	// SweepTimeout is the maximum time for a single sweep run
	SweepTimeout time.Duration
}

// DefaultEvaluationSweepConfig returns default configuration
func DefaultEvaluationSweepConfig() EvaluationSweepConfig {
	return EvaluationSweepConfig{
		Enabled:      true,
		Interval:     time.Hour,
		BatchSize:    200,
		SweepTimeout: 5 * time.Minute,
	}
}

// NewEvaluationSweepScheduler creates a new sweep scheduler
func NewEvaluationSweepScheduler(
	service DueSweeper,
	logger *zap.Logger,
	config EvaluationSweepConfig,
) *EvaluationSweepScheduler {
	if config.Interval <= 0 {
		config.Interval = time.Hour
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 200
	}
	if config.SweepTimeout <= 0 {
		config.SweepTimeout = 5 * time.Minute
	}
	return &EvaluationSweepScheduler{
		service: service,
		logger:  logger,
		config:  config,
	}
}

// Start starts the sweep loop
func (s *EvaluationSweepScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	if !s.config.Enabled {
		s.mu.Unlock()
		s.logger.Info("Evaluation sweep scheduler is disabled")
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.run(ctx)

	s.logger.Info("Evaluation sweep scheduler started",
		zap.Duration("interval", s.config.Interval),
		zap.Int("batch_size", s.config.BatchSize),
	)
	return nil
}

// Stop gracefully stops the scheduler
func (s *EvaluationSweepScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Evaluation sweep scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Evaluation sweep scheduler stop timed out")
		return ctx.Err()
	}
}

func (s *EvaluationSweepScheduler) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	// One sweep at startup catches records that came due while the
	// process was down.
	s.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *EvaluationSweepScheduler) sweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, s.config.SweepTimeout)
	defer cancel()

	start := time.Now()
	swept, err := s.service.SweepDue(sweepCtx, s.config.BatchSize)
	if err != nil {
		s.logger.Error("Evaluation sweep failed",
			zap.Int("swept", swept),
			zap.Error(err),
		)
		return
	}
	if swept > 0 {
		s.logger.Info("Evaluation sweep completed",
			zap.Int("swept", swept),
			zap.Duration("duration", time.Since(start)),
		)
	}
}
