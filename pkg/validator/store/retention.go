package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// RetentionConfig controls how long reports are kept.
type RetentionConfig struct {
	// RetentionDays is the maximum report age in days. Zero disables
	// age-based pruning.
	RetentionDays int

	// PruneSchedule is a cron expression for automatic pruning (e.g.
	// "0 3 * * *" for daily at 3 AM). Empty disables the scheduler.
	PruneSchedule string
}

// Pruner deletes reports past the configured retention.
type Pruner struct {
	store  Store
	config RetentionConfig
	logger *slog.Logger
}

// NewPruner creates a pruner over the store.
func NewPruner(store Store, config RetentionConfig) *Pruner {
	return &Pruner{
		store:  store,
		config: config,
		logger: slog.Default().With("component", "validator.store.pruner"),
	}
}

// Prune deletes reports older than the retention window and returns how
// many were deleted. With retention disabled it deletes nothing.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	if p.config.RetentionDays <= 0 {
		return 0, nil
	}

	cutoff := time.Now().AddDate(0, 0, -p.config.RetentionDays)
	deleted, err := p.store.DeleteBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune reports: %w", err)
	}

	if deleted > 0 {
		p.logger.Info("pruned validation reports",
			"deleted", deleted,
			"cutoff", cutoff,
		)
	}
	return deleted, nil
}

// Scheduler runs the pruner on a cron schedule.
type Scheduler struct {
	pruner *Pruner
	cron   *cron.Cron
	logger *slog.Logger

	mu      sync.Mutex
	running bool
}

// NewScheduler creates a scheduler for the pruner.
func NewScheduler(pruner *Pruner) *Scheduler {
	return &Scheduler{
		pruner: pruner,
		cron:   cron.New(),
		logger: slog.Default().With("component", "validator.store.scheduler"),
	}
}

// Start begins scheduled pruning. With no schedule configured it does
// nothing. The scheduler stops when ctx is cancelled or Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	schedule := s.pruner.config.PruneSchedule
	if schedule == "" {
		s.logger.Info("prune schedule not configured, skipping scheduler")
		return nil
	}

	if _, err := cron.ParseStandard(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", schedule, err)
	}

	if _, err := s.cron.AddFunc(schedule, func() { s.runPruning(ctx) }); err != nil {
		return fmt.Errorf("schedule pruning: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("retention scheduler started",
		"schedule", schedule,
		"retention_days", s.pruner.config.RetentionDays,
	)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

func (s *Scheduler) runPruning(ctx context.Context) {
	if _, err := s.pruner.Prune(ctx); err != nil {
		s.logger.Error("scheduled pruning failed", "error", err)
	}
}

// Stop halts scheduled pruning, waiting for an in-flight run to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	<-s.cron.Stop().Done()
	s.running = false
	s.logger.Info("retention scheduler stopped")
}
