package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"

	"github.com/abrezinsky/hockeyscorer/internal/logger"
	"github.com/abrezinsky/hockeyscorer/internal/repository"
)

// Scheduler runs periodic housekeeping against the stored database image
type Scheduler struct {
	s        gocron.Scheduler
	repo     repository.MaintenanceRepository
	log      logger.Logger
	interval time.Duration
	timeout  time.Duration
}

// New creates a scheduler that compacts the database every interval.
// The clock is only consulted by gocron; pass nil for the real one.
func New(log logger.Logger, repo repository.MaintenanceRepository, interval time.Duration, clock clockwork.Clock) (*Scheduler, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("maintenance interval must be positive, got %s", interval)
	}

	opts := []gocron.SchedulerOption{gocron.WithLogger(log)}
	if clock != nil {
		opts = append(opts, gocron.WithClock(clock))
	}
	s, err := gocron.NewScheduler(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Scheduler{
		s:        s,
		repo:     repo,
		log:      log.With("component", "scheduler"),
		interval: interval,
		timeout:  time.Minute,
	}, nil
}

// Start registers the jobs and starts running them in the background
func (s *Scheduler) Start() error {
	_, err := s.s.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(s.compact),
		gocron.WithName("compact"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to create compact job: %w", err)
	}

	s.s.Start()
	s.log.Info("Maintenance scheduled", "interval", s.interval.String())
	return nil
}

// Stop waits for running jobs and shuts the scheduler down
func (s *Scheduler) Stop() error {
	return s.s.Shutdown()
}

func (s *Scheduler) compact() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.repo.Ping(ctx); err != nil {
		s.log.Error("Database unavailable, skipping compaction", "error", err)
		return
	}
	result, err := s.repo.Compact(ctx)
	if err != nil {
		s.log.Error("Failed to compact database", "error", err)
		return
	}
	s.log.Debug("Compaction finished", "orphans_removed", result.OrphansRemoved)
}
