package cronjob

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Purger hard-deletes records soft-deleted longer than retention ago.
type Purger interface {
	PurgeDeleted(ctx context.Context, retention time.Duration) (int64, error)
}

type Scheduler struct {
	cron      *cron.Cron
	purger    Purger
	retention time.Duration
	timeout   time.Duration
	log       *slog.Logger
}

func NewScheduler(purger Purger, retention time.Duration, log *slog.Logger) *Scheduler {
	if log == nil {
		log = slog.Default()
	}
	return &Scheduler{
		cron:      cron.New(cron.WithSeconds()),
		purger:    purger,
		retention: retention,
		timeout:   5 * time.Minute,
		log:       log,
	}
}

// Start registers the purge job on spec (six-field, with seconds) and starts the cron loop.
func (s *Scheduler) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.RunPurge); err != nil {
		return fmt.Errorf("schedule purge %q: %w", spec, err)
	}

	s.log.Info("cron scheduler started", "schedule", spec, "retention", s.retention.String())
	s.cron.Start()
	return nil
}

// Stop halts the scheduler and waits for a running job up to ctx's deadline.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn("cron stop timed out")
	}
}

// RunPurge executes one purge pass.
func (s *Scheduler) RunPurge() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	n, err := s.purger.PurgeDeleted(ctx, s.retention)
	if err != nil {
		s.log.Error("purge failed", "error", err)
		return
	}
	s.log.Info("purge completed", "purged", n, "took", time.Since(start).String())
}
