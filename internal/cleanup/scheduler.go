package cleanup

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/NuSa-Nutrition-Scan/API-V1/internal/logging"
	"github.com/NuSa-Nutrition-Scan/API-V1/internal/metrics"
	nutrition "github.com/NuSa-Nutrition-Scan/API-V1/internal/nutrition/domain"
)

// Purger deletes objects under prefix created before cutoff.
type Purger interface {
	PurgeOlderThan(ctx context.Context, prefix string, cutoff time.Time) (int, error)
}

// Scheduler periodically removes prediction photos older than the retention.
type Scheduler struct {
	cron      *cron.Cron
	purger    Purger
	prefix    string
	retention time.Duration
	now       func() time.Time
}

func NewScheduler(purger Purger, prefix string, retention time.Duration) *Scheduler {
	return &Scheduler{
		cron:      cron.New(cron.WithSeconds(), cron.WithLocation(nutrition.Zone)),
		purger:    purger,
		prefix:    prefix,
		retention: retention,
		now:       time.Now,
	}
}

// Start schedules the purge with a six-field cron spec, evaluated in UTC+7.
func (s *Scheduler) Start(schedule string) error {
	if _, err := s.cron.AddFunc(schedule, s.runScheduled); err != nil {
		return fmt.Errorf("schedule purge %q: %w", schedule, err)
	}

	logging.NewLogger(context.Background()).LogInfof("cleanup.start", "purge of %s scheduled at %q", s.prefix, schedule)
	s.cron.Start()
	return nil
}

// Stop stops the scheduler. The returned context is done once a running purge finishes.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) runScheduled() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	_, _ = s.RunOnce(ctx)
}

// RunOnce purges everything under the prefix older than the retention.
func (s *Scheduler) RunOnce(ctx context.Context) (int, error) {
	logger := logging.NewLogger(ctx).With("prefix", s.prefix)
	cutoff := s.now().Add(-s.retention)

	n, err := s.purger.PurgeOlderThan(ctx, s.prefix, cutoff)
	metrics.RecordPurged(n)
	if err != nil {
		logger.LogErrorf("cleanup.purge", "purged %d objects before failing: %v", n, err)
		return n, err
	}

	logger.LogInfof("cleanup.purge", "purged %d objects older than %s", n, cutoff.Format(time.RFC3339))
	return n, nil
}
