package scheduler

import (
	"context"
	"time"

	"github.com/ikkim/perfume-storefront/internal/storage"
	"github.com/ikkim/perfume-storefront/pkg/logger"
	"github.com/robfig/cron/v3"
)

// StateJanitor deletes cart and gift card state nobody has touched for
// maxAge. Redis expires keys by itself, so only the memory and database
// backends get a janitor.
type StateJanitor struct {
	cron     *cron.Cron
	purger   storage.Purger
	schedule string
	maxAge   time.Duration
	now      func() time.Time
}

func NewStateJanitor(purger storage.Purger, schedule string, maxAge time.Duration) *StateJanitor {
	return &StateJanitor{
		cron:     cron.New(),
		purger:   purger,
		schedule: schedule,
		maxAge:   maxAge,
		now:      time.Now,
	}
}

// Start registers the purge job and starts the cron runner.
func (s *StateJanitor) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		if _, err := s.RunOnce(context.Background()); err != nil {
			logger.Error("Scheduled state purge failed", err)
		}
	})
	if err != nil {
		logger.Error("Failed to add cron job for state purge", err, map[string]interface{}{
			"schedule": s.schedule,
		})
		return err
	}

	s.cron.Start()
	logger.Info("State janitor started", map[string]interface{}{
		"schedule": s.schedule,
		"max_age":  s.maxAge.String(),
	})
	return nil
}

// RunOnce purges everything last written before now minus maxAge.
func (s *StateJanitor) RunOnce(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.maxAge)
	purged, err := s.purger.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	logger.Info("Purged stale session state", map[string]interface{}{
		"purged": purged,
		"cutoff": cutoff,
	})
	return purged, nil
}

// Stop waits for a running purge to finish.
func (s *StateJanitor) Stop() {
	logger.Info("Stopping state janitor...", nil)
	<-s.cron.Stop().Done()
	logger.Info("State janitor stopped", nil)
}
