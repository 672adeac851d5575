package workers

import (
	"context"
	"time"

	"github.com/ratemygit/ratemygit/internal/services"
	"github.com/ratemygit/ratemygit/pkg/logger"
)

// NewSessionCleanupWorker deletes expired sessions every interval
func NewSessionCleanupWorker(workerID string, interval time.Duration, sessionService *services.SessionService) *PeriodicWorker {
	return NewPeriodicWorker(workerID, "session-cleanup", interval, func(ctx context.Context) error {
		removed, err := sessionService.PurgeExpired()
		if err != nil {
			return err
		}
		if removed > 0 {
			logger.Component("worker").WithField("removed", removed).Info("Purged expired sessions")
		}
		return nil
	})
}

// NewRoastCacheSweepWorker drops expired roasts so an idle cache does not hold them
func NewRoastCacheSweepWorker(workerID string, interval time.Duration, cache *services.RoastCache) *PeriodicWorker {
	return NewPeriodicWorker(workerID, "roast-cache-sweep", interval, func(ctx context.Context) error {
		if removed := cache.Sweep(); removed > 0 {
			logger.Component("worker").WithField("removed", removed).Debug("Swept expired roasts")
		}
		return nil
	})
}
