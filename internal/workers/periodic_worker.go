package workers

import (
	"context"
	"time"

	"github.com/ratemygit/ratemygit/pkg/logger"
	"github.com/sirupsen/logrus"
)

// PeriodicWorker runs a task on a fixed interval until stopped
type PeriodicWorker struct {
	*BaseWorker
	interval time.Duration
	task     func(ctx context.Context) error
}

// defaultInterval replaces non-positive intervals
const defaultInterval = time.Minute

// NewPeriodicWorker creates a worker that calls task every interval
func NewPeriodicWorker(workerID, name string, interval time.Duration, task func(ctx context.Context) error) *PeriodicWorker {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &PeriodicWorker{
		BaseWorker: NewBaseWorker(workerID, name),
		interval:   interval,
		task:       task,
	}
}

// Start begins the periodic loop
func (w *PeriodicWorker) Start(ctx context.Context) error {
	w.setRunning(true)
	defer w.setRunning(false)

	log := logger.Component("worker").WithFields(logrus.Fields{
		"worker_id": w.WorkerID,
		"name":      w.Name,
	})
	log.WithField("interval", w.interval.String()).Info("Worker started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("Worker stopping due to context cancellation")
			return ctx.Err()
		case <-w.StopChan:
			log.Info("Worker stopping")
			return nil
		case <-ticker.C:
			if err := w.task(ctx); err != nil {
				log.WithError(err).Warn("Worker run failed")
			}
		}
	}
}
