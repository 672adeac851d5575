package workers

import (
	"context"
	"sync"
)

// Worker interface defines the contract for all workers
type Worker interface {
	// Start begins the worker process and blocks until it stops
	Start(ctx context.Context) error

	// Stop gracefully stops the worker
	Stop() error

	// GetName returns the kind of work this worker does
	GetName() string

	// GetWorkerID returns the unique identifier for this worker
	GetWorkerID() string

	// IsRunning reports whether Start is still looping
	IsRunning() bool
}

// BaseWorker provides common functionality for all workers
type BaseWorker struct {
	WorkerID string
	Name     string
	StopChan chan struct{}

	mu      sync.Mutex
	running bool
	stopped bool
}

// NewBaseWorker creates a new base worker
func NewBaseWorker(workerID, name string) *BaseWorker {
	return &BaseWorker{
		WorkerID: workerID,
		Name:     name,
		StopChan: make(chan struct{}),
	}
}

// GetName returns the kind of work this worker does
func (w *BaseWorker) GetName() string {
	return w.Name
}

// GetWorkerID returns the worker's unique identifier
func (w *BaseWorker) GetWorkerID() string {
	return w.WorkerID
}

// Stop gracefully stops the worker. Calling it more than once is a no-op.
func (w *BaseWorker) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.stopped {
		w.stopped = true
		close(w.StopChan)
	}
	return nil
}

// IsRunning checks if the worker is currently running
func (w *BaseWorker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *BaseWorker) setRunning(running bool) {
	w.mu.Lock()
	w.running = running
	w.mu.Unlock()
}
