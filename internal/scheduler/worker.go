// Package scheduler runs the periodic jobs: the overdue sweep and the
// failed-message resend pass. One goroutine per job, stopped through the
// process context.
package scheduler

import (
	"context"
	"errors"
	"time"

	"dairy-herd-manager/internal/platform/logger"
)

// Job is one unit of periodic work. The return values feed the run log.
type Job func(ctx context.Context) (int, error)

type Worker struct {
	name     string
	interval time.Duration
	job      Job
	log      logger.Logger

	stopChan chan struct{}
}

func NewWorker(name string, interval time.Duration, job Job, log logger.Logger) *Worker {
	return &Worker{
		name:     name,
		interval: interval,
		job:      job,
		log:      log,
		stopChan: make(chan struct{}),
	}
}

// Start blocks until the context is canceled or Stop is called. The job runs
// once immediately, then on every tick. Run it in its own goroutine.
func (w *Worker) Start(ctx context.Context) {
	w.log.Info("worker starting", logger.Fields{"worker": w.name, "interval": w.interval.String()})

	w.runOnce(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.runOnce(ctx)
		case <-w.stopChan:
			w.log.Info("worker stopping", logger.Fields{"worker": w.name})
			return
		case <-ctx.Done():
			w.log.Info("context canceled, worker stopping", logger.Fields{"worker": w.name})
			return
		}
	}
}

func (w *Worker) Stop() {
	close(w.stopChan)
}

func (w *Worker) runOnce(ctx context.Context) {
	n, err := w.job(ctx)
	switch {
	case errors.Is(err, context.Canceled):
		// shutdown in progress, the select loop exits next
	case err != nil:
		w.log.Warn("worker run failed", logger.Fields{"worker": w.name, "err": err.Error()})
	default:
		w.log.Debug("worker run finished", logger.Fields{"worker": w.name, "processed": n})
	}
}
