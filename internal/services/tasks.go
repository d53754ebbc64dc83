package services

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// TaskRunner spawns fire-and-forget background work. Panics and errors are
// caught and logged here, never propagated to the submitter; results surface
// only through shared state such as the summary cache.
type TaskRunner struct {
	log *logrus.Logger
	wg  sync.WaitGroup
}

// NewTaskRunner creates a task runner.
func NewTaskRunner(log *logrus.Logger) *TaskRunner {
	return &TaskRunner{log: log}
}

// Submit runs fn on its own goroutine.
func (r *TaskRunner) Submit(name string, fn func() error) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer func() {
			if rec := recover(); rec != nil {
				r.log.WithFields(logrus.Fields{
					"task":  name,
					"panic": rec,
				}).Error("background task panicked")
			}
		}()

		if err := fn(); err != nil {
			r.log.WithError(err).WithField("task", name).Warn("background task failed")
		}
	}()
}

// Wait blocks until all submitted tasks finish. Used in tests and shutdown.
func (r *TaskRunner) Wait() {
	r.wg.Wait()
}
