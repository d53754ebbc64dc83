package services

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/briefly/briefly-backend/internal/store"
)

// Reaper periodically sweeps the session store, deleting sessions older than
// the TTL. Deletion is silent; a later request for a reclaimed session gets a
// session-not-found failure.
type Reaper struct {
	store    *store.Store
	ttl      time.Duration
	interval time.Duration
	log      *logrus.Logger

	stop chan struct{}
	done chan struct{}
}

// NewReaper creates a reaper for the given store.
func NewReaper(st *store.Store, ttl, interval time.Duration, log *logrus.Logger) *Reaper {
	return &Reaper{
		store:    st,
		ttl:      ttl,
		interval: interval,
		log:      log,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the sweep loop on its own goroutine.
func (r *Reaper) Start() {
	go r.run()
}

// Stop halts the loop and waits for it to exit.
func (r *Reaper) Stop() {
	close(r.stop)
	<-r.done
}

func (r *Reaper) run() {
	defer close(r.done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if reaped := r.store.Sweep(r.ttl); reaped > 0 {
				r.log.WithFields(logrus.Fields{
					"reaped": reaped,
					"live":   r.store.Count(),
				}).Info("session sweep finished")
			}
		case <-r.stop:
			return
		}
	}
}
