// Package worker holds background tasks. The expiry reaper is the only one:
// a single timer-driven sweep that forces stale PENDING bookings into
// EXPIRED and returns their inventory.
package worker

import (
	"context"
	"sync"
	"time"

	"event-booking/internal/metrics"
	"event-booking/internal/service"
	"event-booking/pkg/logger"
)

const (
	DefaultSweepInterval = time.Minute
	defaultBatchSize     = 100
)

// Reaper periodically expires overdue PENDING bookings. One instance runs
// per process; sweeps never overlap because the loop is a single goroutine
// that finishes a sweep before waiting on the next tick.
type Reaper struct {
	bookingSvc service.BookingService
	interval   time.Duration
	batchSize  int
	l          logger.Logger

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	wg      sync.WaitGroup
}

func NewReaper(bookingSvc service.BookingService, interval time.Duration, batchSize int, l logger.Logger) *Reaper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &Reaper{
		bookingSvc: bookingSvc,
		interval:   interval,
		batchSize:  batchSize,
		l:          l,
		stop:       make(chan struct{}),
	}
}

func (r *Reaper) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return
	}
	r.running = true

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		r.l.Infof(ctx, "Expiry reaper started, interval %s", r.interval)

		for {
			select {
			case <-ticker.C:
				r.Sweep(ctx)
			case <-r.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (r *Reaper) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.running {
		return
	}
	r.running = false
	close(r.stop)
	r.wg.Wait()
}

// Sweep expires every overdue booking it can find, each in its own
// transaction so one failure never aborts the rest of the batch. A booking
// confirmed or cancelled between the query and its transaction is skipped
// by the per-item re-check inside Expire.
func (r *Reaper) Sweep(ctx context.Context) {
	start := time.Now()

	ids, err := r.bookingSvc.FindExpired(ctx, r.batchSize)
	if err != nil {
		r.l.Errorf(ctx, "worker.Reaper.Sweep: listing expired bookings: %v", err)
		return
	}

	var expired int
	for _, id := range ids {
		if ctx.Err() != nil {
			// Shutdown cancels the remaining batch only; items already
			// processed have committed.
			return
		}
		if err := r.bookingSvc.Expire(ctx, id); err != nil {
			r.l.Errorf(ctx, "worker.Reaper.Sweep: expiring booking %s: %v", id, err)
			continue
		}
		expired++
	}

	metrics.ReaperSweepDuration.Observe(time.Since(start).Seconds())
	metrics.ReaperLastSweepExpired.Set(float64(expired))

	if len(ids) > 0 {
		r.l.Infof(ctx, "Reaper sweep processed %d overdue bookings in %s", len(ids), time.Since(start))
	}
}
