package state

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultRefreshInterval is used when StartAutoRefresh gets a non-positive interval.
const DefaultRefreshInterval = 30 * time.Second

// AutoRefresh is the handle of a periodic refresh schedule.
type AutoRefresh struct {
	store    *Store
	interval time.Duration
	loopCtx  context.Context
	cancel   context.CancelFunc
	stopped  atomic.Bool
	wg       sync.WaitGroup
	done     chan struct{}
}

// StartAutoRefresh refreshes immediately and then once per interval until
// the handle is stopped, ctx is cancelled or the store is closed. Every tick
// starts its own refresh, so a slow call may overlap the next one; whichever
// response lands last wins. Responses that land after the schedule stopped
// are discarded.
func (s *Store) StartAutoRefresh(ctx context.Context, interval time.Duration) *AutoRefresh {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	loopCtx, cancel := context.WithCancel(ctx)
	a := &AutoRefresh{
		store:    s,
		interval: interval,
		loopCtx:  loopCtx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		a.stopped.Store(true)
		cancel()
		close(a.done)
		return a
	}
	s.schedules = append(s.schedules, a)
	s.mu.Unlock()

	a.wg.Add(1)
	go a.loop(ctx)
	go func() {
		a.wg.Wait()
		close(a.done)
	}()
	return a
}

// Interval returns the schedule period.
func (a *AutoRefresh) Interval() time.Duration {
	return a.interval
}

// Stop cancels the schedule. It does not wait; use Done for that. Once Stop
// returns, no refresh started by the schedule can apply its result.
func (a *AutoRefresh) Stop() {
	a.store.mu.Lock()
	a.stopped.Store(true)
	a.store.detachLocked(a)
	a.store.mu.Unlock()
	a.cancel()
}

// Stopped reports whether the schedule has been cancelled.
func (a *AutoRefresh) Stopped() bool {
	return a.stale()
}

// Done is closed once the schedule and its in-flight refreshes are finished.
func (a *AutoRefresh) Done() <-chan struct{} {
	return a.done
}

func (a *AutoRefresh) stale() bool {
	return a.stopped.Load() || a.loopCtx.Err() != nil
}

// loop owns one wg slot until it returns, so fire may add more safely.
// In-flight requests use the caller's ctx, not loopCtx, so Stop lets them
// finish; their results are then dropped by the stale check.
func (a *AutoRefresh) loop(reqCtx context.Context) {
	defer a.wg.Done()

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		a.fire(reqCtx)
		select {
		case <-a.loopCtx.Done():
			a.store.mu.Lock()
			a.stopped.Store(true)
			a.store.detachLocked(a)
			a.store.mu.Unlock()
			return
		case <-ticker.C:
		}
	}
}

func (a *AutoRefresh) fire(ctx context.Context) {
	if a.stale() {
		return
	}
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		_ = a.store.refresh(ctx, a.stale)
	}()
}
