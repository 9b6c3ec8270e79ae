package state

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/gadaielektronik/pawndesk/internal/orders"
)

var errNoService = errors.New("state: store has no order service")

// Refresh replaces the collection with the service's current list. On
// failure the previous collection stays in place and the error is recorded
// on the snapshot; the returned error is informational.
func (s *Store) Refresh(ctx context.Context) error {
	return s.refresh(ctx, nil)
}

// refresh runs one list call. stale, when non-nil, is consulted after the
// call returns; a true result drops the response without touching the
// collection.
func (s *Store) refresh(ctx context.Context, stale func() bool) error {
	if s.svc == nil {
		return errNoService
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.inflight++
	s.mu.Unlock()
	s.notify()

	start := s.now()
	items, err := s.svc.ListOrders(ctx)
	elapsed := s.now().Sub(start)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.log.Debug("refresh result dropped after close")
		return ErrClosed
	}
	s.inflight--
	if stale != nil && stale() {
		s.mu.Unlock()
		s.notify()
		s.log.Debug("refresh result dropped after schedule stop")
		return ErrDiscarded
	}

	s.lastAttempt = s.now()
	if err != nil {
		s.lastErr = err
		s.failures++
		failures := s.failures
		s.mu.Unlock()

		s.rec.ObserveRefresh(elapsed, err)
		s.log.Warn("order refresh failed",
			zap.Error(err),
			zap.Int("consecutive_failures", failures),
			zap.Duration("elapsed", elapsed))
		s.notify()
		return err
	}

	prev := s.items
	s.items = orders.Clone(items)
	s.lastUpdated = s.lastAttempt
	s.lastErr = nil
	s.failures = 0
	count := len(s.items)
	s.mu.Unlock()

	s.rec.ObserveRefresh(elapsed, nil)
	s.rec.SetOrderCount(count)
	s.logRegressions(prev, items)
	s.log.Debug("orders refreshed", zap.Int("orders", count), zap.Duration("elapsed", elapsed))
	s.notify()
	return nil
}

// logRegressions reports orders whose status moved backwards between two
// lists. The service is authoritative; this is only a diagnostic.
func (s *Store) logRegressions(prev, next []orders.Order) {
	if len(prev) == 0 {
		return
	}
	before := make(map[int64]orders.Status, len(prev))
	for _, o := range prev {
		before[o.ID] = o.Status
	}
	for _, o := range next {
		if old, ok := before[o.ID]; ok && orders.Regressed(old, o.Status) {
			s.log.Warn("order status moved backwards",
				zap.Int64("order_id", o.ID),
				zap.String("from", string(old)),
				zap.String("to", string(o.Status)))
		}
	}
}

// Verify sends the verification email for id. It reports started=false and
// does nothing when the order is unknown, already verified or awaiting
// verification, or already has a send in flight. The id is held in the
// action lock until the send settles. On success the collection is
// refreshed so the service decides the new status.
func (s *Store) Verify(ctx context.Context, id int64) (started bool, err error) {
	if s.svc == nil {
		return false, errNoService
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false, ErrClosed
	}
	i := orders.Find(s.items, id)
	_, busy := s.sending[id]
	if i < 0 || busy || !s.items[i].CanVerify() {
		s.mu.Unlock()
		return false, nil
	}
	s.sending[id] = struct{}{}
	s.mu.Unlock()
	s.notify()

	err = s.svc.SendVerification(ctx, id)
	s.rec.ObserveAction(ActionVerify, err)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return true, err
	}
	delete(s.sending, id)
	if err != nil {
		s.setNotice(NoticeError, id, fmt.Sprintf("Failed to send verification email for order #%d", id), err)
	} else {
		s.setNotice(NoticeInfo, id, fmt.Sprintf("Verification email sent for order #%d", id), nil)
	}
	s.mu.Unlock()
	s.notify()

	if err != nil {
		s.log.Warn("verification send failed", zap.Int64("order_id", id), zap.Error(err))
		return true, err
	}
	s.log.Info("verification email sent", zap.Int64("order_id", id))
	_ = s.Refresh(ctx)
	return true, nil
}

// Remove deletes id on the service. Confirmation is the caller's job. On
// success the entry is dropped locally without a refresh; on failure the
// collection is left as it was.
func (s *Store) Remove(ctx context.Context, id int64) error {
	if s.svc == nil {
		return errNoService
	}
	if s.Closed() {
		return ErrClosed
	}

	err := s.svc.DeleteOrder(ctx, id)
	s.rec.ObserveAction(ActionDelete, err)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return err
	}
	if err != nil {
		s.setNotice(NoticeError, id, fmt.Sprintf("Failed to delete order #%d", id), err)
		s.mu.Unlock()
		s.notify()
		s.log.Warn("order delete failed", zap.Int64("order_id", id), zap.Error(err))
		return err
	}

	if i := orders.Find(s.items, id); i >= 0 {
		next := make([]orders.Order, 0, len(s.items)-1)
		next = append(next, s.items[:i]...)
		next = append(next, s.items[i+1:]...)
		s.items = next
	}
	s.setNotice(NoticeInfo, id, fmt.Sprintf("Order #%d deleted", id), nil)
	count := len(s.items)
	s.mu.Unlock()

	s.rec.SetOrderCount(count)
	s.log.Info("order deleted", zap.Int64("order_id", id))
	s.notify()
	return nil
}
