package state

import (
	"errors"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/gadaielektronik/pawndesk/internal/orders"
)

var (
	// ErrClosed is returned by operations on a torn-down store.
	ErrClosed = errors.New("state: store closed")
	// ErrDiscarded is returned when a refresh result arrived after its
	// schedule was cancelled and was dropped.
	ErrDiscarded = errors.New("state: stale result discarded")
)

// Action names reported to the Recorder.
const (
	ActionVerify = "verify"
	ActionDelete = "delete"
)

// Recorder receives operation outcomes, typically for metrics.
type Recorder interface {
	ObserveRefresh(elapsed time.Duration, err error)
	ObserveAction(action string, err error)
	SetOrderCount(n int)
}

type noopRecorder struct{}

func (noopRecorder) ObserveRefresh(time.Duration, error) {}
func (noopRecorder) ObserveAction(string, error)         {}
func (noopRecorder) SetOrderCount(int)                   {}

// NoticeKind distinguishes success notices from failures.
type NoticeKind int

const (
	NoticeInfo NoticeKind = iota
	NoticeError
)

// Notice is a dismissible message produced by a user-triggered action.
type Notice struct {
	Kind    NoticeKind
	Message string
	OrderID int64
	Err     error
	At      time.Time
}

// Snapshot is a copy of the store state handed to the presentation layer.
type Snapshot struct {
	Orders              []orders.Order
	Loading             bool
	Sending             []int64 // ids with a verification send in flight, ascending
	LastUpdated         time.Time
	LastAttempt         time.Time
	LastError           error
	ConsecutiveFailures int
	Notice              *Notice
}

// IsOffline reports whether the service has failed several refreshes in a row.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// IsSending reports whether id is in the action lock.
func (s Snapshot) IsSending(id int64) bool {
	_, found := slices.BinarySearch(s.Sending, id)
	return found
}

// Order returns the order with id from the snapshot.
func (s Snapshot) Order(id int64) (orders.Order, bool) {
	if i := orders.Find(s.Orders, id); i >= 0 {
		return s.Orders[i], true
	}
	return orders.Order{}, false
}

// Store owns the order collection and is the only component that mutates it.
// Construct with NewStore.
type Store struct {
	svc orders.OrderService
	log *zap.Logger
	rec Recorder
	now func() time.Time

	mu          sync.RWMutex
	items       []orders.Order
	inflight    int
	sending     map[int64]struct{}
	lastUpdated time.Time
	lastAttempt time.Time
	lastErr     error
	failures    int
	notice      *Notice
	closed      bool
	subs        map[int]chan struct{}
	nextSub     int
	schedules   []*AutoRefresh
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for refresh and action outcomes.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithRecorder sets the metrics sink.
func WithRecorder(r Recorder) Option {
	return func(s *Store) {
		if r != nil {
			s.rec = r
		}
	}
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore builds an empty store backed by svc.
func NewStore(svc orders.OrderService, opts ...Option) *Store {
	s := &Store{
		svc:     svc,
		log:     zap.NewNop(),
		rec:     noopRecorder{},
		now:     time.Now,
		sending: make(map[int64]struct{}),
		subs:    make(map[int]chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Orders:              orders.Clone(s.items),
		Loading:             s.inflight > 0,
		LastUpdated:         s.lastUpdated,
		LastAttempt:         s.lastAttempt,
		LastError:           s.lastErr,
		ConsecutiveFailures: s.failures,
	}
	if len(s.sending) > 0 {
		snap.Sending = make([]int64, 0, len(s.sending))
		for id := range s.sending {
			snap.Sending = append(snap.Sending, id)
		}
		slices.Sort(snap.Sending)
	}
	if s.notice != nil {
		n := *s.notice
		snap.Notice = &n
	}
	return snap
}

// Subscribe returns a channel that receives a signal after every state
// change. Signals coalesce: a slow reader sees one pending signal, not a
// backlog. The channel is closed by the returned cancel func or by Close.
func (s *Store) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.mu.Unlock()

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
}

// DismissNotice clears the current notice.
func (s *Store) DismissNotice() {
	s.mu.Lock()
	if s.closed || s.notice == nil {
		s.mu.Unlock()
		return
	}
	s.notice = nil
	s.mu.Unlock()
	s.notify()
}

// Close tears the store down. Auto-refresh schedules are stopped, results
// that arrive afterwards are discarded and subscriber channels are closed.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
	schedules := s.schedules
	s.schedules = nil
	s.mu.Unlock()

	for _, a := range schedules {
		a.Stop()
	}
}

// Closed reports whether Close has been called.
func (s *Store) Closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

func (s *Store) notify() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// detachLocked drops a from the schedule list. mu must be held.
func (s *Store) detachLocked(a *AutoRefresh) {
	s.schedules = slices.DeleteFunc(s.schedules, func(x *AutoRefresh) bool { return x == a })
}

// setNotice must be called with mu held.
func (s *Store) setNotice(kind NoticeKind, id int64, msg string, err error) {
	s.notice = &Notice{Kind: kind, Message: msg, OrderID: id, Err: err, At: s.now()}
}
