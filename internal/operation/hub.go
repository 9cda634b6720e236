package operation

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/dayledger/internal/logger"
)

// Loader returns the current snapshot of an operation.
type Loader func(ctx context.Context, id uuid.UUID) (*Snapshot, error)

// Hub fans whole snapshots out to subscribers of an operation. Every pushed
// snapshot is authoritative: consumers replace their state with it.
type Hub struct {
	load Loader

	mu    sync.Mutex
	subs  map[uuid.UUID]map[*Subscription]struct{}
	locks map[uuid.UUID]*opLock
}

// opLock serializes load+deliver for one operation so a snapshot loaded
// earlier is never delivered after one loaded later. Other operations are not
// held up by a slow load.
type opLock struct {
	mu     sync.Mutex
	refs   int
	queued bool
}

func NewHub(load Loader) *Hub {
	return &Hub{
		load:  load,
		subs:  make(map[uuid.UUID]map[*Subscription]struct{}),
		locks: make(map[uuid.UUID]*opLock),
	}
}

// Subscription is a cancellable handle on the snapshots of one operation.
// C holds at most one pending snapshot; a slow reader only sees the latest.
// C is closed once the subscription is cancelled.
type Subscription struct {
	C <-chan *Snapshot

	ch     chan *Snapshot
	id     uuid.UUID
	hub    *Hub
	once   sync.Once
	closed chan struct{}
}

// Subscribe registers for snapshots of the operation. The current snapshot is
// available on C immediately. The subscription ends when ctx is done or Cancel
// is called.
func (h *Hub) Subscribe(ctx context.Context, id uuid.UUID) (*Subscription, error) {
	l := h.lock(id)
	defer h.unlock(id, l)

	snap, err := h.load(ctx, id)
	if err != nil {
		return nil, err
	}

	ch := make(chan *Snapshot, 1)
	sub := &Subscription{
		C:      ch,
		ch:     ch,
		id:     id,
		hub:    h,
		closed: make(chan struct{}),
	}

	h.mu.Lock()
	if h.subs[id] == nil {
		h.subs[id] = make(map[*Subscription]struct{})
	}

	h.subs[id][sub] = struct{}{}
	sub.offer(snap)
	h.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			sub.Cancel()
		case <-sub.closed:
		}
	}()

	return sub, nil
}

// Cancel stops delivery and closes C. It is safe to call more than once.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		s.hub.remove(s)
		close(s.closed)
	})
}

// Refresh reloads the operation and pushes the snapshot to its subscribers.
// Operations nobody watches are not loaded.
func (h *Hub) Refresh(ctx context.Context, id uuid.UUID) {
	l := h.lock(id)
	defer h.unlock(id, l)

	h.refresh(ctx, id)
}

// Notify schedules a Refresh without waiting for it. A notification that
// arrives while a refresh for the same operation is still queued is folded
// into that refresh; it has not loaded yet.
func (h *Hub) Notify(ctx context.Context, id uuid.UUID) {
	h.mu.Lock()
	if len(h.subs[id]) == 0 {
		h.mu.Unlock()
		return
	}

	if l, ok := h.locks[id]; ok && l.queued {
		h.mu.Unlock()
		return
	}

	l := h.ref(id)
	l.queued = true
	h.mu.Unlock()

	go func() {
		l.mu.Lock()
		defer h.unlock(id, l)

		h.mu.Lock()
		l.queued = false
		h.mu.Unlock()

		h.refresh(ctx, id)
	}()
}

// refresh loads and delivers. Callers hold the operation's lock.
func (h *Hub) refresh(ctx context.Context, id uuid.UUID) {
	if h.Subscribers(id) == 0 {
		return
	}

	snap, err := h.load(ctx, id)
	if err != nil {
		logger.Log.Error().Err(err).Str("operation_id", id.String()).Msg("failed to refresh snapshot")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.subs[id] {
		sub.offer(snap)
	}
}

// lock takes the operation's lock, creating it on first use.
func (h *Hub) lock(id uuid.UUID) *opLock {
	h.mu.Lock()
	l := h.ref(id)
	h.mu.Unlock()

	l.mu.Lock()

	return l
}

func (h *Hub) unlock(id uuid.UUID, l *opLock) {
	l.mu.Unlock()

	h.mu.Lock()
	defer h.mu.Unlock()

	l.refs--
	if l.refs == 0 {
		delete(h.locks, id)
	}
}

// ref counts a user of the operation's lock. Callers hold h.mu.
func (h *Hub) ref(id uuid.UUID) *opLock {
	l, ok := h.locks[id]
	if !ok {
		l = &opLock{}
		h.locks[id] = l
	}

	l.refs++

	return l
}

// Subscribers reports how many live subscriptions watch the operation.
func (h *Hub) Subscribers(id uuid.UUID) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.subs[id])
}

func (h *Hub) remove(s *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set := h.subs[s.id]
	if _, ok := set[s]; !ok {
		return
	}

	delete(set, s)

	if len(set) == 0 {
		delete(h.subs, s.id)
	}

	close(s.ch)
}

// offer replaces any pending snapshot with snap. Callers hold h.mu, which makes
// the hub the only sender and keeps the second send from blocking.
func (s *Subscription) offer(snap *Snapshot) {
	select {
	case s.ch <- snap:
		return
	default:
	}

	select {
	case <-s.ch:
	default:
	}

	s.ch <- snap
}
