// Package notify holds the local view of active customer notifications:
// a capped, most-recent-first list deduplicated by id, plus the unread
// counter shown on the bell badge. One store is shared by every surface;
// surfaces subscribe to change callbacks instead of keeping copies.
package notify

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/qmdesk/cashier-console/internal/model"
)

// ReadMarker sends the backend mark-read call for a notification.
// The api client satisfies this; tests substitute a recorder.
type ReadMarker interface {
	MarkNotificationRead(ctx context.Context, id string) error
}

// Store is the authoritative local list of active notifications and the
// unread counter. All methods are safe for concurrent use; the channel
// read loop and UI commands mutate it from different goroutines.
//
// The unread counter follows one rule everywhere: a snapshot load sets it
// to the backend-reported total (which can exceed the capped list length),
// and every mutation after that adjusts it by one, floored at zero. It is
// never re-derived from the list length.
type Store struct {
	mu       sync.Mutex
	capacity int
	items    []model.Notification
	unread   int
	marker   ReadMarker
	log      zerolog.Logger

	subs   map[int]func()
	nextID int
}

// NewStore creates a store holding at most capacity notifications.
func NewStore(capacity int, marker ReadMarker, log zerolog.Logger) *Store {
	return &Store{
		capacity: capacity,
		marker:   marker,
		log:      log,
		subs:     make(map[int]func()),
	}
}

// Subscribe registers fn to run after every state change and returns an
// unsubscribe function. Callbacks run outside the store's lock, so they
// may call back into the store.
func (s *Store) Subscribe(fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// notify invokes all subscribers. Callers must not hold the lock.
func (s *Store) notify() {
	s.mu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// LoadSnapshot replaces the held list with the first capacity entries of
// list (order preserved, assumed most recent first) and sets the unread
// counter to the full snapshot length as reported by the backend.
func (s *Store) LoadSnapshot(list []model.Notification) {
	s.mu.Lock()
	held := list
	if len(held) > s.capacity {
		held = held[:s.capacity]
	}
	s.items = append(s.items[:0:0], held...)
	s.unread = len(list)
	s.mu.Unlock()

	s.notify()
}

// Receive inserts a pushed notification at the front, evicting the oldest
// entry beyond capacity. Membership is deduplicated by id; the unread
// counter increments either way, since the backend counted the event.
func (s *Store) Receive(n model.Notification) {
	s.mu.Lock()
	s.unread++
	if !s.containsLocked(n.ID) {
		s.items = append([]model.Notification{n}, s.items...)
		if len(s.items) > s.capacity {
			s.items = s.items[:s.capacity]
		}
	}
	s.mu.Unlock()

	s.notify()
}

// MarkRead removes the notification locally and fires a best-effort
// mark-read call to the backend. The removal is unconditional: a failed
// backend call is logged and never rolled back. Absent ids are a no-op.
func (s *Store) MarkRead(ctx context.Context, id string) {
	if !s.remove(id) {
		return
	}
	s.notify()

	go func() {
		if err := s.marker.MarkNotificationRead(ctx, id); err != nil {
			s.log.Warn().Err(err).Str("notification_id", id).
				Msg("mark-read request failed; keeping local removal")
		}
	}()
}

// RemoveLocal removes the notification without contacting the backend.
// It handles mark-read events originating from another client, where the
// backend already knows.
func (s *Store) RemoveLocal(id string) {
	if s.remove(id) {
		s.notify()
	}
}

// MarkAllRead issues one mark-read call per held notification
// concurrently, waits for all of them to settle, then clears the list and
// zeroes the counter regardless of individual outcomes.
func (s *Store) MarkAllRead(ctx context.Context) {
	s.mu.Lock()
	ids := make([]string, len(s.items))
	for i, n := range s.items {
		ids[i] = n.ID
	}
	s.mu.Unlock()

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if err := s.marker.MarkNotificationRead(ctx, id); err != nil {
				s.log.Warn().Err(err).Str("notification_id", id).
					Msg("mark-read request failed; clearing anyway")
			}
		}(id)
	}
	wg.Wait()

	s.mu.Lock()
	s.items = nil
	s.unread = 0
	s.mu.Unlock()

	s.notify()
}

// Items returns a copy of the held notifications, most recent first.
func (s *Store) Items() []model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Notification(nil), s.items...)
}

// Len returns the number of held notifications.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// UnreadCount returns the current unread counter.
func (s *Store) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unread
}

// containsLocked reports whether id is held. Callers must hold the lock.
func (s *Store) containsLocked(id string) bool {
	for _, n := range s.items {
		if n.ID == id {
			return true
		}
	}
	return false
}

// remove removes id if present and decrements the unread counter,
// floored at zero. It reports whether anything changed.
func (s *Store) remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.items {
		if n.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			if s.unread > 0 {
				s.unread--
			}
			return true
		}
	}
	return false
}
