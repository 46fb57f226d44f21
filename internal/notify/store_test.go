package notify

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qmdesk/cashier-console/internal/model"
)

// fakeMarker records mark-read calls and optionally fails them.
type fakeMarker struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (f *fakeMarker) MarkNotificationRead(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, id)
	return f.err
}

func (f *fakeMarker) callIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func notification(i int) model.Notification {
	return model.Notification{
		ID:        fmt.Sprintf("n%d", i),
		CreatedAt: time.Now(),
		Customer: model.Customer{
			ID:          int64(i),
			Name:        fmt.Sprintf("Customer %d", i),
			TokenNumber: fmt.Sprintf("T-%03d", i),
		},
	}
}

func newTestStore(capacity int) (*Store, *fakeMarker) {
	marker := &fakeMarker{}
	return NewStore(capacity, marker, zerolog.Nop()), marker
}

func TestReceiveIsIdempotentForMembership(t *testing.T) {
	s, _ := newTestStore(10)

	n := notification(1)
	s.Receive(n)
	s.Receive(n)

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, []model.Notification{n}, s.Items())
}

func TestDuplicateReceiveStillIncrementsUnread(t *testing.T) {
	s, _ := newTestStore(10)

	s.LoadSnapshot([]model.Notification{notification(1)})
	require.Equal(t, 1, s.UnreadCount())

	s.Receive(notification(1))

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 2, s.UnreadCount())
}

func TestReceiveEvictsOldestBeyondCapacity(t *testing.T) {
	s, _ := newTestStore(3)

	for i := 1; i <= 5; i++ {
		s.Receive(notification(i))
	}

	items := s.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "n5", items[0].ID)
	assert.Equal(t, "n4", items[1].ID)
	assert.Equal(t, "n3", items[2].ID)
}

func TestLoadSnapshotCapsListAndKeepsReportedTotal(t *testing.T) {
	s, _ := newTestStore(10)

	snapshot := make([]model.Notification, 15)
	for i := range snapshot {
		snapshot[i] = notification(i + 1)
	}
	s.LoadSnapshot(snapshot)

	items := s.Items()
	require.Len(t, items, 10)
	for i := 0; i < 10; i++ {
		assert.Equal(t, fmt.Sprintf("n%d", i+1), items[i].ID)
	}
	assert.Equal(t, 15, s.UnreadCount())
}

func TestLoadSnapshotReplacesWholesale(t *testing.T) {
	s, _ := newTestStore(10)

	s.Receive(notification(99))
	s.LoadSnapshot([]model.Notification{notification(1), notification(2)})

	items := s.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "n1", items[0].ID)
	assert.Equal(t, 2, s.UnreadCount())
}

func TestMarkReadRemovesAndDecrements(t *testing.T) {
	s, marker := newTestStore(10)

	s.Receive(notification(1))
	s.Receive(notification(2))
	require.Equal(t, 2, s.UnreadCount())

	s.MarkRead(context.Background(), "n1")

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 1, s.UnreadCount())
	assert.Eventually(t, func() bool {
		return len(marker.callIDs()) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"n1"}, marker.callIDs())
}

func TestMarkReadAbsentIDIsNoOp(t *testing.T) {
	s, marker := newTestStore(10)

	s.Receive(notification(1))
	s.MarkRead(context.Background(), "missing")

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 1, s.UnreadCount())
	assert.Empty(t, marker.callIDs())
}

func TestMarkReadFailureKeepsLocalRemoval(t *testing.T) {
	s, marker := newTestStore(10)
	marker.err = fmt.Errorf("backend down")

	s.Receive(notification(1))
	s.MarkRead(context.Background(), "n1")

	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 0, s.UnreadCount())
	assert.Eventually(t, func() bool {
		return len(marker.callIDs()) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestRemoveLocalSkipsBackendCall(t *testing.T) {
	s, marker := newTestStore(10)

	s.Receive(notification(1))
	s.RemoveLocal("n1")

	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 0, s.UnreadCount())
	assert.Empty(t, marker.callIDs())
}

func TestUnreadCountNeverGoesNegative(t *testing.T) {
	s, _ := newTestStore(10)

	s.Receive(notification(1))
	s.RemoveLocal("n1")
	require.Equal(t, 0, s.UnreadCount())

	// A second removal of the same id and removals while the counter is
	// already zero must both leave it at zero.
	s.RemoveLocal("n1")
	assert.Equal(t, 0, s.UnreadCount())

	s.Receive(notification(2))
	s.Receive(notification(2)) // duplicate bumps the counter past the list length
	s.RemoveLocal("n2")
	s.RemoveLocal("n2")
	assert.GreaterOrEqual(t, s.UnreadCount(), 0)
}

func TestMarkAllReadIssuesOneRequestPerEntry(t *testing.T) {
	s, marker := newTestStore(10)

	for i := 1; i <= 5; i++ {
		s.Receive(notification(i))
	}

	s.MarkAllRead(context.Background())

	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 0, s.UnreadCount())

	calls := marker.callIDs()
	sort.Strings(calls)
	assert.Equal(t, []string{"n1", "n2", "n3", "n4", "n5"}, calls)
}

func TestMarkAllReadClearsDespiteFailures(t *testing.T) {
	s, marker := newTestStore(10)
	marker.err = fmt.Errorf("backend down")

	for i := 1; i <= 3; i++ {
		s.Receive(notification(i))
	}

	s.MarkAllRead(context.Background())

	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 0, s.UnreadCount())
	assert.Len(t, marker.callIDs(), 3)
}

func TestSubscribeAndUnsubscribe(t *testing.T) {
	s, _ := newTestStore(10)

	var mu sync.Mutex
	changes := 0
	unsubscribe := s.Subscribe(func() {
		mu.Lock()
		changes++
		mu.Unlock()
	})

	s.Receive(notification(1))
	mu.Lock()
	require.Equal(t, 1, changes)
	mu.Unlock()

	unsubscribe()
	s.Receive(notification(2))

	mu.Lock()
	assert.Equal(t, 1, changes)
	mu.Unlock()
}
