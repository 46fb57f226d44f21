package dashboard

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/qmdesk/cashier-console/internal/history"
	"github.com/qmdesk/cashier-console/internal/keys"
	"github.com/qmdesk/cashier-console/internal/model"
	"github.com/qmdesk/cashier-console/internal/notify"
	"github.com/qmdesk/cashier-console/internal/stats"
)

func newTestDashboard(tracker *stats.Tracker) Model {
	store := notify.NewStore(20, nil, zerolog.Nop())
	return New(store, tracker, keys.DefaultKeyMap(), 10, 100, 40)
}

func TestViewShowsQueueStatsFromTracker(t *testing.T) {
	tracker := stats.NewTracker()
	tracker.Set(model.QueueStats{TotalWaiting: 37, PriorityCustomers: 4})
	m := newTestDashboard(tracker)

	assert.Contains(t, m.View(), "37")

	// A patch applied to the shared tracker shows on the next render
	// without any message reaching the dashboard.
	waiting := 53
	tracker.Apply(model.QueueStatsPatch{TotalWaiting: &waiting})
	assert.Contains(t, m.View(), "53")
}

func TestViewShowsRecentActivity(t *testing.T) {
	m := newTestDashboard(stats.NewTracker())

	read := time.Now()
	m.SetRecentActivity([]history.Entry{
		{NotificationID: "n1", CustomerName: "Ana Reyes", TokenNumber: "T-014", ReceivedAt: time.Now()},
		{NotificationID: "n2", CustomerName: "Ben Cruz", TokenNumber: "T-013", ReceivedAt: time.Now(), ReadAt: &read},
	})

	out := m.View()
	assert.Contains(t, out, "Recent activity")
	assert.Contains(t, out, "Ana Reyes")
	assert.Contains(t, out, "pending")
	assert.Contains(t, out, "Ben Cruz")
	assert.Contains(t, out, "handled")
}

func TestViewEmptyRecentActivity(t *testing.T) {
	m := newTestDashboard(stats.NewTracker())
	assert.Contains(t, m.View(), "nothing recorded yet")
}
