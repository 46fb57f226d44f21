package history_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qmdesk/cashier-console/internal/model"
	"github.com/qmdesk/cashier-console/tests/testutil"
)

func sampleNotification(i int) model.Notification {
	return model.Notification{
		ID:        fmt.Sprintf("n%d", i),
		CreatedAt: time.Date(2026, 8, 26, 9, i, 0, 0, time.UTC),
		Customer: model.Customer{
			ID:            int64(i),
			Name:          fmt.Sprintf("Customer %d", i),
			ORNumber:      fmt.Sprintf("OR-%04d", i),
			TokenNumber:   fmt.Sprintf("T-%03d", i),
			PaymentAmount: 150.50,
			PaymentMode:   "cash",
		},
	}
}

func TestRecordAndRecent(t *testing.T) {
	l := testutil.NewTestHistory(t)
	ctx := context.Background()

	require.NoError(t, l.Record(ctx, sampleNotification(1)))
	require.NoError(t, l.Record(ctx, sampleNotification(2)))

	entries, err := l.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Most recently received first.
	assert.Equal(t, "n2", entries[0].NotificationID)
	assert.Equal(t, "Customer 2", entries[0].CustomerName)
	assert.Equal(t, "T-002", entries[0].TokenNumber)
	assert.Equal(t, "Regular", entries[0].PriorityType)
	assert.Nil(t, entries[0].ReadAt)
	assert.Equal(t, "n1", entries[1].NotificationID)
}

func TestRecordDeduplicatesByNotificationID(t *testing.T) {
	l := testutil.NewTestHistory(t)
	ctx := context.Background()

	n := sampleNotification(1)
	require.NoError(t, l.Record(ctx, n))
	require.NoError(t, l.Record(ctx, n))

	entries, err := l.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestMarkRead(t *testing.T) {
	l := testutil.NewTestHistory(t)
	ctx := context.Background()

	require.NoError(t, l.Record(ctx, sampleNotification(1)))
	require.NoError(t, l.MarkRead(ctx, "n1"))

	entries, err := l.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NotNil(t, entries[0].ReadAt)
	assert.WithinDuration(t, time.Now().UTC(), *entries[0].ReadAt, time.Minute)
}

func TestMarkReadUnknownIDIsNoOp(t *testing.T) {
	l := testutil.NewTestHistory(t)
	ctx := context.Background()

	require.NoError(t, l.Record(ctx, sampleNotification(1)))
	require.NoError(t, l.MarkRead(ctx, "missing"))

	entries, err := l.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Nil(t, entries[0].ReadAt)
}

func TestMarkReadKeepsFirstReadTime(t *testing.T) {
	l := testutil.NewTestHistory(t)
	ctx := context.Background()

	require.NoError(t, l.Record(ctx, sampleNotification(1)))
	require.NoError(t, l.MarkRead(ctx, "n1"))

	entries, err := l.Recent(ctx, 10)
	require.NoError(t, err)
	first := *entries[0].ReadAt

	require.NoError(t, l.MarkRead(ctx, "n1"))

	entries, err = l.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, first, *entries[0].ReadAt)
}

func TestRecentLimit(t *testing.T) {
	l := testutil.NewTestHistory(t)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		require.NoError(t, l.Record(ctx, sampleNotification(i)))
	}

	entries, err := l.Recent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "n5", entries[0].NotificationID)
	assert.Equal(t, "n3", entries[2].NotificationID)
}

func TestPriorityTypeStoredFromFlags(t *testing.T) {
	l := testutil.NewTestHistory(t)
	ctx := context.Background()

	n := sampleNotification(1)
	n.Customer.PriorityFlags.SeniorCitizen = true
	require.NoError(t, l.Record(ctx, n))

	entries, err := l.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Senior Citizen", entries[0].PriorityType)
}
