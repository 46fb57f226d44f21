package testutil

import (
	"testing"

	"github.com/qmdesk/cashier-console/internal/history"
)

// NewTestHistory creates an in-memory history log with all migrations
// applied. It automatically closes the log when the test completes.
func NewTestHistory(t *testing.T) *history.Log {
	t.Helper()

	l, err := history.Open(":memory:")
	if err != nil {
		t.Fatalf("creating test history: %v", err)
	}

	t.Cleanup(func() {
		if err := l.Close(); err != nil {
			t.Errorf("closing test history: %v", err)
		}
	})

	return l
}
