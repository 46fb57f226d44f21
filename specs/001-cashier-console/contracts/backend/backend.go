// Package backend defines the contract the console expects from the
// queue-management REST API. The api package's Client is the
// implementation used in production.
package backend

import (
	"context"
	"time"
)

// TokenProvider supplies the bearer token for every outbound request.
// The credential store (keyring) implements this in production.
type TokenProvider interface {
	Token() (string, error)
}

// Notification is a customer-registration event (see internal/model).
type Notification struct {
	ID        string
	CreatedAt time.Time
	Customer  Customer
}

// Customer is the registered customer inside a notification.
type Customer struct {
	ID            int64
	Name          string
	ORNumber      string
	TokenNumber   string
	PaymentAmount float64
	PaymentMode   string
	PriorityType  string
}

// QueueStats is the current queue snapshot.
type QueueStats struct {
	TotalWaiting      int
	PriorityCustomers int
	AverageWaitTime   float64
}

// DailyStats is the transaction report for one day.
type DailyStats struct {
	TotalTransactions   int
	TotalAmount         float64
	PaidTransactions    int
	UnpaidTransactions  int
	RegisteredCustomers int
}

// Backend is the REST surface the console consumes. Every call attaches
// the bearer token, bounds itself with a 10 s default timeout, and fails
// exactly once: no retry, no backoff.
type Backend interface {
	// ActiveNotifications returns the current snapshot, most recent first.
	ActiveNotifications(ctx context.Context) ([]Notification, error)

	// MarkNotificationRead reports a handled notification. Callers treat
	// it as best-effort and never roll back local state on failure.
	MarkNotificationRead(ctx context.Context, id string) error

	// QueueStats returns the full current queue statistics record.
	QueueStats(ctx context.Context) (QueueStats, error)

	// DailyReport returns the transaction report for the given day.
	DailyReport(ctx context.Context, date time.Time) (DailyStats, error)
}
