// Package history keeps a local sqlite log of every notification this
// terminal has seen and when it was handled. It exists for the operator:
// the live feed is capped and volatile, the log survives restarts.
// Writes are best-effort; a failed insert never blocks the UI.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/qmdesk/cashier-console/internal/model"
)

// Entry is one logged notification.
type Entry struct {
	ID             string     `db:"id"`
	NotificationID string     `db:"notification_id"`
	CustomerID     int64      `db:"customer_id"`
	CustomerName   string     `db:"customer_name"`
	TokenNumber    string     `db:"token_number"`
	ORNumber       string     `db:"or_number"`
	PriorityType   string     `db:"priority_type"`
	PaymentAmount  float64    `db:"payment_amount"`
	PaymentMode    string     `db:"payment_mode"`
	RegisteredAt   time.Time  `db:"registered_at"`
	ReceivedAt     time.Time  `db:"received_at"`
	ReadAt         *time.Time `db:"read_at"`
}

// Log is the sqlite-backed notification history.
type Log struct {
	db *sqlx.DB
}

// Open opens (or creates) the history database at dbPath, enables WAL
// mode, and runs any pending schema migrations.
func Open(dbPath string) (*Log, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening history db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	l := &Log{db: db}
	if err := l.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return l, nil
}

// Close closes the underlying database connection.
func (l *Log) Close() error {
	return l.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (l *Log) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := l.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = l.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := l.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// Record logs a notification. Recording the same notification id twice
// (snapshot reload, duplicate push) is a no-op.
func (l *Log) Record(ctx context.Context, n model.Notification) error {
	const query = `
		INSERT OR IGNORE INTO notification_history (
			id, notification_id, customer_id, customer_name,
			token_number, or_number, priority_type,
			payment_amount, payment_mode,
			registered_at, received_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := l.db.ExecContext(ctx, query,
		uuid.NewString(), n.ID, n.Customer.ID, n.Customer.Name,
		n.Customer.TokenNumber, n.Customer.ORNumber, n.Customer.PriorityLabel(),
		n.Customer.PaymentAmount, n.Customer.PaymentMode,
		n.CreatedAt.UTC(), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("recording notification %s: %w", n.ID, err)
	}
	return nil
}

// MarkRead stamps the entry for notificationID with the read time.
// Unknown ids are a no-op.
func (l *Log) MarkRead(ctx context.Context, notificationID string) error {
	_, err := l.db.ExecContext(ctx,
		"UPDATE notification_history SET read_at = ? WHERE notification_id = ? AND read_at IS NULL",
		time.Now().UTC(), notificationID,
	)
	if err != nil {
		return fmt.Errorf("marking history entry %s read: %w", notificationID, err)
	}
	return nil
}

// Recent returns up to limit entries, most recently received first.
func (l *Log) Recent(ctx context.Context, limit int) ([]Entry, error) {
	var entries []Entry
	err := l.db.SelectContext(ctx, &entries,
		"SELECT * FROM notification_history ORDER BY received_at DESC, rowid DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("loading recent history: %w", err)
	}
	return entries, nil
}
