package history

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS notification_history (
	id              TEXT PRIMARY KEY,
	notification_id TEXT NOT NULL UNIQUE,
	customer_id     INTEGER NOT NULL,
	customer_name   TEXT NOT NULL DEFAULT '',
	token_number    TEXT NOT NULL DEFAULT '',
	or_number       TEXT NOT NULL DEFAULT '',
	priority_type   TEXT NOT NULL DEFAULT 'Regular',
	payment_amount  REAL NOT NULL DEFAULT 0,
	payment_mode    TEXT NOT NULL DEFAULT '',
	registered_at   DATETIME NOT NULL,
	received_at     DATETIME NOT NULL,
	read_at         DATETIME
);

CREATE INDEX IF NOT EXISTS idx_history_received_at
	ON notification_history(received_at);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
