package store

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

CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	full_name     TEXT NOT NULL,
	email         TEXT NOT NULL UNIQUE,
	date_of_birth TEXT NOT NULL DEFAULT '',
	password_hash TEXT NOT NULL,
	created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS tasks (
	id          TEXT PRIMARY KEY,
	owner_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	description TEXT NOT NULL,
	progress    INTEGER NOT NULL DEFAULT 0 CHECK(progress BETWEEN 0 AND 100),
	priority    INTEGER NOT NULL DEFAULT 2 CHECK(priority BETWEEN 1 AND 3),
	created_at  DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS locations (
	id               TEXT PRIMARY KEY,
	owner_id         TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	place            TEXT NOT NULL,
	task_description TEXT NOT NULL DEFAULT '',
	latitude         REAL NOT NULL DEFAULT 0,
	longitude        REAL NOT NULL DEFAULT 0,
	created_at       DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS notifications (
	id      TEXT PRIMARY KEY,
	user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	body    TEXT NOT NULL,
	date    DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tasks_owner_id ON tasks(owner_id);
CREATE INDEX IF NOT EXISTS idx_tasks_created_at ON tasks(created_at);
CREATE INDEX IF NOT EXISTS idx_locations_owner_id ON locations(owner_id);
CREATE INDEX IF NOT EXISTS idx_notifications_user_id ON notifications(user_id);
CREATE INDEX IF NOT EXISTS idx_notifications_date ON notifications(date);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
ALTER TABLE users ADD COLUMN notify_distance_km REAL;

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
