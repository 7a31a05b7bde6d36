// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// SQLite is an embedded database — no separate server to run, a single file
// on disk (or ":memory:" for tests). We use modernc.org/sqlite, a pure Go
// translation of the SQLite C code, so the binary cross-compiles without a C
// toolchain.
//
// Every mutation here is a single-row INSERT/UPDATE/DELETE, which SQLite
// executes atomically; no multi-row transactions are needed. Conflicting
// writes to the same row serialize inside SQLite — last write wins.
package sqlite

import (
	"database/sql"
	"fmt"

	// Side-effect import: registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and implements both repository
// interfaces (user.go and recommendation.go attach the methods). The server
// owns the lifecycle: New opens and migrates, Close releases the file lock.
type DB struct {
	conn *sql.DB
}

// New opens the SQLite database at dbPath and runs migrations.
// Use ":memory:" for an ephemeral database in tests.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// An in-memory database exists per connection; cap the pool at one so
	// every query sees the same data.
	if dbPath == ":memory:" {
		conn.SetMaxOpenConns(1)
	}

	// sql.Open only creates the pool; Ping forces a real connection so a bad
	// path or permissions problem surfaces here, not on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL mode allows concurrent reads while a write is in progress —
	// necessary for a web server where requests overlap.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps it safe to
// run on every startup.
//
// The secondary indexes on recommendations back the three filtered read
// paths (owner, genre, staff pick) plus the recency ordering every listing
// uses.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id           TEXT PRIMARY KEY,
			external_id  TEXT NOT NULL UNIQUE,
			email        TEXT NOT NULL DEFAULT '',
			display_name TEXT NOT NULL DEFAULT '',
			avatar_url   TEXT NOT NULL DEFAULT '',
			role         TEXT NOT NULL DEFAULT 'user',
			created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS recommendations (
			id                 TEXT PRIMARY KEY,
			owner_external_id  TEXT NOT NULL,
			owner_display_name TEXT NOT NULL DEFAULT '',
			owner_avatar_url   TEXT NOT NULL DEFAULT '',
			title              TEXT NOT NULL,
			genre              TEXT NOT NULL,
			link               TEXT NOT NULL,
			blurb              TEXT NOT NULL,
			is_staff_pick      INTEGER NOT NULL DEFAULT 0,
			created_at         DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_recommendations_owner      ON recommendations(owner_external_id);
		CREATE INDEX IF NOT EXISTS idx_recommendations_genre      ON recommendations(genre);
		CREATE INDEX IF NOT EXISTS idx_recommendations_staff_pick ON recommendations(is_staff_pick);
		CREATE INDEX IF NOT EXISTS idx_recommendations_created_at ON recommendations(created_at);
	`)
	if err != nil {
		return fmt.Errorf("creating recommendations table: %w", err)
	}

	return nil
}
