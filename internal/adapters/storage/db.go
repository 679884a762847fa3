package storage

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// migration upgrades the schema by one version inside tx.
type migration func(tx *sql.Tx) error

// migrations is the ordered chain; index i produces version i+1.
// Append only: never edit an applied step.
var migrations = []migration{
	migrateBaseline,
	migrateSubmissionIndexes,
	migrateEditorialEvents,
}

// LatestSchemaVersion is the version MigrateDB brings a database to.
func LatestSchemaVersion() int {
	return len(migrations)
}

// SchemaVersion reads the applied schema version. A fresh database is 0.
// PRE: db is a valid database connection
func SchemaVersion(db *sql.DB) (int, error) {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL, applied_at TEXT NOT NULL)`); err != nil {
		return 0, fmt.Errorf("failed to create schema_version: %w", err)
	}
	var v sql.NullInt64
	if err := db.QueryRow(`SELECT MAX(version) FROM schema_version`).Scan(&v); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return int(v.Int64), nil
}

// MigrateDB applies every pending migration in its own transaction.
// PRE: db is a valid database connection
// POST: SchemaVersion(db) == LatestSchemaVersion()
func MigrateDB(db *sql.DB, dbPath string) error {
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	current, err := SchemaVersion(db)
	if err != nil {
		return err
	}
	if current > LatestSchemaVersion() {
		return fmt.Errorf("database %s is at schema version %d, newer than this binary (%d)", dbPath, current, LatestSchemaVersion())
	}

	for v := current; v < LatestSchemaVersion(); v++ {
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("migration %d: %w", v+1, err)
		}
		if err := migrations[v](tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d: %w", v+1, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_version (version, applied_at) VALUES (?, ?)`,
			v+1, time.Now().UTC().Format(time.RFC3339)); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d: record version: %w", v+1, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migration %d: commit: %w", v+1, err)
		}
		slog.Info("schema_migrated", "db", dbPath, "version", v+1)
	}
	return nil
}

func migrateBaseline(tx *sql.Tx) error {
	_, err := tx.Exec(`
	CREATE TABLE IF NOT EXISTS credential (
		username TEXT PRIMARY KEY,
		password_hash TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS submission (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		author TEXT NOT NULL DEFAULT '',
		institution TEXT NOT NULL DEFAULT '',
		submitted_date TEXT NOT NULL DEFAULT '',
		type TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		specialization TEXT NOT NULL DEFAULT '',
		position INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS client_storage (
		client_id TEXT NOT NULL,
		key TEXT NOT NULL,
		value TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (client_id, key)
	);
	`)
	return err
}

func migrateSubmissionIndexes(tx *sql.Tx) error {
	_, err := tx.Exec(`
	CREATE INDEX IF NOT EXISTS idx_submission_status ON submission(status);
	CREATE INDEX IF NOT EXISTS idx_submission_specialization ON submission(specialization);
	`)
	return err
}

func migrateEditorialEvents(tx *sql.Tx) error {
	_, err := tx.Exec(`
	CREATE TABLE IF NOT EXISTS editorial_event (
		id TEXT PRIMARY KEY,
		timestamp TEXT NOT NULL,
		action TEXT NOT NULL,
		editor TEXT NOT NULL,
		resource_id TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_editorial_event_resource ON editorial_event(resource_id);
	`)
	return err
}
