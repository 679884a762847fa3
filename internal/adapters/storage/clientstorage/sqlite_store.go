package clientstorage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	storage "journal/internal/adapters/storage"
)

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type sqliteStore struct {
	db  storage.SQLDB
	now func() time.Time
}

// NewSQLiteStore returns a Store backed by SQLite.
func NewSQLiteStore(db storage.SQLDB) Store {
	return &sqliteStore{db: db, now: time.Now}
}

// Get returns the value stored under key.
// POST: returns an error wrapping ErrNotFound if nothing is stored
func (s *sqliteStore) Get(ctx context.Context, clientID, key string) (Entry, error) {
	e := Entry{ClientID: clientID, Key: key}
	var updatedAt string
	err := s.db.QueryRowContext(ctx,
		"SELECT value, updated_at FROM client_storage WHERE client_id = ? AND key = ?",
		clientID, key).Scan(&e.Value, &updatedAt)
	if err == sql.ErrNoRows {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return Entry{}, fmt.Errorf("client storage get: %w", err)
	}
	e.UpdatedAt, _ = time.Parse(timeLayout, updatedAt)
	return e, nil
}

// Set stores value under key, replacing any previous value.
func (s *sqliteStore) Set(ctx context.Context, clientID, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO client_storage (client_id, key, value, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(client_id, key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at`,
		clientID, key, value, s.now().UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("client storage set: %w", err)
	}
	return nil
}

// Delete removes key. Removing a missing key is not an error.
func (s *sqliteStore) Delete(ctx context.Context, clientID, key string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM client_storage WHERE client_id = ? AND key = ?", clientID, key)
	return err
}

// PurgeBefore deletes entries last written before cutoff and returns how many went.
func (s *sqliteStore) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM client_storage WHERE updated_at < ?", cutoff.UTC().Format(timeLayout))
	if err != nil {
		return 0, fmt.Errorf("client storage purge: %w", err)
	}
	return res.RowsAffected()
}
