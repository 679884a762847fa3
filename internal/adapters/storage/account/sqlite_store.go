package account

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	storage "journal/internal/adapters/storage"
	domain "journal/internal/domain/account"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new credential store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByUsername retrieves a Credential by its username.
// PRE: username is non-empty
// POST: Returns the entity or an error wrapping ErrNotFound
func (s *SQLiteStore) GetByUsername(ctx context.Context, username string) (domain.Credential, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT username, password_hash, created_at FROM credential WHERE username = ?", username)

	c, err := scanCredential(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Credential{}, fmt.Errorf("%w: %s", ErrNotFound, username)
	}
	return c, err
}

// Create inserts a new Credential.
// PRE: c has been validated and PasswordHash is set
// POST: row inserted, or domain.ErrCredentialExists if the username is taken
func (s *SQLiteStore) Create(ctx context.Context, c domain.Credential) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO credential (username, password_hash, created_at) VALUES (?, ?, ?)",
		c.Username, c.PasswordHash, c.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return domain.ErrCredentialExists
	}
	return err
}

// UpdatePassword replaces the stored hash.
// POST: returns ErrNotFound if no row matched
func (s *SQLiteStore) UpdatePassword(ctx context.Context, username, passwordHash string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE credential SET password_hash = ? WHERE username = ?", passwordHash, username)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, username)
	}
	return nil
}

// Delete removes a Credential. Deleting a missing username is not an error.
func (s *SQLiteStore) Delete(ctx context.Context, username string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM credential WHERE username = ?", username)
	return err
}

// List retrieves credentials ordered by username.
// A zero Limit returns every row.
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Credential, error) {
	query := "SELECT username, password_hash, created_at FROM credential ORDER BY username"
	var args []any
	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Credential
	for rows.Next() {
		c, err := scanCredential(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, c)
	}
	return results, rows.Err()
}

// Count returns the number of credentials.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM credential").Scan(&count)
	return count, err
}

// scanCredential extracts a Credential from a row scanner function.
func scanCredential(scan func(dest ...any) error) (domain.Credential, error) {
	var c domain.Credential
	var createdAt string
	if err := scan(&c.Username, &c.PasswordHash, &createdAt); err != nil {
		return domain.Credential{}, err
	}
	c.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return c, nil
}
