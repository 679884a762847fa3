package submission

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	storage "journal/internal/adapters/storage"
	domain "journal/internal/domain/submission"
)

const selectColumns = "SELECT id, title, author, institution, submitted_date, type, status, specialization FROM submission"

type sqliteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore returns a Store backed by SQLite.
func NewSQLiteStore(db storage.SQLDB) Store {
	return &sqliteStore{db: db}
}

// GetByID retrieves a Record by its id.
// PRE: id is non-empty
// POST: returns the record or an error wrapping ErrNotFound
func (s *sqliteStore) GetByID(ctx context.Context, id string) (domain.Record, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id)
	r, err := scanRecord(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return domain.Record{}, fmt.Errorf("submission get: %w", err)
	}
	return r, nil
}

// Save inserts or replaces a Record. New rows are listed after existing ones.
// PRE: r has been validated
func (s *sqliteStore) Save(ctx context.Context, r domain.Record) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO submission (id, title, author, institution, submitted_date, type, status, specialization, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM submission))
		ON CONFLICT(id) DO UPDATE SET
			title=excluded.title,
			author=excluded.author,
			institution=excluded.institution,
			submitted_date=excluded.submitted_date,
			type=excluded.type,
			status=excluded.status,
			specialization=excluded.specialization`,
		r.ID, r.Title, r.Author, r.Institution, r.SubmittedDate, r.Type, r.Status, r.Specialization,
	)
	if err != nil {
		return fmt.Errorf("submission save: %w", err)
	}
	return nil
}

// UpdateStatus changes only the status column.
// PRE: status is a valid domain status
// POST: returns ErrNotFound if no row matched
func (s *sqliteStore) UpdateStatus(ctx context.Context, id, status string) error {
	res, err := s.db.ExecContext(ctx, "UPDATE submission SET status = ? WHERE id = ?", status, id)
	if err != nil {
		return fmt.Errorf("submission update status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// List returns records in insertion order, narrowed by filter.
func (s *sqliteStore) List(ctx context.Context, filter ListFilter) ([]domain.Record, error) {
	var where []string
	var args []any
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.Specialization != "" {
		where = append(where, "specialization = ?")
		args = append(args, filter.Specialization)
	}

	query := selectColumns
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY position, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("submission list: %w", err)
	}
	defer rows.Close()

	var results []domain.Record
	for rows.Next() {
		r, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// Count returns the number of stored records.
func (s *sqliteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM submission").Scan(&n)
	return n, err
}

func scanRecord(scan func(dest ...any) error) (domain.Record, error) {
	var r domain.Record
	err := scan(&r.ID, &r.Title, &r.Author, &r.Institution, &r.SubmittedDate, &r.Type, &r.Status, &r.Specialization)
	return r, err
}
