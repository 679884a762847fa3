package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"journal/internal/adapters/storage"
	domain "journal/internal/domain/audit"
)

// Fixed width so timestamps sort lexically.
const dateLayout = "2006-01-02T15:04:05.000000000Z07:00"

const selectColumns = `SELECT id, timestamp, action, editor, resource_id, description FROM editorial_event`

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new audit event store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Save persists an audit event.
// PRE: event is valid
// POST: Event is persisted
func (s *SQLiteStore) Save(ctx context.Context, event domain.Event) error {
	if err := event.Validate(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO editorial_event (id, timestamp, action, editor, resource_id, description)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		event.ID, event.Timestamp.UTC().Format(dateLayout), string(event.Action),
		event.Editor, event.ResourceID, event.Description)
	if err != nil {
		return fmt.Errorf("audit save: %w", err)
	}
	return nil
}

// List returns audit events with optional filtering.
// PRE: limit > 0
// POST: Returns events ordered by timestamp desc
func (s *SQLiteStore) List(ctx context.Context, filter Filter, limit int) ([]domain.Event, error) {
	query := selectColumns + ` WHERE 1=1`
	args := []any{}

	if filter.Action != nil {
		query += " AND action = ?"
		args = append(args, string(*filter.Action))
	}
	if filter.Editor != nil {
		query += " AND editor = ?"
		args = append(args, *filter.Editor)
	}
	if filter.ResourceID != nil {
		query += " AND resource_id = ?"
		args = append(args, *filter.ResourceID)
	}

	query += " ORDER BY timestamp DESC, id LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("audit list: %w", err)
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func scanEvent(rows *sql.Rows) (domain.Event, error) {
	var e domain.Event
	var timestamp string
	if err := rows.Scan(&e.ID, &timestamp, &e.Action, &e.Editor, &e.ResourceID, &e.Description); err != nil {
		return domain.Event{}, err
	}
	e.Timestamp, _ = time.Parse(dateLayout, timestamp)
	return e, nil
}
