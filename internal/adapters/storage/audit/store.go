package audit

import (
	"context"

	domain "journal/internal/domain/audit"
)

// Store persists the editorial trail.
type Store interface {
	// Save persists an audit event.
	// PRE: event is valid
	Save(ctx context.Context, event domain.Event) error

	// List returns events newest first.
	// PRE: limit > 0
	List(ctx context.Context, filter Filter, limit int) ([]domain.Event, error)
}

// Filter narrows List. Nil fields match everything.
type Filter struct {
	Action     *domain.Action
	Editor     *string
	ResourceID *string
}

var _ Store = (*SQLiteStore)(nil)
