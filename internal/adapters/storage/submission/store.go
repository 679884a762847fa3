package submission

import (
	"context"
	"errors"

	domain "journal/internal/domain/submission"
)

// ErrNotFound is returned when no record has the requested id.
var ErrNotFound = errors.New("submission not found")

// Store persists dashboard submission records.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Record, error)
	Save(ctx context.Context, r domain.Record) error
	UpdateStatus(ctx context.Context, id, status string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Record, error)
	Count(ctx context.Context) (int, error)
}

// ListFilter narrows List. Empty fields match everything.
type ListFilter struct {
	Status         string
	Specialization string
}
