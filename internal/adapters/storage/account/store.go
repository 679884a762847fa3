package account

import (
	"context"
	"errors"

	domain "journal/internal/domain/account"
)

// ErrNotFound is returned when no credential has the requested username.
var ErrNotFound = errors.New("credential not found")

// Store persists editorial credentials.
type Store interface {
	GetByUsername(ctx context.Context, username string) (domain.Credential, error)
	Create(ctx context.Context, c domain.Credential) error
	UpdatePassword(ctx context.Context, username, passwordHash string) error
	Delete(ctx context.Context, username string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Credential, error)
	Count(ctx context.Context) (int, error)
}

// ListFilter carries paging parameters for List.
type ListFilter struct {
	Limit  int
	Offset int
}
