// Package clientstorage persists small per-browser key/value pairs, scoped
// by the client id cookie.
package clientstorage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a client has no value under the key.
var ErrNotFound = errors.New("client storage key not found")

// Entry is one stored value.
type Entry struct {
	ClientID  string
	Key       string
	Value     string
	UpdatedAt time.Time
}

// Store is a string→string map per client. Writes overwrite wholesale.
type Store interface {
	Get(ctx context.Context, clientID, key string) (Entry, error)
	Set(ctx context.Context, clientID, key, value string) error
	Delete(ctx context.Context, clientID, key string) error
	PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
