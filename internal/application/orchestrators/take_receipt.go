package orchestrators

import (
	"context"
	"errors"
	"fmt"

	"journal/internal/adapters/storage/clientstorage"
	"journal/internal/domain/manuscript"
)

// ReceiptStore defines the client-storage access needed to show a receipt once.
type ReceiptStore interface {
	Get(ctx context.Context, clientID, key string) (clientstorage.Entry, error)
	Delete(ctx context.Context, clientID, key string) error
}

// TakeReceiptInput names the client whose receipt is wanted.
type TakeReceiptInput struct {
	ClientID string
}

// TakeReceiptDeps holds dependencies for TakeReceipt.
type TakeReceiptDeps struct {
	Store ReceiptStore
}

// ExecuteTakeReceipt returns the Markdown summary of the client's last
// accepted submission and removes it, so it is shown once.
// POST: an empty string means there was nothing to show
func ExecuteTakeReceipt(ctx context.Context, input TakeReceiptInput, deps TakeReceiptDeps) (string, error) {
	if input.ClientID == "" {
		return "", nil
	}
	entry, err := deps.Store.Get(ctx, input.ClientID, manuscript.ReceiptKey)
	if errors.Is(err, clientstorage.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load receipt for %s: %w", input.ClientID, err)
	}
	if err := deps.Store.Delete(ctx, input.ClientID, manuscript.ReceiptKey); err != nil {
		return "", fmt.Errorf("drop receipt for %s: %w", input.ClientID, err)
	}
	return entry.Value, nil
}
