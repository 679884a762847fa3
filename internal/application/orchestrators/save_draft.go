package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"time"

	"journal/internal/application/autosave"
	"journal/internal/domain/manuscript"
)

// ErrNoClient is returned when a draft operation has no client id.
var ErrNoClient = errors.New("client id is required")

// DraftWriter defines the client-storage access needed to save a draft.
type DraftWriter interface {
	Set(ctx context.Context, clientID, key, value string) error
}

// SaveDraftInput carries one form snapshot.
type SaveDraftInput struct {
	ClientID string
	Values   manuscript.Values
}

// SaveDraftDeps holds dependencies for SaveDraft.
type SaveDraftDeps struct {
	Store DraftWriter
}

// ExecuteSaveDraft writes the whole snapshot under the draft key,
// replacing any earlier draft.
// PRE: ClientID is non-empty
// POST: the stored draft decodes to exactly the catalog fields of Values
func ExecuteSaveDraft(ctx context.Context, input SaveDraftInput, deps SaveDraftDeps) error {
	if input.ClientID == "" {
		return ErrNoClient
	}
	raw, err := manuscript.DraftFromValues(input.Values).Encode()
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	if err := deps.Store.Set(ctx, input.ClientID, manuscript.DraftKey, raw); err != nil {
		return fmt.Errorf("save draft for %s: %w", input.ClientID, err)
	}
	return nil
}

// NewDraftAutosaver returns a debouncer that saves each client's latest
// snapshot to store once input has been quiet for delay.
func NewDraftAutosaver(delay time.Duration, store DraftWriter) *autosave.Debouncer[manuscript.Values] {
	return autosave.New(delay, func(ctx context.Context, clientID string, v manuscript.Values) error {
		return ExecuteSaveDraft(ctx, SaveDraftInput{ClientID: clientID, Values: v}, SaveDraftDeps{Store: store})
	})
}
