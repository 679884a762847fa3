package projections

import (
	"context"
	"errors"
	"log/slog"

	"journal/internal/adapters/storage/clientstorage"
	"journal/internal/domain/manuscript"
)

// DraftReader defines the client-storage access needed to restore a draft.
type DraftReader interface {
	Get(ctx context.Context, clientID, key string) (clientstorage.Entry, error)
}

// GetDraftQuery carries input for the draft projection.
type GetDraftQuery struct {
	ClientID string
}

// GetDraftDeps holds dependencies for the draft projection.
type GetDraftDeps struct {
	Store DraftReader
}

// DraftResult is the submission form as it should be shown on load.
type DraftResult struct {
	Values    manuscript.Values
	WordCount manuscript.WordCount
	Restored  bool
}

// QueryGetDraft restores the client's saved draft into a blank form.
// A missing or malformed draft yields a blank form; only storage failures
// are returned as errors.
// POST: WordCount is computed from the restored abstract
func QueryGetDraft(ctx context.Context, query GetDraftQuery, deps GetDraftDeps) (DraftResult, error) {
	blank := manuscript.ValuesFromForm(nil)
	result := DraftResult{Values: blank, WordCount: manuscript.CountAbstract("")}
	if query.ClientID == "" {
		return result, nil
	}

	entry, err := deps.Store.Get(ctx, query.ClientID, manuscript.DraftKey)
	if errors.Is(err, clientstorage.ErrNotFound) {
		return result, nil
	}
	if err != nil {
		return DraftResult{}, err
	}

	d, err := manuscript.ParseDraft(entry.Value)
	if err != nil {
		slog.Warn("draft_restore_failed", "client_id", query.ClientID, "error", err)
		return result, nil
	}

	result.Values = d.Apply(blank)
	result.WordCount = manuscript.CountAbstract(result.Values[manuscript.FieldAbstract])
	result.Restored = true
	return result, nil
}
