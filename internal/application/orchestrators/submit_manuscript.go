package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"journal/internal/adapters/intake"
	"journal/internal/domain/manuscript"
)

// ErrSubmitInProgress is returned when the client already has a submit running.
var ErrSubmitInProgress = errors.New("a submission is already in progress for this client")

// Messages shown on the submission form.
const (
	MsgCorrectErrors = "Please correct the errors and try again."
	MsgSubmitFailed  = "There was an error submitting your article. Please try again later."
)

// SubmittedMessage is the thank-you text for a received submission.
func SubmittedMessage(id string) string {
	return fmt.Sprintf("Thank you! Your submission has been received successfully. Your submission ID is: %s. You will receive a confirmation email shortly.", id)
}

// SubmitGuard tracks which clients have a submit in flight.
type SubmitGuard struct {
	mu     sync.Mutex
	active map[string]struct{}
}

// NewSubmitGuard returns an empty guard.
func NewSubmitGuard() *SubmitGuard {
	return &SubmitGuard{active: make(map[string]struct{})}
}

// Acquire marks clientID busy. Returns false if it already was.
func (g *SubmitGuard) Acquire(clientID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.active[clientID]; busy {
		return false
	}
	g.active[clientID] = struct{}{}
	return true
}

// Release marks clientID idle.
func (g *SubmitGuard) Release(clientID string) {
	g.mu.Lock()
	delete(g.active, clientID)
	g.mu.Unlock()
}

// DraftDeleter defines the client-storage access needed to drop a draft.
type DraftDeleter interface {
	Delete(ctx context.Context, clientID, key string) error
}

// ReceiptWriter stores the summary shown after an accepted submit.
type ReceiptWriter interface {
	Set(ctx context.Context, clientID, key, value string) error
}

// AutosaveRetirer drops a client's pending draft save, waits for one
// already being written, and refuses snapshots from form versions up to
// and including version.
type AutosaveRetirer interface {
	Retire(clientID string, version time.Time)
}

// SubmitManuscriptInput carries a submitted form.
// FormVersion identifies the loaded form; zero means the submit time.
type SubmitManuscriptInput struct {
	ClientID    string
	Values      manuscript.Values
	FormVersion time.Time
}

// SubmitManuscriptDeps holds dependencies for SubmitManuscript.
type SubmitManuscriptDeps struct {
	Guard    *SubmitGuard
	IDs      *manuscript.IDGenerator
	Receiver intake.Receiver
	Drafts   DraftDeleter
	Autosave AutosaveRetirer  // may be nil
	Receipts ReceiptWriter    // may be nil
	Now      func() time.Time // nil means time.Now
}

// SubmitManuscriptResult is what the form shows after a submit.
type SubmitManuscriptResult struct {
	State   manuscript.State
	Errors  manuscript.FieldErrors
	Values  manuscript.Values
	Message string
	Receipt intake.Receipt
}

// ExecuteSubmitManuscript validates the form and hands it to the intake.
// Validation and intake failures are reported in the result, not as errors.
// PRE: Values holds the posted form
// POST: on StateAccepted autosaves of this form version are retired, the
// draft is deleted after any running save and Values is blank; otherwise
// Values is the input unchanged
func ExecuteSubmitManuscript(ctx context.Context, input SubmitManuscriptInput, deps SubmitManuscriptDeps) (SubmitManuscriptResult, error) {
	if !deps.Guard.Acquire(input.ClientID) {
		return SubmitManuscriptResult{}, ErrSubmitInProgress
	}
	defer deps.Guard.Release(input.ClientID)

	result := SubmitManuscriptResult{Values: input.Values}
	result.Errors = manuscript.Validate(input.Values)
	result.State = manuscript.AfterValidation(result.Errors)
	if result.State == manuscript.StateRejected {
		result.Message = MsgCorrectErrors
		return result, nil
	}

	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}
	submittedAt := now()
	rec := manuscript.NewRecord(input.Values, deps.IDs.Next(), submittedAt)

	receipt, err := deps.Receiver.Receive(ctx, rec)
	if err != nil || !receipt.Success {
		slog.Error("submission_failed", "submission_id", rec.ID(), "client_id", input.ClientID, "message", receipt.Message, "error", err)
		result.State = manuscript.StateFailed
		result.Message = MsgSubmitFailed
		result.Receipt = receipt
		return result, nil
	}

	if input.ClientID != "" && deps.Autosave != nil {
		version := input.FormVersion
		if version.IsZero() {
			version = submittedAt
		}
		deps.Autosave.Retire(input.ClientID, version)
	}
	if input.ClientID != "" {
		if err := deps.Drafts.Delete(ctx, input.ClientID, manuscript.DraftKey); err != nil {
			slog.Warn("draft_delete_failed", "client_id", input.ClientID, "error", err)
		}
		if deps.Receipts != nil {
			_, body := manuscript.Summary(rec)
			if err := deps.Receipts.Set(ctx, input.ClientID, manuscript.ReceiptKey, body); err != nil {
				slog.Warn("receipt_save_failed", "client_id", input.ClientID, "error", err)
			}
		}
	}

	id := receipt.SubmissionID
	if id == "" {
		id = rec.ID()
	}
	slog.Info("submission_event", "event", "submitted", "submission_id", id, "client_id", input.ClientID)
	return SubmitManuscriptResult{
		State:   manuscript.StateAccepted,
		Values:  manuscript.ValuesFromForm(nil),
		Message: SubmittedMessage(id),
		Receipt: receipt,
	}, nil
}
