package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	submissionStore "journal/internal/adapters/storage/submission"
	"journal/internal/domain/audit"
	"journal/internal/domain/modal"
	"journal/internal/domain/reviewer"
	"journal/internal/domain/submission"
)

// Editorial actions on a single submission.
const (
	ActionView     = "view"
	ActionComments = "comments"
	ActionAssign   = "assign"
	ActionRevise   = "revise"
	ActionAccept   = "accept"
	ActionReject   = "reject"
)

// Answer keys used by the editorial dialogs.
const (
	KeyReviewer = "reviewer"
	KeyComments = "comments"
	KeyReason   = "reason"
	KeyConfirm  = "confirm"
)

// ErrUnknownAction is returned for an action name outside the list above.
var ErrUnknownAction = errors.New("unknown editorial action")

// EditorialSubmissionStore defines the store interface needed by editorial actions.
type EditorialSubmissionStore interface {
	GetByID(ctx context.Context, id string) (submission.Record, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

// EditorialActionInput carries one round of an editorial dialog.
type EditorialActionInput struct {
	SubmissionID string
	Action       string
	Editor       string
	Answers      modal.Answers
}

// AuditRecorder appends to the editorial trail.
type AuditRecorder interface {
	Save(ctx context.Context, event audit.Event) error
}

// EditorialActionDeps holds dependencies for editorial actions.
// Audit may be nil.
type EditorialActionDeps struct {
	SubmissionStore EditorialSubmissionStore
	Audit           AuditRecorder
}

// ExecuteEditorialAction evaluates an action against the answers gathered
// so far. It returns the next question, or the final alert once the action
// has run. Status changes are written to the store.
// PRE: SubmissionID names a stored record
// POST: the record's status changes only on a completed revise, accept or reject
func ExecuteEditorialAction(ctx context.Context, input EditorialActionInput, deps EditorialActionDeps) (modal.Outcome, error) {
	rec, err := deps.SubmissionStore.GetByID(ctx, input.SubmissionID)
	if err != nil {
		if errors.Is(err, submissionStore.ErrNotFound) {
			return modal.Outcome{}, submission.ErrNotFound
		}
		return modal.Outcome{}, err
	}
	id := rec.ID
	a := input.Answers

	switch input.Action {
	case ActionView:
		return modal.Finish(fmt.Sprintf("Viewing submission: %s\n\nIn a full implementation, this would open the detailed submission view with the complete manuscript, author information, and review history.", id)), nil

	case ActionComments:
		return modal.Finish(reviewComments(id)), nil

	case ActionAssign:
		if !a.Has(KeyReviewer) {
			o := modal.Prompt(KeyReviewer, fmt.Sprintf("Assign reviewer for %s:\n\nAvailable reviewers:\n%s\n\nEnter reviewer name:", id, strings.Join(reviewer.Roster, "\n")))
			o.Next.Suggestions = reviewer.Roster
			return o, nil
		}
		name := a.Get(KeyReviewer)
		if name == "" {
			return modal.Cancel(), nil
		}
		if !reviewer.OnRoster(name) {
			return modal.Finish("Reviewer not found. Please select from the available reviewers."), nil
		}
		slog.Info("editorial_event", "event", "reviewer_assigned", "submission_id", id, "reviewer", name, "editor", input.Editor)
		recordAudit(ctx, deps.Audit, audit.NewEvent(input.Editor, audit.ActionReviewerAssigned).WithResource(id).WithDescription(name))
		return modal.Finish(fmt.Sprintf("Reviewer %s has been assigned to %s.", name, id)), nil

	case ActionRevise:
		if !a.Has(KeyComments) {
			return modal.Prompt(KeyComments, fmt.Sprintf("Request revision for %s:\n\nEnter revision comments for the author:", id)), nil
		}
		if a.Get(KeyComments) == "" {
			return modal.Cancel(), nil
		}
		rec.RequestRevision()
		return finishStatus(ctx, deps, input, rec, fmt.Sprintf("Revision request sent to author for %s.", id), "comments", a.Get(KeyComments))

	case ActionAccept:
		if !a.Has(KeyConfirm) {
			return modal.Confirm(KeyConfirm, fmt.Sprintf("Accept submission %s for publication?", id)), nil
		}
		if !a.Confirmed(KeyConfirm) {
			return modal.Cancel(), nil
		}
		rec.Accept()
		return finishStatus(ctx, deps, input, rec, fmt.Sprintf("Submission %s has been accepted!", id))

	case ActionReject:
		if !a.Has(KeyReason) {
			return modal.Prompt(KeyReason, fmt.Sprintf("Reject submission %s:\n\nEnter rejection reason:", id)), nil
		}
		reason := a.Get(KeyReason)
		if reason == "" {
			return modal.Cancel(), nil
		}
		if !a.Has(KeyConfirm) {
			return modal.Confirm(KeyConfirm, fmt.Sprintf("Are you sure you want to reject this submission?\n\nReason: %s", reason)), nil
		}
		if !a.Confirmed(KeyConfirm) {
			return modal.Cancel(), nil
		}
		rec.Reject()
		return finishStatus(ctx, deps, input, rec, fmt.Sprintf("Submission %s has been rejected.", id), "reason", reason)
	}

	return modal.Outcome{}, fmt.Errorf("%w: %q", ErrUnknownAction, input.Action)
}

// finishStatus saves rec's new status and ends the dialog.
func finishStatus(ctx context.Context, deps EditorialActionDeps, input EditorialActionInput, rec submission.Record, alert string, logAttrs ...any) (modal.Outcome, error) {
	if err := deps.SubmissionStore.UpdateStatus(ctx, rec.ID, rec.Status); err != nil {
		return modal.Outcome{}, fmt.Errorf("update status of %s: %w", rec.ID, err)
	}
	attrs := append([]any{"event", "status_changed", "submission_id", rec.ID, "status", rec.Status, "editor", input.Editor}, logAttrs...)
	slog.Info("editorial_event", attrs...)
	recordAudit(ctx, deps.Audit, audit.NewEvent(input.Editor, audit.ActionStatusChanged).WithResource(rec.ID).WithDescription(rec.Status))

	o := modal.Finish(alert)
	o.Status = rec.Status
	return o, nil
}

// recordAudit saves event when a recorder is configured. The trail is
// best effort: a failed write never undoes the action.
func recordAudit(ctx context.Context, rec AuditRecorder, event audit.Event) {
	if rec == nil {
		return
	}
	if err := rec.Save(ctx, event); err != nil {
		slog.Error("audit_save_failed", "action", event.Action, "resource_id", event.ResourceID, "error", err)
	}
}

func reviewComments(id string) string {
	return fmt.Sprintf(`Review comments for %s:

[Sample Review Comments]

Reviewer 1 (Dr. Anil Gupta):
- Methodology is sound but needs more detail
- Statistical analysis is appropriate
- Literature review could be expanded
- Minor formatting issues

Overall recommendation: Minor revision required

Reviewer 2 (Dr. Meera Patel):
- Innovative approach to traditional treatment
- Results are well-presented
- Discussion section is comprehensive
- References are up-to-date

Overall recommendation: Accept with minor revisions`, id)
}
