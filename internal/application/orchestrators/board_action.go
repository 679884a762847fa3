package orchestrators

import (
	"context"
	"fmt"
	"log/slog"

	"journal/internal/domain/audit"
	"journal/internal/domain/issue"
	"journal/internal/domain/modal"
	"journal/internal/domain/reviewer"
)

// Answer keys used by the board dialogs.
const (
	KeyName           = "name"
	KeySpecialization = "specialization"
	KeyInstitution    = "institution"
	KeyVolume         = "volume"
	KeyIssue          = "issue"
	KeyTargetDate     = "targetDate"
)

// BoardActionInput carries one round of an add-reviewer or create-issue dialog.
type BoardActionInput struct {
	Editor  string
	Answers modal.Answers
}

// BoardActionDeps holds dependencies for board actions. Audit may be nil.
type BoardActionDeps struct {
	Audit AuditRecorder
}

// ExecuteAddReviewer collects a new reviewer's details and acknowledges them.
// Only the audit trail is written.
// POST: Done only when name, specialization and institution are all non-empty
func ExecuteAddReviewer(ctx context.Context, input BoardActionInput, deps BoardActionDeps) modal.Outcome {
	a := input.Answers
	if !a.Has(KeyName) {
		return modal.Prompt(KeyName, "Add New Reviewer:\n\nEnter reviewer name:")
	}
	if a.Get(KeyName) == "" {
		return modal.Cancel()
	}
	if !a.Has(KeySpecialization) {
		return modal.Prompt(KeySpecialization, "Enter specialization:")
	}
	if !a.Has(KeyInstitution) {
		return modal.Prompt(KeyInstitution, "Enter institution:")
	}

	r := reviewer.Reviewer{
		Name:           a.Get(KeyName),
		Specialization: a.Get(KeySpecialization),
		Institution:    a.Get(KeyInstitution),
	}
	if err := r.Validate(); err != nil {
		return modal.Cancel()
	}
	slog.Info("editorial_event", "event", "reviewer_added", "name", r.Name, "specialization", r.Specialization, "institution", r.Institution, "editor", input.Editor)
	recordAudit(ctx, deps.Audit, audit.NewEvent(input.Editor, audit.ActionReviewerAdded).
		WithDescription(fmt.Sprintf("%s (%s, %s)", r.Name, r.Specialization, r.Institution)))
	return modal.Finish(fmt.Sprintf("New reviewer added:\n\nName: %s\nSpecialization: %s\nInstitution: %s\n\nReviewer has been notified and can now be assigned to submissions.",
		r.Name, r.Specialization, r.Institution))
}

// ExecuteCreateIssue collects a planned issue's details and acknowledges them.
// Only the audit trail is written.
// POST: Done only when volume, issue number and target date are all non-empty
func ExecuteCreateIssue(ctx context.Context, input BoardActionInput, deps BoardActionDeps) modal.Outcome {
	a := input.Answers
	if !a.Has(KeyVolume) {
		return modal.Prompt(KeyVolume, "Create New Issue:\n\nEnter volume number:")
	}
	if a.Get(KeyVolume) == "" {
		return modal.Cancel()
	}
	if !a.Has(KeyIssue) {
		return modal.Prompt(KeyIssue, "Enter issue number:")
	}
	if !a.Has(KeyTargetDate) {
		return modal.Prompt(KeyTargetDate, "Enter target publication date (YYYY-MM-DD):")
	}

	is := issue.Issue{
		Volume:     a.Get(KeyVolume),
		Number:     a.Get(KeyIssue),
		TargetDate: a.Get(KeyTargetDate),
	}
	if err := is.Validate(); err != nil {
		return modal.Cancel()
	}
	slog.Info("editorial_event", "event", "issue_created", "volume", is.Volume, "issue", is.Number, "target_date", is.TargetDate, "editor", input.Editor)
	recordAudit(ctx, deps.Audit, audit.NewEvent(input.Editor, audit.ActionIssueCreated).
		WithDescription(fmt.Sprintf("Volume %s, Issue %s, target %s", is.Volume, is.Number, is.TargetDate)))
	return modal.Finish(fmt.Sprintf("New issue created:\n\nVolume %s, Issue %s\nTarget Date: %s\n\nYou can now assign accepted articles to this issue.",
		is.Volume, is.Number, is.TargetDate))
}
