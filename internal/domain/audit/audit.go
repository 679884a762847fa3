// Package audit records what editors did to submissions.
package audit

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Action names an editorial event.
type Action string

const (
	ActionStatusChanged    Action = "status_changed"
	ActionReviewerAssigned Action = "reviewer_assigned"
	ActionReviewerAdded    Action = "reviewer_added"
	ActionIssueCreated     Action = "issue_created"
)

var (
	ErrNoEditor = errors.New("audit event needs an editor")
	ErrNoAction = errors.New("audit event needs an action")
)

// Event is one entry of the editorial trail.
type Event struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Action      Action    `json:"action"`
	Editor      string    `json:"editor"`
	ResourceID  string    `json:"resource_id,omitempty"`
	Description string    `json:"description"`
}

// NewEvent starts an event stamped now.
// PRE: editor and action are non-empty
func NewEvent(editor string, action Action) Event {
	return Event{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Action:    action,
		Editor:    editor,
	}
}

// WithResource sets the submission (or other entity) the event is about.
func (e Event) WithResource(id string) Event {
	e.ResourceID = id
	return e
}

// WithDescription sets the human readable summary.
func (e Event) WithDescription(desc string) Event {
	e.Description = desc
	return e
}

// Validate checks the event can be stored.
func (e Event) Validate() error {
	if e.Editor == "" {
		return ErrNoEditor
	}
	if e.Action == "" {
		return ErrNoAction
	}
	return nil
}
