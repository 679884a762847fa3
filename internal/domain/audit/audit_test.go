package audit

import "testing"

func TestNewEvent(t *testing.T) {
	e := NewEvent("editor", ActionStatusChanged).
		WithResource("IJA-1704067200").
		WithDescription("pending → accepted")

	if e.ID == "" || e.Timestamp.IsZero() {
		t.Fatalf("event not stamped: %+v", e)
	}
	if e.ResourceID != "IJA-1704067200" || e.Description != "pending → accepted" {
		t.Errorf("event = %+v", e)
	}
	if err := e.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
	if NewEvent("editor", ActionIssueCreated).ID == e.ID {
		t.Error("ids should be unique")
	}
}

func TestEvent_Validate(t *testing.T) {
	tests := []struct {
		name string
		e    Event
		want error
	}{
		{"no editor", NewEvent("", ActionReviewerAdded), ErrNoEditor},
		{"no action", NewEvent("admin", ""), ErrNoAction},
		{"ok", NewEvent("admin", ActionReviewerAdded), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.e.Validate(); got != tt.want {
				t.Errorf("Validate() = %v, want %v", got, tt.want)
			}
		})
	}
}
