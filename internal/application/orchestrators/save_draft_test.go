package orchestrators

import (
	"context"
	"errors"
	"testing"
	"time"

	"journal/internal/domain/manuscript"
)

func TestExecuteSaveDraft(t *testing.T) {
	store := &mockDraftStore{drafts: map[string]string{}}
	v := manuscript.ValuesFromForm(nil)
	v[manuscript.FieldArticleTitle] = "Draft title"
	v[manuscript.FieldOriginalWork] = manuscript.CheckedValue

	if err := ExecuteSaveDraft(context.Background(), SaveDraftInput{ClientID: "c1", Values: v}, SaveDraftDeps{Store: store}); err != nil {
		t.Fatalf("save: %v", err)
	}
	d, err := manuscript.ParseDraft(store.drafts["c1/"+manuscript.DraftKey])
	if err != nil {
		t.Fatalf("stored draft does not parse: %v", err)
	}
	if d[manuscript.FieldArticleTitle] != "Draft title" || d[manuscript.FieldOriginalWork] != true {
		t.Errorf("draft = %v", d)
	}

	if err := ExecuteSaveDraft(context.Background(), SaveDraftInput{Values: v}, SaveDraftDeps{Store: store}); !errors.Is(err, ErrNoClient) {
		t.Errorf("no client: err = %v", err)
	}
}

func TestNewDraftAutosaver(t *testing.T) {
	store := &syncDraftStore{saved: make(chan string, 4)}
	d := NewDraftAutosaver(10*time.Millisecond, store)
	defer d.Close(context.Background())

	v := manuscript.ValuesFromForm(nil)
	v[manuscript.FieldKeywords] = "first"
	d.Schedule("c1", v)
	v2 := manuscript.ValuesFromForm(nil)
	v2[manuscript.FieldKeywords] = "second"
	d.Schedule("c1", v2)

	timeout := time.After(2 * time.Second)
	for {
		select {
		case raw := <-store.saved:
			dr, err := manuscript.ParseDraft(raw)
			if err != nil {
				t.Fatalf("saved draft does not parse: %v", err)
			}
			if dr[manuscript.FieldKeywords] == "second" {
				return
			}
		case <-timeout:
			t.Fatal("latest snapshot never saved")
		}
	}
}

// syncDraftStore implements DraftWriter for timer-driven saves.
type syncDraftStore struct{ saved chan string }

func (s *syncDraftStore) Set(_ context.Context, _, _, value string) error {
	s.saved <- value
	return nil
}
