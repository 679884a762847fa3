package orchestrators

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"journal/internal/adapters/intake"
	"journal/internal/application/autosave"
	"journal/internal/domain/manuscript"
)

// mockReceiver implements intake.Receiver.
type mockReceiver struct {
	mu       sync.Mutex
	received []manuscript.Record
	receipt  *intake.Receipt
	err      error
	entered  chan struct{}
	block    chan struct{}
}

func (m *mockReceiver) Receive(_ context.Context, r manuscript.Record) (intake.Receipt, error) {
	if m.entered != nil {
		m.entered <- struct{}{}
	}
	if m.block != nil {
		<-m.block
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.received = append(m.received, r)
	if m.err != nil {
		return intake.Receipt{}, m.err
	}
	if m.receipt != nil {
		return *m.receipt, nil
	}
	return intake.Receipt{Success: true, SubmissionID: r.ID()}, nil
}

// mockDraftStore implements DraftWriter and DraftDeleter.
type mockDraftStore struct {
	drafts map[string]string
}

func (m *mockDraftStore) Set(_ context.Context, clientID, key, value string) error {
	m.drafts[clientID+"/"+key] = value
	return nil
}

func (m *mockDraftStore) Delete(_ context.Context, clientID, key string) error {
	delete(m.drafts, clientID+"/"+key)
	return nil
}

// mockAutosave implements AutosaveRetirer.
type mockAutosave struct {
	retired  []string
	versions []time.Time
}

func (m *mockAutosave) Retire(clientID string, version time.Time) {
	m.retired = append(m.retired, clientID)
	m.versions = append(m.versions, version)
}

var submitTime = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func completeForm() manuscript.Values {
	v := manuscript.ValuesFromForm(nil)
	for _, f := range manuscript.Fields {
		if !f.Required {
			continue
		}
		if f.Checkbox {
			v[f.Name] = manuscript.CheckedValue
		} else {
			v[f.Name] = "text for " + f.Name
		}
	}
	v[manuscript.FieldAuthorEmail] = "author@example.org"
	return v
}

type submitFixture struct {
	receiver *mockReceiver
	drafts   *mockDraftStore
	autosave *mockAutosave
	deps     SubmitManuscriptDeps
}

func newSubmitFixture() *submitFixture {
	f := &submitFixture{
		receiver: &mockReceiver{},
		drafts:   &mockDraftStore{drafts: map[string]string{"c1/" + manuscript.DraftKey: "{}"}},
		autosave: &mockAutosave{},
	}
	f.deps = SubmitManuscriptDeps{
		Guard:    NewSubmitGuard(),
		IDs:      manuscript.NewIDGenerator(func() time.Time { return submitTime }),
		Receiver: f.receiver,
		Drafts:   f.drafts,
		Autosave: f.autosave,
		Now:      func() time.Time { return submitTime },
	}
	return f
}

func TestSubmitManuscript_Success(t *testing.T) {
	f := newSubmitFixture()
	res, err := ExecuteSubmitManuscript(context.Background(), SubmitManuscriptInput{ClientID: "c1", Values: completeForm()}, f.deps)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if res.State != manuscript.StateAccepted {
		t.Fatalf("state = %s", res.State)
	}
	wantID := "IJA-" + "1735732800000"
	if res.Message != SubmittedMessage(wantID) {
		t.Errorf("message = %q", res.Message)
	}
	if res.Values[manuscript.FieldArticleTitle] != "" {
		t.Error("form should be cleared after success")
	}
	if len(f.drafts.drafts) != 0 {
		t.Error("draft should be deleted after success")
	}
	if len(f.autosave.retired) != 1 || f.autosave.retired[0] != "c1" || !f.autosave.versions[0].Equal(submitTime) {
		t.Errorf("autosave retired = %v at %v", f.autosave.retired, f.autosave.versions)
	}

	rec := f.receiver.received[0]
	if rec.ID() != wantID || rec[manuscript.KeySubmissionDate] != "2025-01-01T12:00:00Z" {
		t.Errorf("record = %v", rec)
	}
}

func TestSubmitManuscript_ValidationFailure(t *testing.T) {
	f := newSubmitFixture()
	v := completeForm()
	v[manuscript.FieldAuthorEmail] = "not-an-email"
	v[manuscript.FieldLeadAuthor] = "   "

	res, err := ExecuteSubmitManuscript(context.Background(), SubmitManuscriptInput{ClientID: "c1", Values: v}, f.deps)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if res.State != manuscript.StateRejected || res.Message != MsgCorrectErrors {
		t.Errorf("result = %+v", res)
	}
	if res.Errors[manuscript.FieldAuthorEmail] != manuscript.MsgInvalidEmail || res.Errors[manuscript.FieldLeadAuthor] != manuscript.MsgRequired {
		t.Errorf("errors = %v", res.Errors)
	}
	if len(f.receiver.received) != 0 {
		t.Error("invalid form reached the intake")
	}
	if res.Values[manuscript.FieldAuthorEmail] != "not-an-email" {
		t.Error("values must be kept on validation failure")
	}
}

func TestSubmitManuscript_IntakeFailureKeepsDraft(t *testing.T) {
	tests := []struct {
		name    string
		receipt *intake.Receipt
		err     error
	}{
		{"error", nil, errors.New("provider down")},
		{"refused", &intake.Receipt{Success: false, Message: "quota"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSubmitFixture()
			f.receiver.receipt = tt.receipt
			f.receiver.err = tt.err

			res, err := ExecuteSubmitManuscript(context.Background(), SubmitManuscriptInput{ClientID: "c1", Values: completeForm()}, f.deps)
			if err != nil {
				t.Fatalf("submit: %v", err)
			}
			if res.State != manuscript.StateFailed || res.Message != MsgSubmitFailed {
				t.Errorf("result = %+v", res)
			}
			if !res.State.Editable() || res.Values[manuscript.FieldArticleTitle] == "" {
				t.Error("values must be kept after a failed submit")
			}
			if len(f.drafts.drafts) != 1 || len(f.autosave.retired) != 0 {
				t.Error("draft must survive a failed submit")
			}
		})
	}
}

func TestSubmitManuscript_RefusesConcurrentSubmit(t *testing.T) {
	f := newSubmitFixture()
	f.receiver.entered = make(chan struct{}, 1)
	f.receiver.block = make(chan struct{})

	done := make(chan error, 1)
	go func() {
		_, err := ExecuteSubmitManuscript(context.Background(), SubmitManuscriptInput{ClientID: "c1", Values: completeForm()}, f.deps)
		done <- err
	}()

	select {
	case <-f.receiver.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("first submit never reached the intake")
	}

	_, err := ExecuteSubmitManuscript(context.Background(), SubmitManuscriptInput{ClientID: "c1", Values: completeForm()}, f.deps)
	if !errors.Is(err, ErrSubmitInProgress) {
		t.Errorf("second submit err = %v, want ErrSubmitInProgress", err)
	}
	if _, err := ExecuteSubmitManuscript(context.Background(), SubmitManuscriptInput{ClientID: "c2", Values: manuscript.Values{}}, f.deps); err != nil {
		t.Errorf("other client should not be blocked: %v", err)
	}

	close(f.receiver.block)
	if err := <-done; err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if !f.deps.Guard.Acquire("c1") {
		t.Error("guard not released after submit")
	}
}

func TestSubmittedMessage(t *testing.T) {
	got := SubmittedMessage("IJA-1")
	if !strings.Contains(got, "Your submission ID is: IJA-1.") || !strings.HasPrefix(got, "Thank you!") {
		t.Errorf("message = %q", got)
	}
}

func TestSubmitManuscript_RetiresLoadedFormVersion(t *testing.T) {
	f := newSubmitFixture()
	loaded := submitTime.Add(-10 * time.Minute)
	_, err := ExecuteSubmitManuscript(context.Background(), SubmitManuscriptInput{
		ClientID: "c1", Values: completeForm(), FormVersion: loaded,
	}, f.deps)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(f.autosave.versions) != 1 || !f.autosave.versions[0].Equal(loaded) {
		t.Errorf("retired versions = %v, want [%v]", f.autosave.versions, loaded)
	}
}

// slowDraftStore holds Set calls until release is closed.
type slowDraftStore struct {
	mu      sync.Mutex
	drafts  map[string]string
	entered chan struct{}
	release chan struct{}
}

func newSlowDraftStore() *slowDraftStore {
	return &slowDraftStore{drafts: map[string]string{}, entered: make(chan struct{}, 4), release: make(chan struct{})}
}

func (s *slowDraftStore) Set(_ context.Context, clientID, key, value string) error {
	s.entered <- struct{}{}
	<-s.release
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[clientID+"/"+key] = value
	return nil
}

func (s *slowDraftStore) Delete(_ context.Context, clientID, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, clientID+"/"+key)
	return nil
}

func (s *slowDraftStore) stored(clientID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.drafts[clientID+"/"+manuscript.DraftKey]
	return ok
}

func TestSubmitManuscript_ClearsDraftWrittenDuringSubmit(t *testing.T) {
	store := newSlowDraftStore()
	saver := NewDraftAutosaver(10*time.Millisecond, store)
	defer saver.Close(context.Background())

	f := newSubmitFixture()
	f.deps.Drafts = store
	f.deps.Autosave = saver

	loaded := time.Now()
	if err := saver.ScheduleAt("c1", loaded, completeForm()); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	select {
	case <-store.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("autosave never started")
	}

	done := make(chan SubmitManuscriptResult, 1)
	go func() {
		res, _ := ExecuteSubmitManuscript(context.Background(), SubmitManuscriptInput{
			ClientID: "c1", Values: completeForm(), FormVersion: loaded,
		}, f.deps)
		done <- res
	}()

	select {
	case <-done:
		t.Fatal("submit finished while a draft write was still running")
	case <-time.After(50 * time.Millisecond):
	}
	close(store.release)

	select {
	case res := <-done:
		if res.State != manuscript.StateAccepted {
			t.Fatalf("state = %s", res.State)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("submit never finished")
	}
	if store.stored("c1") {
		t.Error("draft still stored after a successful submit")
	}
}

func TestSubmitManuscript_RefusesSnapshotArrivingAfterSubmit(t *testing.T) {
	store := newSlowDraftStore()
	close(store.release)
	saver := NewDraftAutosaver(10*time.Millisecond, store)
	defer saver.Close(context.Background())

	f := newSubmitFixture()
	f.deps.Drafts = store
	f.deps.Autosave = saver

	loaded := time.Now()
	res, err := ExecuteSubmitManuscript(context.Background(), SubmitManuscriptInput{
		ClientID: "c1", Values: completeForm(), FormVersion: loaded,
	}, f.deps)
	if err != nil || res.State != manuscript.StateAccepted {
		t.Fatalf("submit: %v, %+v", err, res)
	}

	if err := saver.ScheduleAt("c1", loaded, completeForm()); !errors.Is(err, autosave.ErrRetired) {
		t.Errorf("late snapshot: err = %v, want ErrRetired", err)
	}
	time.Sleep(50 * time.Millisecond)
	if store.stored("c1") {
		t.Error("late snapshot wrote the draft back")
	}

	if err := saver.ScheduleAt("c1", loaded.Add(time.Second), completeForm()); err != nil {
		t.Errorf("snapshot from a newly loaded form: %v", err)
	}
}
