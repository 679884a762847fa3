package orchestrators

import (
	"context"
	"errors"
	"strings"
	"testing"

	"journal/internal/adapters/storage/clientstorage"
	"journal/internal/domain/manuscript"
)

// mockReceiptStore implements ReceiptStore and ReceiptWriter.
type mockReceiptStore struct {
	values map[string]string
	err    error
}

func (m *mockReceiptStore) Get(_ context.Context, clientID, key string) (clientstorage.Entry, error) {
	if m.err != nil {
		return clientstorage.Entry{}, m.err
	}
	v, ok := m.values[clientID+"/"+key]
	if !ok {
		return clientstorage.Entry{}, clientstorage.ErrNotFound
	}
	return clientstorage.Entry{ClientID: clientID, Key: key, Value: v}, nil
}

func (m *mockReceiptStore) Set(_ context.Context, clientID, key, value string) error {
	m.values[clientID+"/"+key] = value
	return nil
}

func (m *mockReceiptStore) Delete(_ context.Context, clientID, key string) error {
	delete(m.values, clientID+"/"+key)
	return nil
}

func TestSubmitThenTakeReceipt(t *testing.T) {
	receipts := &mockReceiptStore{values: map[string]string{}}
	f := newSubmitFixture()
	f.deps.Receipts = receipts

	res, err := ExecuteSubmitManuscript(context.Background(), SubmitManuscriptInput{ClientID: "c1", Values: completeForm()}, f.deps)
	if err != nil || res.State != manuscript.StateAccepted {
		t.Fatalf("submit: %v, %+v", err, res)
	}

	deps := TakeReceiptDeps{Store: receipts}
	got, err := ExecuteTakeReceipt(context.Background(), TakeReceiptInput{ClientID: "c1"}, deps)
	if err != nil {
		t.Fatalf("take: %v", err)
	}
	if !strings.Contains(got, "**Submission ID:** IJA-1735732800000") {
		t.Errorf("receipt = %q", got)
	}

	again, err := ExecuteTakeReceipt(context.Background(), TakeReceiptInput{ClientID: "c1"}, deps)
	if err != nil || again != "" {
		t.Errorf("second take = %q, %v; want nothing", again, err)
	}
}

func TestSubmit_FailureStoresNoReceipt(t *testing.T) {
	receipts := &mockReceiptStore{values: map[string]string{}}
	f := newSubmitFixture()
	f.deps.Receipts = receipts
	f.receiver.err = errors.New("provider down")

	if _, err := ExecuteSubmitManuscript(context.Background(), SubmitManuscriptInput{ClientID: "c1", Values: completeForm()}, f.deps); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(receipts.values) != 0 {
		t.Errorf("receipts = %v", receipts.values)
	}
}

func TestExecuteTakeReceipt_Errors(t *testing.T) {
	store := &mockReceiptStore{values: map[string]string{}, err: errors.New("locked")}
	if got, err := ExecuteTakeReceipt(context.Background(), TakeReceiptInput{}, TakeReceiptDeps{Store: store}); got != "" || err != nil {
		t.Errorf("no client = %q, %v", got, err)
	}
	if _, err := ExecuteTakeReceipt(context.Background(), TakeReceiptInput{ClientID: "c1"}, TakeReceiptDeps{Store: store}); !errors.Is(err, store.err) {
		t.Errorf("err = %v, want %v", err, store.err)
	}
}
