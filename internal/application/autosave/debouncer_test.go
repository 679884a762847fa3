package autosave

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type recorder struct {
	mu    sync.Mutex
	saves map[string][]string
	fired chan string
	err   error
}

func newRecorder() *recorder {
	return &recorder{saves: map[string][]string{}, fired: make(chan string, 16)}
}

func (r *recorder) save(_ context.Context, key string, value string) error {
	r.mu.Lock()
	r.saves[key] = append(r.saves[key], value)
	r.mu.Unlock()
	r.fired <- key
	return r.err
}

func (r *recorder) get(key string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.saves[key]...)
}

func waitFired(t *testing.T, r *recorder) string {
	t.Helper()
	select {
	case k := <-r.fired:
		return k
	case <-time.After(2 * time.Second):
		t.Fatal("save did not fire")
		return ""
	}
}

func assertQuiet(t *testing.T, r *recorder, d time.Duration) {
	t.Helper()
	select {
	case k := <-r.fired:
		t.Fatalf("unexpected save for %s", k)
	case <-time.After(d):
	}
}

// TestDebouncer_CollapsesRapidEdits verifies edits inside the quiet period produce one save.
func TestDebouncer_CollapsesRapidEdits(t *testing.T) {
	r := newRecorder()
	d := New(50*time.Millisecond, r.save)

	for _, v := range []string{"a", "ab", "abc", "abcd"} {
		if err := d.Schedule("client-1", v); err != nil {
			t.Fatalf("Schedule: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	waitFired(t, r)
	assertQuiet(t, r, 120*time.Millisecond)

	got := r.get("client-1")
	if len(got) != 1 || got[0] != "abcd" {
		t.Errorf("saves = %v, want exactly [abcd]", got)
	}
	if d.Pending("client-1") {
		t.Error("nothing should be pending after the save")
	}
}

// TestDebouncer_WaitsForQuietPeriod verifies nothing is saved before the delay.
func TestDebouncer_WaitsForQuietPeriod(t *testing.T) {
	r := newRecorder()
	d := New(150*time.Millisecond, r.save)

	d.Schedule("c", "v")
	assertQuiet(t, r, 60*time.Millisecond)
	if !d.Pending("c") {
		t.Fatal("value should be pending")
	}
	waitFired(t, r)
}

func TestDebouncer_KeysAreIndependent(t *testing.T) {
	r := newRecorder()
	d := New(30*time.Millisecond, r.save)

	d.Schedule("c1", "one")
	d.Schedule("c2", "two")
	seen := map[string]bool{waitFired(t, r): true, waitFired(t, r): true}
	if !seen["c1"] || !seen["c2"] {
		t.Errorf("fired = %v, want both clients", seen)
	}
}

func TestDebouncer_Cancel(t *testing.T) {
	r := newRecorder()
	d := New(30*time.Millisecond, r.save)

	d.Schedule("c", "v")
	if !d.Cancel("c") {
		t.Fatal("Cancel should report a pending value")
	}
	if d.Cancel("c") {
		t.Error("second Cancel should find nothing")
	}
	assertQuiet(t, r, 90*time.Millisecond)
}

// blockingSave holds each save until release is closed.
type blockingSave struct {
	entered chan string
	release chan struct{}
	mu      sync.Mutex
	done    []string
}

func newBlockingSave() *blockingSave {
	return &blockingSave{entered: make(chan string, 4), release: make(chan struct{})}
}

func (b *blockingSave) save(_ context.Context, _ string, value string) error {
	b.entered <- value
	<-b.release
	b.mu.Lock()
	b.done = append(b.done, value)
	b.mu.Unlock()
	return nil
}

func (b *blockingSave) written() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.done...)
}

func TestDebouncer_CancelWaitsForRunningSave(t *testing.T) {
	for _, name := range []string{"cancel", "retire"} {
		t.Run(name, func(t *testing.T) {
			b := newBlockingSave()
			d := New(10*time.Millisecond, b.save)

			d.Schedule("c", "v")
			select {
			case <-b.entered:
			case <-time.After(2 * time.Second):
				t.Fatal("save never started")
			}

			returned := make(chan struct{})
			go func() {
				if name == "cancel" {
					d.Cancel("c")
				} else {
					d.Retire("c", time.Now())
				}
				close(returned)
			}()

			select {
			case <-returned:
				t.Fatal("returned while the save was still running")
			case <-time.After(50 * time.Millisecond):
			}

			close(b.release)
			select {
			case <-returned:
			case <-time.After(2 * time.Second):
				t.Fatal("did not return after the save finished")
			}
			if got := b.written(); len(got) != 1 {
				t.Errorf("written = %v, want the running save only", got)
			}
		})
	}
}

func TestDebouncer_RetireRefusesOlderVersions(t *testing.T) {
	r := newRecorder()
	d := New(20*time.Millisecond, r.save)
	loaded := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	if err := d.ScheduleAt("c", loaded, "typed"); err != nil {
		t.Fatalf("ScheduleAt: %v", err)
	}
	d.Retire("c", loaded)
	if d.Pending("c") {
		t.Fatal("Retire left a pending value")
	}

	if err := d.ScheduleAt("c", loaded, "late snapshot"); !errors.Is(err, ErrRetired) {
		t.Errorf("same version: err = %v, want ErrRetired", err)
	}
	if err := d.ScheduleAt("c", loaded.Add(-time.Minute), "older"); !errors.Is(err, ErrRetired) {
		t.Errorf("older version: err = %v, want ErrRetired", err)
	}
	if err := d.ScheduleAt("other", loaded, "other client"); err != nil {
		t.Errorf("other key: err = %v", err)
	}
	waitFired(t, r)
	assertQuiet(t, r, 60*time.Millisecond)
	if got := r.get("c"); len(got) != 0 {
		t.Errorf("retired key saved %v", got)
	}

	if err := d.ScheduleAt("c", loaded.Add(time.Minute), "new form"); err != nil {
		t.Fatalf("newer version: %v", err)
	}
	waitFired(t, r)
	if got := r.get("c"); len(got) != 1 || got[0] != "new form" {
		t.Errorf("saves = %v, want [new form]", got)
	}
}

func TestDebouncer_RetireForgetsOldMarks(t *testing.T) {
	d := New[string](time.Hour, func(context.Context, string, string) error { return nil })
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	d.Retire("old", start)
	d.Retire("new", start.Add(RetiredHorizon+time.Minute))
	if err := d.ScheduleAt("old", start, "v"); err != nil {
		t.Errorf("mark older than the horizon still applied: %v", err)
	}
	if err := d.ScheduleAt("new", start, "v"); !errors.Is(err, ErrRetired) {
		t.Errorf("recent mark dropped: %v", err)
	}
}

func TestDebouncer_FlushAndClose(t *testing.T) {
	r := newRecorder()
	d := New(time.Hour, r.save)

	d.Schedule("c1", "one")
	d.Schedule("c2", "two")
	if d.Len() != 2 {
		t.Fatalf("Len = %d, want 2", d.Len())
	}

	if err := d.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if got := r.get("c1"); len(got) != 1 || got[0] != "one" {
		t.Errorf("c1 saves = %v", got)
	}
	if d.Len() != 0 {
		t.Errorf("Len after Close = %d", d.Len())
	}
	if err := d.Schedule("c1", "late"); !errors.Is(err, ErrClosed) {
		t.Errorf("Schedule after Close = %v, want ErrClosed", err)
	}
}

func TestDebouncer_FlushReportsErrors(t *testing.T) {
	r := newRecorder()
	r.err = errors.New("disk full")
	d := New(time.Hour, r.save)

	d.Schedule("c", "v")
	if err := d.Flush(context.Background()); err == nil {
		t.Error("Flush should surface save errors")
	}
}

func TestNew_DefaultDelay(t *testing.T) {
	d := New[string](0, func(context.Context, string, string) error { return nil })
	if d.Delay() != DefaultDelay {
		t.Errorf("Delay = %v, want %v", d.Delay(), DefaultDelay)
	}
}
