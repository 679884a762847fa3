// Package autosave delays writes until input has been quiet for a while.
// Each key has at most one pending write; scheduling again replaces the
// value and restarts the timer.
package autosave

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// DefaultDelay is the quiet period before a pending value is saved.
const DefaultDelay = 30 * time.Second

// RetiredHorizon is how long a Retire mark is remembered.
const RetiredHorizon = 24 * time.Hour

var (
	// ErrClosed is returned by Schedule after Close.
	ErrClosed = errors.New("autosave: debouncer closed")
	// ErrRetired is returned by ScheduleAt for a version at or before the key's retirement.
	ErrRetired = errors.New("autosave: version retired")
)

// SaveFunc persists value under key.
type SaveFunc[T any] func(ctx context.Context, key string, value T) error

type entry[T any] struct {
	value   T
	timer   *time.Timer
	gen     uint64
	version time.Time // zero for unversioned values
}

// Debouncer owns one cancellable timer per key.
type Debouncer[T any] struct {
	mu       sync.Mutex
	delay    time.Duration
	save     SaveFunc[T]
	pending  map[string]*entry[T]
	running  map[string]chan struct{} // closed when the key's save returns
	retired  map[string]time.Time
	gen      uint64
	closed   bool
	inFlight sync.WaitGroup
}

// New returns a Debouncer that calls save delay after the last Schedule
// for a key. A non-positive delay means DefaultDelay.
func New[T any](delay time.Duration, save SaveFunc[T]) *Debouncer[T] {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer[T]{
		delay:   delay,
		save:    save,
		pending: make(map[string]*entry[T]),
		running: make(map[string]chan struct{}),
		retired: make(map[string]time.Time),
	}
}

// Delay returns the quiet period.
func (d *Debouncer[T]) Delay() time.Duration {
	return d.delay
}

// Schedule replaces any pending value for key and restarts its timer.
// POST: exactly one save for key is pending
func (d *Debouncer[T]) Schedule(key string, value T) error {
	return d.schedule(key, time.Time{}, value)
}

// ScheduleAt is Schedule for a value taken from the given version of the
// input. Versions at or before a Retire mark for key are refused with
// ErrRetired.
func (d *Debouncer[T]) ScheduleAt(key string, version time.Time, value T) error {
	return d.schedule(key, version, value)
}

func (d *Debouncer[T]) schedule(key string, version time.Time, value T) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	if !version.IsZero() && d.isRetired(key, version) {
		return ErrRetired
	}

	if p, ok := d.pending[key]; ok {
		p.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.pending[key] = &entry[T]{
		value:   value,
		gen:     gen,
		version: version,
		timer:   time.AfterFunc(d.delay, func() { d.fire(key, gen) }),
	}
	return nil
}

// Cancel drops the pending value for key and waits for a save of key that
// is already running. Returns true if something was pending.
// POST: no save for key is pending or running
func (d *Debouncer[T]) Cancel(key string) bool {
	d.mu.Lock()
	had := d.drop(key)
	running := d.running[key]
	d.mu.Unlock()

	if running != nil {
		<-running
	}
	return had
}

// Retire cancels key like Cancel and refuses later ScheduleAt calls whose
// version is at or before version. Unversioned Schedule calls still pass.
// POST: no save for key is pending or running
func (d *Debouncer[T]) Retire(key string, version time.Time) {
	d.mu.Lock()
	d.drop(key)
	if version.After(d.retired[key]) {
		d.retired[key] = version
	}
	for k, v := range d.retired {
		if version.Sub(v) > RetiredHorizon {
			delete(d.retired, k)
		}
	}
	running := d.running[key]
	d.mu.Unlock()

	if running != nil {
		<-running
	}
}

// drop removes the pending entry for key. Caller holds mu.
func (d *Debouncer[T]) drop(key string) bool {
	p, ok := d.pending[key]
	if !ok {
		return false
	}
	p.timer.Stop()
	delete(d.pending, key)
	return true
}

// isRetired reports whether version is covered by key's Retire mark. Caller holds mu.
func (d *Debouncer[T]) isRetired(key string, version time.Time) bool {
	mark, ok := d.retired[key]
	return ok && !version.After(mark)
}

// Pending reports whether key has an unsaved value.
func (d *Debouncer[T]) Pending(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.pending[key]
	return ok
}

// Len returns the number of keys with pending values.
func (d *Debouncer[T]) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// Flush saves every pending value now, without waiting for its timer.
func (d *Debouncer[T]) Flush(ctx context.Context) error {
	d.mu.Lock()
	batch := d.pending
	d.pending = make(map[string]*entry[T])
	for _, p := range batch {
		p.timer.Stop()
	}
	d.mu.Unlock()

	var errs []error
	for key, p := range batch {
		if err := d.save(ctx, key, p.value); err != nil {
			slog.Error("autosave_failed", "key", key, "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close flushes pending values, waits for saves already running, and
// rejects further Schedule calls.
func (d *Debouncer[T]) Close(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	err := d.Flush(ctx)
	d.inFlight.Wait()
	return err
}

func (d *Debouncer[T]) fire(key string, gen uint64) {
	d.mu.Lock()
	p, ok := d.pending[key]
	if !ok || p.gen != gen {
		d.mu.Unlock()
		return
	}
	// One save per key at a time. p stays pending while it waits, so a
	// Cancel or a newer Schedule in the meantime replaces it.
	for prev := d.running[key]; prev != nil; prev = d.running[key] {
		d.mu.Unlock()
		<-prev
		d.mu.Lock()
		if d.pending[key] != p {
			d.mu.Unlock()
			return
		}
	}
	delete(d.pending, key)
	if !p.version.IsZero() && d.isRetired(key, p.version) {
		d.mu.Unlock()
		return
	}
	done := make(chan struct{})
	d.running[key] = done
	d.inFlight.Add(1)
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		delete(d.running, key)
		d.mu.Unlock()
		close(done)
		d.inFlight.Done()
	}()

	if err := d.save(context.Background(), key, p.value); err != nil {
		slog.Error("autosave_failed", "key", key, "error", err)
		return
	}
	slog.Debug("autosave_written", "key", key)
}
