package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// DefaultClientRetention is how long an untouched client-storage entry is kept.
const DefaultClientRetention = 90 * 24 * time.Hour

// ErrInvalidRetention is returned for a non-positive retention.
var ErrInvalidRetention = errors.New("retention must be positive")

// ClientStoragePurger defines the store interface needed by the purge.
type ClientStoragePurger interface {
	PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// PurgeClientStorageInput carries the retention window.
type PurgeClientStorageInput struct {
	Retention time.Duration
	Now       time.Time
}

// PurgeClientStorageDeps holds dependencies for the purge.
type PurgeClientStorageDeps struct {
	Store ClientStoragePurger
}

// ExecutePurgeClientStorage removes entries not written within Retention of Now.
// POST: returns the number of entries removed
func ExecutePurgeClientStorage(ctx context.Context, input PurgeClientStorageInput, deps PurgeClientStorageDeps) (int64, error) {
	if input.Retention <= 0 {
		return 0, ErrInvalidRetention
	}
	n, err := deps.Store.PurgeBefore(ctx, input.Now.Add(-input.Retention))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		slog.Info("client_storage_purged", "count", n, "retention", input.Retention.String())
	}
	return n, nil
}

// StartPurgeWorker runs the purge every interval until stopCh is closed.
// PRE: interval > 0
func StartPurgeWorker(deps PurgeClientStorageDeps, retention, interval time.Duration, stopCh <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case now := <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
				if _, err := ExecutePurgeClientStorage(ctx, PurgeClientStorageInput{Retention: retention, Now: now}, deps); err != nil {
					slog.Error("client_storage_purge_failed", "error", err)
				}
				cancel()
			case <-stopCh:
				slog.Info("purge_worker_stopped")
				return
			}
		}
	}()
}
