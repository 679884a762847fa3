package orchestrators

import (
	"context"
	"fmt"
	"log/slog"

	"journal/internal/domain/submission"
)

// SeedSubmissionStore defines the store interface needed by submission seeding.
type SeedSubmissionStore interface {
	Count(ctx context.Context) (int, error)
	Save(ctx context.Context, r submission.Record) error
}

// SeedSubmissionsDeps holds stores needed for submission seeding.
type SeedSubmissionsDeps struct {
	SubmissionStore SeedSubmissionStore
}

// ExecuteSeedSubmissions loads the sample records into an empty store.
// PRE: Database is migrated
// POST: store holds the sample records if it was empty; otherwise unchanged
func ExecuteSeedSubmissions(ctx context.Context, deps SeedSubmissionsDeps) error {
	n, err := deps.SubmissionStore.Count(ctx)
	if err != nil {
		return fmt.Errorf("count submissions: %w", err)
	}
	if n > 0 {
		return nil
	}

	samples := submission.SampleRecords()
	for _, r := range samples {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("seed submission %s: %w", r.ID, err)
		}
		if err := deps.SubmissionStore.Save(ctx, r); err != nil {
			return fmt.Errorf("seed submission %s: %w", r.ID, err)
		}
	}
	slog.Info("seed_event", "event", "submissions_seeded", "count", len(samples))
	return nil
}
