package orchestrators

import (
	"context"
	"fmt"
	"log/slog"

	"journal/internal/domain/account"
)

// SeedCredentialStore defines the store interface needed by credential seeding.
type SeedCredentialStore interface {
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, c account.Credential) error
}

// SeedCredentialsDeps holds stores needed for credential seeding.
type SeedCredentialsDeps struct {
	CredentialStore SeedCredentialStore
}

// DemoCredential is a username/password pair seeded into an empty table.
type DemoCredential struct {
	Username string
	Password string
}

// DemoCredentials returns the demo logins.
func DemoCredentials() []DemoCredential {
	return []DemoCredential{
		{Username: "editor", Password: "ayurveda2025"},
		{Username: "admin", Password: "admin123"},
		{Username: "reviewer", Password: "review2025"},
	}
}

// ExecuteSeedCredentials creates the demo logins when no credential exists.
// PRE: Database is migrated
// POST: credential table is non-empty; existing credentials are never touched
func ExecuteSeedCredentials(ctx context.Context, deps SeedCredentialsDeps) error {
	n, err := deps.CredentialStore.Count(ctx)
	if err != nil {
		return fmt.Errorf("count credentials: %w", err)
	}
	if n > 0 {
		return nil
	}

	for _, def := range DemoCredentials() {
		c := account.Credential{Username: def.Username}
		if err := c.Validate(); err != nil {
			return fmt.Errorf("seed credential %s: %w", def.Username, err)
		}
		if err := c.SetPassword(def.Password); err != nil {
			return fmt.Errorf("seed credential %s: set password: %w", def.Username, err)
		}
		if err := deps.CredentialStore.Create(ctx, c); err != nil {
			return fmt.Errorf("seed credential %s: save: %w", def.Username, err)
		}
		slog.Info("seed_event", "event", "credential_created", "username", def.Username)
	}
	return nil
}
