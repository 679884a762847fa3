package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	accountStore "journal/internal/adapters/storage/account"
	"journal/internal/domain/account"
)

// CredentialVerifier decides whether a username/password pair may log in.
type CredentialVerifier interface {
	Verify(ctx context.Context, username, password string) (bool, error)
}

// CredentialLookup defines the store interface needed by StoreVerifier.
type CredentialLookup interface {
	GetByUsername(ctx context.Context, username string) (account.Credential, error)
}

// StoreVerifier checks passwords against bcrypt hashes in the credential store.
type StoreVerifier struct {
	Store CredentialLookup
}

// Verify reports whether password matches the stored hash for username.
// An unknown username is a mismatch, not an error.
func (v StoreVerifier) Verify(ctx context.Context, username, password string) (bool, error) {
	c, err := v.Store.GetByUsername(ctx, username)
	if errors.Is(err, accountStore.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return c.CheckPassword(password) == nil, nil
}

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	Username string
	Password string
}

// LoginResult carries the result of a successful login.
type LoginResult struct {
	Username    string
	DisplayName string
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	Verifier CredentialVerifier
}

var (
	ErrMissingCredentials = errors.New("username and password are required")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// Messages shown on the login page.
const (
	MsgMissingCredentials = "Please enter both username and password."
	MsgInvalidCredentials = "Invalid username or password."
	MsgLoginSuccess       = "Login successful!"
	MsgLoggedOut          = "Logged out successfully."
)

// LoginErrorMessage maps a login error to the text shown to the user.
func LoginErrorMessage(err error) string {
	if errors.Is(err, ErrMissingCredentials) {
		return MsgMissingCredentials
	}
	return MsgInvalidCredentials
}

// ExecuteLogin checks a username/password pair.
// The username is matched as typed; the password is compared exactly.
// PRE: none
// POST: success iff the pair matches a stored credential
// INVARIANT: failures never say which half was wrong
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (LoginResult, error) {
	if input.Username == "" || input.Password == "" {
		return LoginResult{}, ErrMissingCredentials
	}

	ok, err := deps.Verifier.Verify(ctx, input.Username, input.Password)
	if err != nil {
		return LoginResult{}, err
	}
	if !ok {
		slog.Info("auth_event", "event", "login_failed", "username", input.Username)
		return LoginResult{}, ErrInvalidCredentials
	}

	slog.Info("auth_event", "event", "login_success", "username", input.Username)
	return LoginResult{
		Username:    input.Username,
		DisplayName: account.Capitalize(input.Username),
	}, nil
}
