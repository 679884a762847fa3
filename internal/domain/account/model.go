package account

import (
	"errors"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// MaxUsernameLength bounds the login name.
const MaxUsernameLength = 64

// HashCost is the bcrypt work factor for stored passwords.
var HashCost = bcrypt.DefaultCost

// Domain errors
var (
	ErrEmptyUsername    = errors.New("username cannot be empty")
	ErrUsernameTooLong  = errors.New("username cannot exceed 64 characters")
	ErrUsernameSpaces   = errors.New("username cannot contain whitespace")
	ErrEmptyPassword    = errors.New("password cannot be empty")
	ErrWrongPassword    = errors.New("incorrect password")
	ErrCredentialExists = errors.New("a credential with this username already exists")
)

// Credential is one entry of the editorial credential table.
type Credential struct {
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// Validate checks if the Credential has valid data.
// PRE: Credential struct is populated
// POST: Returns nil if valid, error otherwise
func (c *Credential) Validate() error {
	if c.Username == "" {
		return ErrEmptyUsername
	}
	if len(c.Username) > MaxUsernameLength {
		return ErrUsernameTooLong
	}
	if strings.IndexFunc(c.Username, unicode.IsSpace) >= 0 {
		return ErrUsernameSpaces
	}
	return nil
}

// SetPassword hashes and stores a password.
// The plaintext is hashed exactly as given; no trimming or case folding.
// PRE: plaintext is non-empty
// POST: PasswordHash is set to a bcrypt hash
func (c *Credential) SetPassword(plaintext string) error {
	if plaintext == "" {
		return ErrEmptyPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), HashCost)
	if err != nil {
		return err
	}
	c.PasswordHash = string(hash)
	return nil
}

// CheckPassword verifies a plaintext password against the stored hash.
// INVARIANT: Credential fields are not mutated
func (c *Credential) CheckPassword(plaintext string) error {
	if c.PasswordHash == "" || plaintext == "" {
		return ErrWrongPassword
	}
	if err := bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(plaintext)); err != nil {
		return ErrWrongPassword
	}
	return nil
}

// DisplayName returns the username with its first letter upper-cased.
func (c *Credential) DisplayName() string {
	return Capitalize(c.Username)
}

// Capitalize upper-cases the first rune of s and leaves the rest untouched.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
