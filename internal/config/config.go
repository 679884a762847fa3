// Package config reads runtime settings from the environment, after
// loading a .env file when one is present.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment names
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Defaults
const (
	DefaultAddr            = ":8080"
	DefaultDBPath          = "journal.db"
	DefaultResendFrom      = "Journal Editorial Office <editor@journal.example.org>"
	DefaultEditorsEmail    = "editor@journal.example.org"
	DefaultAutosaveDelay   = 30 * time.Second
	DefaultSessionTTL      = 24 * time.Hour
	DefaultRateLimit       = 10
	DefaultClientRetention = 90 * 24 * time.Hour
)

var (
	ErrCSRFKeyFormat   = errors.New("JOURNAL_CSRF_KEY must be 64 hex characters (32 bytes)")
	ErrCSRFKeyRequired = errors.New("JOURNAL_CSRF_KEY is required in production")
)

// Config holds every setting the server reads at startup.
type Config struct {
	Addr   string
	DBPath string
	Env    string

	CSRFKey          []byte
	CSRFKeyGenerated bool

	ResendKey    string
	ResendFrom   string
	EditorsEmail string

	AutosaveDelay   time.Duration
	SessionTTL      time.Duration
	RateLimit       int // requests per second per client address
	ClientRetention time.Duration

	LogLevel  slog.Level
	LogFormat string // "json" or "text"
}

// IsProduction reports whether the server runs in production mode.
func (c Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Load reads .env (if present) and then the process environment.
// Variables already set in the environment win over .env entries.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("dotenv_load_failed", "error", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv.
func FromEnv(getenv func(string) string) (Config, error) {
	get := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	c := Config{
		Addr:         get("JOURNAL_ADDR", DefaultAddr),
		DBPath:       get("JOURNAL_DB_PATH", DefaultDBPath),
		Env:          get("JOURNAL_ENV", EnvDevelopment),
		ResendKey:    get("JOURNAL_RESEND_KEY", ""),
		ResendFrom:   get("JOURNAL_RESEND_FROM", DefaultResendFrom),
		EditorsEmail: get("JOURNAL_EDITORS_EMAIL", DefaultEditorsEmail),
		LogFormat:    strings.ToLower(get("JOURNAL_LOG_FORMAT", "text")),
	}

	var errs []error
	var err error
	if c.AutosaveDelay, err = duration(get("JOURNAL_AUTOSAVE_DELAY", ""), DefaultAutosaveDelay); err != nil {
		errs = append(errs, fmt.Errorf("JOURNAL_AUTOSAVE_DELAY: %w", err))
	}
	if c.SessionTTL, err = duration(get("JOURNAL_SESSION_TTL", ""), DefaultSessionTTL); err != nil {
		errs = append(errs, fmt.Errorf("JOURNAL_SESSION_TTL: %w", err))
	}
	if c.ClientRetention, err = duration(get("JOURNAL_CLIENT_RETENTION", ""), DefaultClientRetention); err != nil {
		errs = append(errs, fmt.Errorf("JOURNAL_CLIENT_RETENTION: %w", err))
	}
	c.RateLimit = DefaultRateLimit
	if v := get("JOURNAL_RATE_LIMIT", ""); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			errs = append(errs, fmt.Errorf("JOURNAL_RATE_LIMIT: %q is not a positive integer", v))
		} else {
			c.RateLimit = n
		}
	}
	if err := c.LogLevel.UnmarshalText([]byte(get("JOURNAL_LOG_LEVEL", "info"))); err != nil {
		errs = append(errs, fmt.Errorf("JOURNAL_LOG_LEVEL: %w", err))
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		errs = append(errs, fmt.Errorf("JOURNAL_LOG_FORMAT: %q is not json or text", c.LogFormat))
	}

	if keyHex := get("JOURNAL_CSRF_KEY", ""); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			errs = append(errs, ErrCSRFKeyFormat)
		}
		c.CSRFKey = key
	} else if c.IsProduction() {
		errs = append(errs, ErrCSRFKeyRequired)
	} else {
		c.CSRFKey = make([]byte, 32)
		if _, err := rand.Read(c.CSRFKey); err != nil {
			errs = append(errs, fmt.Errorf("generate CSRF key: %w", err))
		}
		c.CSRFKeyGenerated = true
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	return c, nil
}

// duration parses a Go duration, or a bare integer as seconds.
func duration(v string, fallback time.Duration) (time.Duration, error) {
	if v == "" {
		return fallback, nil
	}
	if n, err := strconv.Atoi(v); err == nil {
		v = strconv.Itoa(n) + "s"
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("%q must be positive", v)
	}
	return d, nil
}

// NewLogger returns a slog logger writing to w in the configured format and level.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
