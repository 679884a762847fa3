package storage

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"journal/internal/adapters/http/perf"
)

// SQLDB is the database interface used by all stores.
// Both *sql.DB and *TimedDB satisfy this interface.
type SQLDB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

var _ SQLDB = (*sql.DB)(nil)

// DefaultSlowQueryMs is the default threshold for slow query warnings.
const DefaultSlowQueryMs = 50

// SlowQueryThreshold reads JOURNAL_SLOW_QUERY_MS, falling back to the default.
func SlowQueryThreshold() float64 {
	if v := os.Getenv("JOURNAL_SLOW_QUERY_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return float64(n)
		}
	}
	return DefaultSlowQueryMs
}

// TimedDB wraps a *sql.DB to log slow queries and record them to a collector.
type TimedDB struct {
	db        *sql.DB
	collector *perf.Collector
	threshold float64
}

var _ SQLDB = (*TimedDB)(nil)

// NewTimedDB wraps db with timing instrumentation. collector may be nil.
// PRE: db is a valid database connection
// POST: Returns a TimedDB that logs slow queries and records to collector
func NewTimedDB(db *sql.DB, collector *perf.Collector) *TimedDB {
	return &TimedDB{
		db:        db,
		collector: collector,
		threshold: SlowQueryThreshold(),
	}
}

// RawDB returns the underlying *sql.DB (needed for migrations and pool config).
func (t *TimedDB) RawDB() *sql.DB {
	return t.db
}

// QueryLabel names a statement by verb and first table, e.g. "SELECT submission".
func QueryLabel(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return "EMPTY"
	}
	verb := strings.ToUpper(fields[0])
	for i := 0; i < len(fields)-1; i++ {
		switch strings.ToUpper(fields[i]) {
		case "FROM", "INTO", "UPDATE":
			table := fields[i+1]
			if j := strings.IndexAny(table, "(,;"); j >= 0 {
				table = table[:j]
			}
			return verb + " " + strings.ToLower(table)
		}
	}
	return verb
}

func (t *TimedDB) logQuery(label string, start time.Time, err error) {
	durationMs := float64(time.Since(start).Microseconds()) / 1000.0

	switch {
	case err != nil && err != sql.ErrNoRows:
		slog.Warn("query_failed", "query", label, "duration_ms", durationMs, "error", err)
	case durationMs >= t.threshold:
		slog.Warn("slow_query", "query", label, "duration_ms", durationMs)
	default:
		slog.Debug("query", "query", label, "duration_ms", durationMs)
	}

	if t.collector != nil {
		t.collector.Record(perf.Entry{
			Kind:       perf.KindQuery,
			Path:       label,
			DurationMs: durationMs,
			Timestamp:  start,
		})
	}
}

// ExecContext wraps sql.DB.ExecContext with timing.
func (t *TimedDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	result, err := t.db.ExecContext(ctx, query, args...)
	t.logQuery(QueryLabel(query), start, err)
	return result, err
}

// QueryContext wraps sql.DB.QueryContext with timing.
func (t *TimedDB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := t.db.QueryContext(ctx, query, args...)
	t.logQuery(QueryLabel(query), start, err)
	return rows, err
}

// QueryRowContext wraps sql.DB.QueryRowContext with timing.
// Row errors surface on Scan, so only the dispatch is timed.
func (t *TimedDB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	start := time.Now()
	row := t.db.QueryRowContext(ctx, query, args...)
	t.logQuery(QueryLabel(query), start, row.Err())
	return row
}

// BeginTx wraps sql.DB.BeginTx with timing.
func (t *TimedDB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	start := time.Now()
	tx, err := t.db.BeginTx(ctx, opts)
	t.logQuery("BEGIN", start, err)
	return tx, err
}

// Close closes the underlying database connection.
func (t *TimedDB) Close() error {
	return t.db.Close()
}

// PingContext verifies the database connection.
func (t *TimedDB) PingContext(ctx context.Context) error {
	return t.db.PingContext(ctx)
}
