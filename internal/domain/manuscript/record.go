package manuscript

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Keys stamped onto a record at submit time.
const (
	KeySubmissionDate = "submissionDate"
	KeySubmissionID   = "submissionId"
)

// IDPrefix starts every submission identifier.
const IDPrefix = "IJA-"

// Record is the flat field-name → value map handed to the intake collaborator.
// Unticked checkboxes are absent, like a browser form post.
type Record map[string]string

// NewRecord assembles a record from validated form values.
func NewRecord(v Values, id string, at time.Time) Record {
	r := make(Record, len(Fields)+2)
	for _, f := range Fields {
		if f.Checkbox {
			if v.Checked(f.Name) {
				r[f.Name] = CheckedValue
			}
			continue
		}
		r[f.Name] = v[f.Name]
	}
	r[KeySubmissionDate] = at.UTC().Format(time.RFC3339Nano)
	r[KeySubmissionID] = id
	return r
}

// ID returns the submission identifier.
func (r Record) ID() string { return r[KeySubmissionID] }

// Title returns the article title.
func (r Record) Title() string { return r[FieldArticleTitle] }

// SubmittedAt parses the submission timestamp.
func (r Record) SubmittedAt() (time.Time, error) {
	return time.Parse(time.RFC3339Nano, r[KeySubmissionDate])
}

// IDGenerator issues IJA-<epoch ms> identifiers that never repeat.
// If the clock has not advanced past the last issued value, the next
// millisecond is used instead.
type IDGenerator struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

// NewIDGenerator returns a generator reading now; nil means time.Now.
func NewIDGenerator(now func() time.Time) *IDGenerator {
	if now == nil {
		now = time.Now
	}
	return &IDGenerator{now: now}
}

// Next returns a fresh identifier.
// INVARIANT: successive results are strictly increasing in their numeric part
func (g *IDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return IDPrefix + strconv.FormatInt(ms, 10)
}

// ParseID returns the millisecond part of an identifier.
func ParseID(id string) (int64, error) {
	if !strings.HasPrefix(id, IDPrefix) {
		return 0, fmt.Errorf("submission id %q: missing %s prefix", id, IDPrefix)
	}
	return strconv.ParseInt(strings.TrimPrefix(id, IDPrefix), 10, 64)
}
