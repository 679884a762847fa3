// Package perf keeps a bounded in-memory record of request and query
// timings for the editorial perf endpoint.
package perf

import (
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultRingSize is the default capacity of the ring buffer.
const DefaultRingSize = 10000

// EntryKind distinguishes request vs query entries.
type EntryKind uint8

const (
	KindRequest EntryKind = iota
	KindQuery
)

// Entry is a single timing record.
type Entry struct {
	Kind       EntryKind
	Path       string // "GET /dashboard" or a query label like "SELECT submission"
	StatusCode int    // 0 for queries
	DurationMs float64
	Timestamp  time.Time
}

// Collector is a fixed-size ring buffer of entries. When full the oldest
// entry is overwritten. Aggregation happens only in Snapshot.
type Collector struct {
	mu      sync.Mutex
	entries []Entry
	pos     int
	count   atomic.Int64
}

// NewCollector creates a collector holding at most size entries.
// A non-positive size means DefaultRingSize.
func NewCollector(size int) *Collector {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &Collector{entries: make([]Entry, size)}
}

// Record stores e, overwriting the oldest entry when full.
func (c *Collector) Record(e Entry) {
	c.mu.Lock()
	c.entries[c.pos] = e
	c.pos = (c.pos + 1) % len(c.entries)
	c.mu.Unlock()
	c.count.Add(1)
}

// TotalRecorded returns the number of entries ever recorded.
func (c *Collector) TotalRecorded() int64 {
	return c.count.Load()
}

// PathStat aggregates timings for one request path or query label.
type PathStat struct {
	Path         string  `json:"path"`
	Count        int     `json:"count"`
	AvgMs        float64 `json:"avg_ms"`
	MaxMs        float64 `json:"max_ms"`
	TotalMs      float64 `json:"total_ms"`
	ServerErrors int     `json:"server_errors,omitempty"`
}

// Snapshot is the aggregated view returned by the perf endpoint.
type Snapshot struct {
	Since          time.Time  `json:"since"`
	Requests       int        `json:"requests"`
	Queries        int        `json:"queries"`
	RequestP50Ms   float64    `json:"request_p50_ms"`
	RequestP95Ms   float64    `json:"request_p95_ms"`
	RequestP99Ms   float64    `json:"request_p99_ms"`
	SlowestPaths   []PathStat `json:"slowest_paths"`
	SlowestQueries []PathStat `json:"slowest_queries"`
}

// Snapshot aggregates entries newer than since, keeping the topN slowest
// paths and queries by average duration.
func (c *Collector) Snapshot(since time.Time, topN int) Snapshot {
	c.mu.Lock()
	buf := make([]Entry, len(c.entries))
	copy(buf, c.entries)
	c.mu.Unlock()

	snap := Snapshot{Since: since}
	var durations []float64
	requests := map[string]*PathStat{}
	queries := map[string]*PathStat{}

	for _, e := range buf {
		if e.Timestamp.IsZero() || e.Timestamp.Before(since) {
			continue
		}
		switch e.Kind {
		case KindRequest:
			snap.Requests++
			durations = append(durations, e.DurationMs)
			s := accumulate(requests, e)
			if e.StatusCode >= 500 {
				s.ServerErrors++
			}
		case KindQuery:
			snap.Queries++
			accumulate(queries, e)
		}
	}

	snap.SlowestPaths = topByAvg(requests, topN)
	snap.SlowestQueries = topByAvg(queries, topN)
	if len(durations) > 0 {
		sort.Float64s(durations)
		snap.RequestP50Ms = percentile(durations, 50)
		snap.RequestP95Ms = percentile(durations, 95)
		snap.RequestP99Ms = percentile(durations, 99)
	}
	return snap
}

func accumulate(stats map[string]*PathStat, e Entry) *PathStat {
	s, ok := stats[e.Path]
	if !ok {
		s = &PathStat{Path: e.Path}
		stats[e.Path] = s
	}
	s.Count++
	s.TotalMs += e.DurationMs
	s.MaxMs = math.Max(s.MaxMs, e.DurationMs)
	return s
}

// percentile interpolates the p-th percentile of a sorted slice.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := (p / 100) * float64(len(sorted)-1)
	lower := int(math.Floor(idx))
	upper := int(math.Ceil(idx))
	if lower == upper || upper >= len(sorted) {
		return sorted[lower]
	}
	frac := idx - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}

// topByAvg returns the n slowest entries by average, ties broken by path.
func topByAvg(stats map[string]*PathStat, n int) []PathStat {
	list := make([]PathStat, 0, len(stats))
	for _, s := range stats {
		s.AvgMs = s.TotalMs / float64(s.Count)
		list = append(list, *s)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].AvgMs != list[j].AvgMs {
			return list[i].AvgMs > list[j].AvgMs
		}
		return list[i].Path < list[j].Path
	})
	if n >= 0 && len(list) > n {
		list = list[:n]
	}
	return list
}
