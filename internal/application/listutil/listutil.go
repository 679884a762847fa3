// Package listutil parses list-view controls (tabs and filters) from URL
// query values into normalised choices.
package listutil

import (
	"net/url"
	"strings"
)

// All is the filter value that matches every row.
const All = "all"

// FilterSpec names one filter parameter and the values it accepts.
type FilterSpec struct {
	Key     string
	Allowed []string
}

// FilterParams carries the normalised filter values keyed by parameter name.
// Every spec'd key is present; unknown or missing values become All.
type FilterParams map[string]string

// Active reports whether key narrows the list.
func (f FilterParams) Active(key string) bool {
	v, ok := f[key]
	return ok && v != All
}

// Encode renders the non-default filters as a query string.
func (f FilterParams) Encode() string {
	q := url.Values{}
	for k, v := range f {
		if v != All {
			q.Set(k, v)
		}
	}
	return q.Encode()
}

// ParseChoice returns q[key] if it is one of allowed, else fallback.
// Matching ignores surrounding space and case.
// PRE: none
// POST: result is fallback or an element of allowed
func ParseChoice(q url.Values, key string, allowed []string, fallback string) string {
	v := strings.ToLower(strings.TrimSpace(q.Get(key)))
	for _, a := range allowed {
		if v == a {
			return a
		}
	}
	return fallback
}

// ParseFilterParams parses each spec'd filter, defaulting to All.
// PRE: specs lists the recognised filter parameters
// POST: returns one entry per spec; unrecognised query keys are ignored
func ParseFilterParams(q url.Values, specs []FilterSpec) FilterParams {
	fp := make(FilterParams, len(specs))
	for _, s := range specs {
		fp[s.Key] = ParseChoice(q, s.Key, s.Allowed, All)
	}
	return fp
}
