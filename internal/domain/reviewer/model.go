package reviewer

import (
	"errors"
	"strings"
)

// Domain errors
var (
	ErrEmptyName           = errors.New("reviewer name cannot be empty")
	ErrEmptySpecialization = errors.New("reviewer specialization cannot be empty")
	ErrEmptyInstitution    = errors.New("reviewer institution cannot be empty")
	ErrNotOnRoster         = errors.New("reviewer is not on the roster")
)

// Roster is the fixed list of reviewers available for assignment.
var Roster = []string{
	"Dr. Anil Gupta",
	"Dr. Meera Patel",
	"Dr. Suresh Nair",
	"Dr. Priya Reddy",
}

// OnRoster reports whether name exactly matches a roster entry.
func OnRoster(name string) bool {
	for _, r := range Roster {
		if r == name {
			return true
		}
	}
	return false
}

// Reviewer is a proposed addition to the review board.
// Nothing stores it; the dashboard only acknowledges it.
type Reviewer struct {
	Name           string
	Specialization string
	Institution    string
}

// Validate checks if the Reviewer has valid data.
// PRE: Reviewer struct is populated
// POST: Returns nil if valid, error otherwise
func (r *Reviewer) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(r.Specialization) == "" {
		return ErrEmptySpecialization
	}
	if strings.TrimSpace(r.Institution) == "" {
		return ErrEmptyInstitution
	}
	return nil
}
