package issue

import (
	"errors"
	"strings"
)

// Domain errors
var (
	ErrEmptyVolume     = errors.New("volume cannot be empty")
	ErrEmptyNumber     = errors.New("issue number cannot be empty")
	ErrEmptyTargetDate = errors.New("target date cannot be empty")
)

// Issue is a planned journal issue. It is acknowledged, never stored.
type Issue struct {
	Volume     string
	Number     string
	TargetDate string // as typed, nominally YYYY-MM-DD
}

// Validate checks if the Issue has valid data.
func (i *Issue) Validate() error {
	if strings.TrimSpace(i.Volume) == "" {
		return ErrEmptyVolume
	}
	if strings.TrimSpace(i.Number) == "" {
		return ErrEmptyNumber
	}
	if strings.TrimSpace(i.TargetDate) == "" {
		return ErrEmptyTargetDate
	}
	return nil
}
