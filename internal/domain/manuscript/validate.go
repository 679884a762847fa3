package manuscript

import (
	"regexp"
	"sort"
)

// Inline error messages.
const (
	MsgRequired        = "This field is required"
	MsgInvalidEmail    = "Please enter a valid email address"
	MsgAbstractTooLong = "Abstract must be 250 words or less"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail reports whether s has a local@domain.tld shape.
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// FieldErrors maps a field name to the message shown next to it.
type FieldErrors map[string]string

// Fields returns the names with errors in sorted order.
func (fe FieldErrors) Fields() []string {
	names := make([]string, 0, len(fe))
	for name := range fe {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate runs every check and collects all violations.
// A later check replaces an earlier message for the same field.
// POST: returns an empty map iff the form may be submitted
func Validate(v Values) FieldErrors {
	errs := FieldErrors{}
	for _, f := range Fields {
		if f.Required && v.Blank(f.Name) {
			errs[f.Name] = MsgRequired
		}
	}
	if email := v[FieldAuthorEmail]; email != "" && !IsValidEmail(email) {
		errs[FieldAuthorEmail] = MsgInvalidEmail
	}
	if CountWords(v[FieldAbstract]) > MaxAbstractWords {
		errs[FieldAbstract] = MsgAbstractTooLong
	}
	return errs
}
