package manuscript

// State is where the submission form is in its lifecycle.
type State int

// Lifecycle states. Rejected and Failed both leave the form editable.
const (
	StateEditing State = iota
	StateValidating
	StateRejected
	StateSubmitting
	StateAccepted
	StateFailed
)

var stateNames = [...]string{"editing", "validating", "rejected", "submitting", "accepted", "failed"}

func (s State) String() string {
	if int(s) < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Editable reports whether the form keeps the user's input in this state.
func (s State) Editable() bool {
	switch s {
	case StateEditing, StateRejected, StateFailed:
		return true
	}
	return false
}

// AfterValidation returns the state that follows validating.
func AfterValidation(errs FieldErrors) State {
	if len(errs) > 0 {
		return StateRejected
	}
	return StateSubmitting
}
