// Package modal is the question/answer protocol that editorial actions use
// in place of blocking browser dialogs. An action is evaluated against the
// answers collected so far; it either asks the next question, shows a
// final alert, or stops.
package modal

// Kind is the dialog shape the page must show.
type Kind string

// Dialog kinds
const (
	KindAlert   Kind = "alert"
	KindConfirm Kind = "confirm"
	KindPrompt  Kind = "prompt"
)

// Confirm answers
const (
	Yes = "true"
	No  = "false"
)

// Step is one question put to the user.
// Suggestions are hints for a prompt; the answer stays free text.
type Step struct {
	Kind        Kind     `json:"kind"`
	Key         string   `json:"key,omitempty"`
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// Answers maps a step key to the user's reply. A dismissed prompt is
// recorded as the empty string.
type Answers map[string]string

// Has reports whether key has been answered.
func (a Answers) Has(key string) bool {
	_, ok := a[key]
	return ok
}

// Get returns the answer for key, or "" if unanswered.
func (a Answers) Get(key string) string {
	return a[key]
}

// Confirmed reports whether the confirm step key was accepted.
func (a Answers) Confirmed(key string) bool {
	return a[key] == Yes
}

// Outcome is the result of evaluating an action.
// Exactly one of Next, Done or Cancelled describes what happens next.
type Outcome struct {
	Next      *Step  `json:"next,omitempty"`
	Alert     string `json:"alert,omitempty"`
	Done      bool   `json:"done"`
	Cancelled bool   `json:"cancelled"`
	Status    string `json:"status,omitempty"`
}

// Ask returns an outcome requesting one more answer.
func Ask(kind Kind, key, message string) Outcome {
	return Outcome{Next: &Step{Kind: kind, Key: key, Message: message}}
}

// Prompt asks a free-text question.
func Prompt(key, message string) Outcome {
	return Ask(KindPrompt, key, message)
}

// Confirm asks a yes/no question.
func Confirm(key, message string) Outcome {
	return Ask(KindConfirm, key, message)
}

// Finish ends the action with an alert.
func Finish(alert string) Outcome {
	return Outcome{Alert: alert, Done: true}
}

// Cancel ends the action silently.
func Cancel() Outcome {
	return Outcome{Cancelled: true}
}

// Pending reports whether the page must ask another question.
func (o Outcome) Pending() bool {
	return o.Next != nil
}
