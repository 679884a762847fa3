package manuscript

import (
	"encoding/json"
	"errors"
	"fmt"
)

// DraftKey is the client-storage key holding the auto-saved form.
const DraftKey = "ija_draft_submission"

// ReceiptKey holds the Markdown summary of the client's last accepted
// submission until the form page shows it once.
const ReceiptKey = "ija_last_receipt"

// ErrMalformedDraft is returned when stored draft text cannot be restored.
var ErrMalformedDraft = errors.New("malformed draft")

// Draft is a snapshot of the form: checkbox fields map to bool, others to string.
type Draft map[string]any

// DraftFromValues snapshots every catalog field.
func DraftFromValues(v Values) Draft {
	d := make(Draft, len(Fields))
	for _, f := range Fields {
		if f.Checkbox {
			d[f.Name] = v.Checked(f.Name)
		} else {
			d[f.Name] = v[f.Name]
		}
	}
	return d
}

// ParseDraft decodes stored draft text.
// Every value must be a string or a bool.
func ParseDraft(raw string) (Draft, error) {
	var d Draft
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDraft, err)
	}
	if d == nil {
		return nil, fmt.Errorf("%w: not an object", ErrMalformedDraft)
	}
	for k, val := range d {
		switch val.(type) {
		case string, bool:
		default:
			return nil, fmt.Errorf("%w: field %q has type %T", ErrMalformedDraft, k, val)
		}
	}
	return d, nil
}

// Encode serialises the draft for storage.
func (d Draft) Encode() (string, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Apply restores the draft into v. Only names in the catalog are touched;
// fields missing from the draft keep their current value.
func (d Draft) Apply(v Values) Values {
	out := make(Values, len(v)+len(d))
	for k, val := range v {
		out[k] = val
	}
	for name, raw := range d {
		f, ok := Lookup(name)
		if !ok {
			continue
		}
		switch val := raw.(type) {
		case bool:
			if f.Checkbox {
				out[name] = checkedString(val)
			} else {
				out[name] = fmt.Sprint(val)
			}
		case string:
			if f.Checkbox {
				out[name] = checkedString(val != "")
			} else {
				out[name] = val
			}
		}
	}
	return out
}

func checkedString(b bool) string {
	if b {
		return CheckedValue
	}
	return ""
}
