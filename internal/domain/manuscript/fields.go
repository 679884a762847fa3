package manuscript

import (
	"net/url"
	"strings"
)

// Field names of the submission form.
const (
	FieldLeadAuthor         = "leadAuthor"
	FieldAuthorEmail        = "authorEmail"
	FieldInstitution        = "institution"
	FieldCoAuthors          = "coAuthors"
	FieldArticleTitle       = "articleTitle"
	FieldArticleType        = "articleType"
	FieldSpecialization     = "specialization"
	FieldKeywords           = "keywords"
	FieldAbstract           = "abstract"
	FieldIntroduction       = "introduction"
	FieldMethodology        = "methodology"
	FieldResults            = "results"
	FieldConclusion         = "conclusion"
	FieldReferences         = "references"
	FieldConflictInterest   = "conflictInterest"
	FieldFunding            = "funding"
	FieldAcknowledgments    = "acknowledgments"
	FieldOriginalWork       = "originalWork"
	FieldEthicalApproval    = "ethicalApproval"
	FieldCopyrightAgreement = "copyrightAgreement"
	FieldPeerReview         = "peerReviewAgreement"
)

// CheckedValue is what a ticked checkbox posts.
const CheckedValue = "on"

// Field describes one named control of the submission form.
type Field struct {
	Name     string
	Label    string
	Required bool
	Checkbox bool
}

// Fields is the form catalog in page order.
var Fields = []Field{
	{Name: FieldLeadAuthor, Label: "Lead Author", Required: true},
	{Name: FieldAuthorEmail, Label: "Email", Required: true},
	{Name: FieldInstitution, Label: "Institution", Required: true},
	{Name: FieldCoAuthors, Label: "Co-authors"},
	{Name: FieldArticleTitle, Label: "Article Title", Required: true},
	{Name: FieldArticleType, Label: "Article Type", Required: true},
	{Name: FieldSpecialization, Label: "Specialization", Required: true},
	{Name: FieldKeywords, Label: "Keywords", Required: true},
	{Name: FieldAbstract, Label: "Abstract", Required: true},
	{Name: FieldIntroduction, Label: "Introduction", Required: true},
	{Name: FieldMethodology, Label: "Methodology"},
	{Name: FieldResults, Label: "Results and Discussion", Required: true},
	{Name: FieldConclusion, Label: "Conclusion", Required: true},
	{Name: FieldReferences, Label: "References", Required: true},
	{Name: FieldConflictInterest, Label: "Conflict of Interest"},
	{Name: FieldFunding, Label: "Funding"},
	{Name: FieldAcknowledgments, Label: "Acknowledgments"},
	{Name: FieldOriginalWork, Label: "This is original work", Required: true, Checkbox: true},
	{Name: FieldEthicalApproval, Label: "Ethical approval obtained where applicable", Required: true, Checkbox: true},
	{Name: FieldCopyrightAgreement, Label: "I agree to the copyright terms", Required: true, Checkbox: true},
	{Name: FieldPeerReview, Label: "I agree to the peer review process", Required: true, Checkbox: true},
}

var fieldIndex = func() map[string]Field {
	m := make(map[string]Field, len(Fields))
	for _, f := range Fields {
		m[f.Name] = f
	}
	return m
}()

// Lookup returns the catalog entry for name.
func Lookup(name string) (Field, bool) {
	f, ok := fieldIndex[name]
	return f, ok
}

// Option is a value/label pair for a select control.
type Option struct {
	Value string
	Label string
}

// ArticleTypes are the choices of the articleType select.
var ArticleTypes = []Option{
	{Value: "original-research", Label: "Original Research"},
	{Value: "review-article", Label: "Review Article"},
	{Value: "case-study", Label: "Case Study"},
	{Value: "short-communication", Label: "Short Communication"},
}

// Values holds the current content of the form keyed by field name.
// Checkbox fields hold CheckedValue when ticked and "" otherwise.
type Values map[string]string

// ValuesFromForm copies the catalog fields out of a posted form.
// Names outside the catalog are dropped.
func ValuesFromForm(form url.Values) Values {
	v := make(Values, len(Fields))
	for _, f := range Fields {
		raw := form.Get(f.Name)
		if f.Checkbox {
			if raw != "" {
				v[f.Name] = CheckedValue
			} else {
				v[f.Name] = ""
			}
			continue
		}
		v[f.Name] = raw
	}
	return v
}

// Checked reports whether the checkbox name is ticked.
func (v Values) Checked(name string) bool {
	return v[name] != ""
}

// Blank reports whether name is empty after trimming.
func (v Values) Blank(name string) bool {
	return strings.TrimSpace(v[name]) == ""
}
