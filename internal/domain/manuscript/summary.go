package manuscript

import (
	"fmt"
	"strings"
)

// Summary renders the editorial-office notice for a record as a Markdown
// title and body.
func Summary(r Record) (title, body string) {
	title = "New Submission: " + r.Title()

	date := r[KeySubmissionDate]
	if t, err := r.SubmittedAt(); err == nil {
		date = t.Format("1/2/2006")
	}

	var b strings.Builder
	b.WriteString("## New Article Submission\n\n")
	fmt.Fprintf(&b, "**Submission ID:** %s\n", r.ID())
	fmt.Fprintf(&b, "**Submission Date:** %s\n\n", date)

	b.WriteString("### Author Information\n")
	fmt.Fprintf(&b, "- **Lead Author:** %s\n", r[FieldLeadAuthor])
	fmt.Fprintf(&b, "- **Email:** %s\n", r[FieldAuthorEmail])
	fmt.Fprintf(&b, "- **Institution:** %s\n", r[FieldInstitution])
	fmt.Fprintf(&b, "- **Co-authors:** %s\n\n", orDefault(r[FieldCoAuthors], "None"))

	b.WriteString("### Article Details\n")
	fmt.Fprintf(&b, "- **Title:** %s\n", r.Title())
	fmt.Fprintf(&b, "- **Type:** %s\n", r[FieldArticleType])
	fmt.Fprintf(&b, "- **Specialization:** %s\n", r[FieldSpecialization])
	fmt.Fprintf(&b, "- **Keywords:** %s\n\n", r[FieldKeywords])

	section(&b, "Abstract", r[FieldAbstract])
	section(&b, "Introduction", r[FieldIntroduction])
	section(&b, "Methodology", orDefault(r[FieldMethodology], "Not provided"))
	section(&b, "Results and Discussion", r[FieldResults])
	section(&b, "Conclusion", r[FieldConclusion])
	section(&b, "References", r[FieldReferences])

	b.WriteString("### Additional Information\n")
	fmt.Fprintf(&b, "- **Conflict of Interest:** %s\n", orDefault(r[FieldConflictInterest], "None declared"))
	fmt.Fprintf(&b, "- **Funding:** %s\n", orDefault(r[FieldFunding], "None"))
	fmt.Fprintf(&b, "- **Acknowledgments:** %s\n\n", orDefault(r[FieldAcknowledgments], "None"))

	b.WriteString("### Submission Agreements\n")
	agreement(&b, "Original Work", r[FieldOriginalWork])
	agreement(&b, "Ethical Approval", r[FieldEthicalApproval])
	agreement(&b, "Copyright Agreement", r[FieldCopyrightAgreement])
	agreement(&b, "Peer Review Agreement", r[FieldPeerReview])

	b.WriteString("\n---\n\n")
	b.WriteString("**Status:** Pending Editorial Review\n")
	b.WriteString("**Next Action:** Assign to Editorial Board for initial screening\n")

	return title, b.String()
}

func section(b *strings.Builder, heading, text string) {
	fmt.Fprintf(b, "### %s\n%s\n\n", heading, text)
}

func agreement(b *strings.Builder, label, value string) {
	mark := "❌ Not confirmed"
	if value != "" {
		mark = "✅ Confirmed"
	}
	fmt.Fprintf(b, "- %s: %s\n", label, mark)
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
