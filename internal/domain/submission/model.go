package submission

import (
	"errors"
	"strings"
)

// Status constants
const (
	StatusPending          = "pending"
	StatusUnderReview      = "under-review"
	StatusAccepted         = "accepted"
	StatusRejected         = "rejected"
	StatusRevisionRequired = "revision-required"
)

// ValidStatuses lists statuses in dashboard order.
var ValidStatuses = []string{StatusPending, StatusUnderReview, StatusAccepted, StatusRejected, StatusRevisionRequired}

// statusLabels maps a status to the text shown on the dashboard.
var statusLabels = map[string]string{
	StatusPending:          "Pending",
	StatusUnderReview:      "Under Review",
	StatusAccepted:         "Accepted",
	StatusRejected:         "Rejected",
	StatusRevisionRequired: "Revision Required",
}

// statusClasses maps a status to its CSS modifier class.
var statusClasses = map[string]string{
	StatusPending:          "pending",
	StatusUnderReview:      "under-review",
	StatusAccepted:         "accepted",
	StatusRejected:         "rejected",
	StatusRevisionRequired: "revision",
}

// Specialization constants
const (
	SpecKayachikitsa   = "kayachikitsa"
	SpecPanchakarma    = "panchakarma"
	SpecShalya         = "shalya-tantra"
	SpecShalakya       = "shalakya-tantra"
	SpecKaumarabhritya = "kaumarabhritya"
	SpecAgadaTantra    = "agada-tantra"
	SpecRasayana       = "rasayana"
	SpecDravyaguna     = "dravyaguna"
)

// Specializations lists every specialization in filter order.
var Specializations = []string{
	SpecKayachikitsa, SpecPanchakarma, SpecShalya, SpecShalakya,
	SpecKaumarabhritya, SpecAgadaTantra, SpecRasayana, SpecDravyaguna,
}

// Domain errors
var (
	ErrEmptyID               = errors.New("submission id cannot be empty")
	ErrEmptyTitle            = errors.New("submission title cannot be empty")
	ErrInvalidStatus         = errors.New("status must be one of: pending, under-review, accepted, rejected, revision-required")
	ErrNotFound              = errors.New("submission not found")
	ErrUnknownSpecialization = errors.New("unknown specialization")
)

// Record is a manuscript as listed on the editorial dashboard.
type Record struct {
	ID             string
	Title          string
	Author         string
	Institution    string
	SubmittedDate  string // display date, e.g. "Jan 1, 2025"
	Type           string // display text, e.g. "Original Research"
	Status         string
	Specialization string
}

// Validate checks if the Record has valid data.
// PRE: Record struct is populated
// POST: Returns nil if valid, error otherwise
func (r *Record) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(r.Title) == "" {
		return ErrEmptyTitle
	}
	if !IsValidStatus(r.Status) {
		return ErrInvalidStatus
	}
	if r.Specialization != "" && !IsValidSpecialization(r.Specialization) {
		return ErrUnknownSpecialization
	}
	return nil
}

// StatusLabel returns the dashboard text for the record's status.
func (r Record) StatusLabel() string {
	return StatusLabel(r.Status)
}

// StatusClass returns the CSS modifier class for the record's status.
func (r Record) StatusClass() string {
	return statusClasses[r.Status]
}

// StatusSlug is the label lower-cased with its first space turned into a hyphen.
// The status filter matches against this text.
func (r Record) StatusSlug() string {
	return strings.Replace(strings.ToLower(r.StatusLabel()), " ", "-", 1)
}

// Accept marks the record accepted.
// POST: Status is accepted
func (r *Record) Accept() {
	r.Status = StatusAccepted
}

// Reject marks the record rejected.
// POST: Status is rejected
func (r *Record) Reject() {
	r.Status = StatusRejected
}

// RequestRevision marks the record as needing author revision.
// POST: Status is revision-required
func (r *Record) RequestRevision() {
	r.Status = StatusRevisionRequired
}

// StatusLabel returns the dashboard text for a status value.
func StatusLabel(status string) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return status
}

// IsValidStatus reports whether status is one of ValidStatuses.
func IsValidStatus(status string) bool {
	_, ok := statusLabels[status]
	return ok
}

// IsValidSpecialization reports whether spec is one of Specializations.
func IsValidSpecialization(spec string) bool {
	for _, s := range Specializations {
		if s == spec {
			return true
		}
	}
	return false
}

// SpecializationLabel turns "shalya-tantra" into "Shalya Tantra".
func SpecializationLabel(spec string) string {
	parts := strings.Split(spec, "-")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, " ")
}

// Stats are the dashboard counters.
type Stats struct {
	Total       int
	UnderReview int
	Accepted    int
	Published   int
}

// ComputeStats derives the dashboard counters from the full record set.
// Published stays zero: nothing in this system publishes an issue.
func ComputeStats(records []Record) Stats {
	st := Stats{Total: len(records)}
	for _, r := range records {
		switch r.Status {
		case StatusUnderReview:
			st.UnderReview++
		case StatusAccepted:
			st.Accepted++
		}
	}
	return st
}

// SampleRecords returns the demonstration records seeded into an empty store.
func SampleRecords() []Record {
	return []Record{
		{
			ID:             "IJA-1704067200",
			Title:          "Clinical Efficacy of Triphala in Digestive Disorders: A Randomized Control Trial",
			Author:         "Dr. Ramesh Kumar",
			Institution:    "AIIMS Delhi",
			SubmittedDate:  "Jan 1, 2025",
			Type:           "Original Research",
			Status:         StatusPending,
			Specialization: SpecKayachikitsa,
		},
		{
			ID:             "IJA-1704067300",
			Title:          "Ayurvedic Management of Diabetes Mellitus: A Systematic Review",
			Author:         "Dr. Priya Sharma",
			Institution:    "BAMS College, Mumbai",
			SubmittedDate:  "Dec 28, 2024",
			Type:           "Review Article",
			Status:         StatusUnderReview,
			Specialization: SpecKayachikitsa,
		},
		{
			ID:             "IJA-1704067400",
			Title:          "Panchakarma Therapy in Rheumatoid Arthritis: A Case Series",
			Author:         "Dr. Arun Joshi",
			Institution:    "Kerala Ayurveda College",
			SubmittedDate:  "Dec 25, 2024",
			Type:           "Case Study",
			Status:         StatusAccepted,
			Specialization: SpecPanchakarma,
		},
	}
}
