package projections

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	submissionStore "journal/internal/adapters/storage/submission"
	"journal/internal/application/listutil"
	"journal/internal/domain/account"
	"journal/internal/domain/reviewer"
	"journal/internal/domain/submission"
)

// Dashboard tabs
const (
	TabSubmissions = "submissions"
	TabReviewers   = "reviewers"
	TabIssues      = "issues"
)

// Tabs lists the dashboard panels in display order.
var Tabs = []string{TabSubmissions, TabReviewers, TabIssues}

// Query parameter names of the dashboard view.
const (
	ParamTab            = "tab"
	ParamStatus         = "status"
	ParamSpecialization = "specialization"
)

// DashboardView is the dashboard's UI state: which panel is open and how
// the submission list is narrowed.
// INVARIANT: ActiveTab is one of Tabs; each filter is listutil.All or an allowed value
type DashboardView struct {
	ActiveTab            string
	StatusFilter         string
	SpecializationFilter string
}

// ParseDashboardView normalises the view from query values.
func ParseDashboardView(q url.Values) DashboardView {
	filters := listutil.ParseFilterParams(q, []listutil.FilterSpec{
		{Key: ParamStatus, Allowed: submission.ValidStatuses},
		{Key: ParamSpecialization, Allowed: submission.Specializations},
	})
	return DashboardView{
		ActiveTab:            listutil.ParseChoice(q, ParamTab, Tabs, TabSubmissions),
		StatusFilter:         filters[ParamStatus],
		SpecializationFilter: filters[ParamSpecialization],
	}
}

// Matches reports whether r is visible under the view's filters.
// The status filter matches by substring of the rendered status slug;
// the specialization filter matches exactly.
func (v DashboardView) Matches(r submission.Record) bool {
	if v.StatusFilter != listutil.All && v.StatusFilter != "" &&
		!strings.Contains(r.StatusSlug(), v.StatusFilter) {
		return false
	}
	if v.SpecializationFilter != listutil.All && v.SpecializationFilter != "" &&
		r.Specialization != v.SpecializationFilter {
		return false
	}
	return true
}

// WithTab returns a copy of the view with a different active tab.
func (v DashboardView) WithTab(tab string) DashboardView {
	v.ActiveTab = tab
	return v
}

// Encode renders the view as a query string, omitting defaults.
func (v DashboardView) Encode() string {
	q := url.Values{}
	if v.ActiveTab != TabSubmissions && v.ActiveTab != "" {
		q.Set(ParamTab, v.ActiveTab)
	}
	if v.StatusFilter != listutil.All && v.StatusFilter != "" {
		q.Set(ParamStatus, v.StatusFilter)
	}
	if v.SpecializationFilter != listutil.All && v.SpecializationFilter != "" {
		q.Set(ParamSpecialization, v.SpecializationFilter)
	}
	return q.Encode()
}

// DashboardSubmissionStore defines the store interface needed by the dashboard projection.
type DashboardSubmissionStore interface {
	List(ctx context.Context, filter submissionStore.ListFilter) ([]submission.Record, error)
}

// GetDashboardQuery carries input for the dashboard projection.
type GetDashboardQuery struct {
	Username string
	View     DashboardView
}

// GetDashboardDeps holds dependencies for the dashboard projection.
type GetDashboardDeps struct {
	SubmissionStore DashboardSubmissionStore
}

// Option is a select choice.
type Option struct {
	Value string
	Label string
}

// DashboardResult carries the output of the dashboard projection.
type DashboardResult struct {
	DisplayName string
	View        DashboardView
	Stats       submission.Stats
	Rows        []submission.Record
	NoResults   bool

	StatusOptions         []Option
	SpecializationOptions []Option
	Reviewers             []string
}

// QueryGetDashboard loads every record, derives the counters from the full
// set, and keeps the rows visible under the view.
// PRE: Username is the authenticated session's user
// POST: Stats reflect all stored records regardless of filters
func QueryGetDashboard(ctx context.Context, query GetDashboardQuery, deps GetDashboardDeps) (DashboardResult, error) {
	all, err := deps.SubmissionStore.List(ctx, submissionStore.ListFilter{})
	if err != nil {
		return DashboardResult{}, fmt.Errorf("list submissions: %w", err)
	}

	result := DashboardResult{
		DisplayName: account.Capitalize(query.Username),
		View:        query.View,
		Stats:       submission.ComputeStats(all),
		Reviewers:   reviewer.Roster,
	}
	for _, r := range all {
		if query.View.Matches(r) {
			result.Rows = append(result.Rows, r)
		}
	}
	result.NoResults = len(result.Rows) == 0

	for _, s := range submission.ValidStatuses {
		result.StatusOptions = append(result.StatusOptions, Option{Value: s, Label: submission.StatusLabel(s)})
	}
	for _, s := range submission.Specializations {
		result.SpecializationOptions = append(result.SpecializationOptions, Option{Value: s, Label: submission.SpecializationLabel(s)})
	}
	return result, nil
}
