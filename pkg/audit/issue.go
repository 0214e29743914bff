// Package audit implements the figure quality audit engine.
//
// The engine runs a fixed set of checkers over one immutable scene
// snapshot and aggregates their findings into a deterministic Report.
// Checkers are independent and side-effect-free; per-panel checks run
// in parallel workers, and the final sort (not collection order)
// defines the report contract.
//
// # Usage
//
//	std, _ := standards.Lookup("nature")
//	engine := audit.NewEngine(audit.DefaultConfig(), logger)
//	report := engine.Audit(fig, std)
//	for _, issue := range report.Issues {
//	    fmt.Println(issue.Kind, issue.Message)
//	}
package audit

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// Severity
// =============================================================================

// Severity classifies how strongly an issue blocks submission readiness.
type Severity string

// Severity levels, ordered Info < Warning < Error.
const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Rank returns the ordinal position of the severity for sorting.
// Unknown severities rank lowest.
func (s Severity) Rank() int {
	switch s {
	case SeverityError:
		return 3
	case SeverityWarning:
		return 2
	case SeverityInfo:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether s is at least as severe as min.
func (s Severity) AtLeast(min Severity) bool {
	return s.Rank() >= min.Rank()
}

// ParseSeverity converts a string into a Severity.
func ParseSeverity(v string) (Severity, bool) {
	switch Severity(strings.ToLower(v)) {
	case SeverityInfo:
		return SeverityInfo, true
	case SeverityWarning:
		return SeverityWarning, true
	case SeverityError:
		return SeverityError, true
	}
	return "", false
}

// =============================================================================
// Kind
// =============================================================================

// Kind identifies a category of composition defect.
type Kind string

// Issue kinds.
const (
	KindRedundantLegend      Kind = "redundant_legend"
	KindPartialLegendOverlap Kind = "partial_legend_overlap"
	KindDataOcclusion        Kind = "data_occlusion"
	KindFontInconsistency    Kind = "font_inconsistency"
	KindFontTooSmall         Kind = "font_too_small"
	KindFontTooLarge         Kind = "font_too_large"
	KindNonStandardSize      Kind = "non_standard_size"
	KindLowDPI               Kind = "low_dpi"
	KindOversizedFigure      Kind = "oversized_figure"
	KindColorblindConflict   Kind = "colorblind_conflict"
	KindMissingAxisLabel     Kind = "missing_axis_label"
	KindInternalCheckerError Kind = "internal_checker_error"
)

// =============================================================================
// Issue
// =============================================================================

// Issue is one detected composition defect. Issues are immutable once
// emitted; panel and element references resolve against the audited
// Figure at emission time.
type Issue struct {
	Kind     Kind     `json:"kind" bson:"kind"`
	Severity Severity `json:"severity" bson:"severity"`

	// Panels holds the referenced panel indices, sorted ascending.
	// Empty for figure-level issues (size, DPI).
	Panels []int `json:"panels,omitempty" bson:"panels,omitempty"`

	// Elements holds the referenced element IDs, sorted ascending.
	Elements []string `json:"elements,omitempty" bson:"elements,omitempty"`

	Message    string `json:"message" bson:"message"`
	Suggestion string `json:"suggestion,omitempty" bson:"suggestion,omitempty"`

	AutoFixable bool `json:"auto_fixable" bson:"auto_fixable"`
}

// normalize sorts the reference sets so equivalent issues constructed
// by different checkers compare equal.
func (i *Issue) normalize() {
	slices.Sort(i.Panels)
	i.Panels = slices.Compact(i.Panels)
	slices.Sort(i.Elements)
	i.Elements = slices.Compact(i.Elements)
}

// Key returns the canonical deduplication key: kind plus sorted panel
// and element references. Analyzers run independently and may
// construct equivalent Issues separately; the aggregator collapses
// them by this key rather than by identity.
func (i *Issue) Key() string {
	var b strings.Builder
	b.WriteString(string(i.Kind))
	b.WriteByte('|')
	for n, p := range i.Panels {
		if n > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%d", p)
	}
	b.WriteByte('|')
	b.WriteString(strings.Join(i.Elements, ","))
	return b.String()
}

// minPanel returns the lowest referenced panel index, or -1 for
// figure-level issues so they sort ahead of panel 0.
func (i *Issue) minPanel() int {
	if len(i.Panels) == 0 {
		return -1
	}
	return i.Panels[0]
}

// =============================================================================
// Report
// =============================================================================

// Report is the ordered result of one audit call. Issues are sorted by
// severity descending, then lowest panel index, then kind, then element
// references; the order is total, so repeated audits of an unmodified
// figure yield element-wise identical reports.
type Report struct {
	ID        string    `json:"id" bson:"_id"`
	Journal   string    `json:"journal,omitempty" bson:"journal,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	Issues    []Issue   `json:"issues" bson:"issues"`
}

// NewReport creates a report with a fresh identifier.
func NewReport(journal string, issues []Issue) Report {
	return Report{
		ID:        uuid.NewString(),
		Journal:   journal,
		CreatedAt: time.Now().UTC(),
		Issues:    issues,
	}
}

// Counts returns the number of issues per severity.
func (r *Report) Counts() (errs, warnings, infos int) {
	for _, i := range r.Issues {
		switch i.Severity {
		case SeverityError:
			errs++
		case SeverityWarning:
			warnings++
		case SeverityInfo:
			infos++
		}
	}
	return errs, warnings, infos
}

// HasSeverity reports whether any issue is at least min severe.
func (r *Report) HasSeverity(min Severity) bool {
	for _, i := range r.Issues {
		if i.Severity.AtLeast(min) {
			return true
		}
	}
	return false
}

// AutoFixable returns the issues a fix pass can address, in report order.
func (r *Report) AutoFixable() []Issue {
	var out []Issue
	for _, i := range r.Issues {
		if i.AutoFixable {
			out = append(out, i)
		}
	}
	return out
}

// sortIssues applies the report ordering contract in place.
func sortIssues(issues []Issue) {
	slices.SortFunc(issues, compareIssues)
}

// compareIssues implements the total report order.
func compareIssues(a, b Issue) int {
	if d := b.Severity.Rank() - a.Severity.Rank(); d != 0 {
		return d
	}
	if d := a.minPanel() - b.minPanel(); d != 0 {
		return d
	}
	if d := strings.Compare(string(a.Kind), string(b.Kind)); d != 0 {
		return d
	}
	if d := strings.Compare(strings.Join(a.Elements, ","), strings.Join(b.Elements, ",")); d != 0 {
		return d
	}
	return strings.Compare(a.Message, b.Message)
}
