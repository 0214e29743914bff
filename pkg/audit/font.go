package audit

import (
	"fmt"
	"slices"

	"github.com/sciviz/figlint/pkg/scene"
	"github.com/sciviz/figlint/pkg/standards"
)

// =============================================================================
// Font Checker
// =============================================================================

// fontChecker verifies font size consistency within each text role and
// enforces the journal's readable size range. The canonical size for a
// role is the mode of the observed sizes, with ties broken toward the
// smaller size (conservative for print).
type fontChecker struct{}

func (fontChecker) Name() string { return "font" }

// fontSample is one observed font size with its provenance.
type fontSample struct {
	panel     int
	elementID string // empty for panel titles
	size      float64
}

func (fontChecker) Check(fig *scene.Figure, std standards.Standard, _ Config) ([]Issue, error) {
	byRole := collectFontSamples(fig)

	var issues []Issue
	for _, role := range sortedRoles(byRole) {
		samples := byRole[role]
		issues = append(issues, roleInconsistency(role, samples)...)
		issues = append(issues, rangeViolations(role, samples, std)...)
	}
	return issues, nil
}

// collectFontSamples gathers every specified font size grouped by text
// role. Elements without a role or size are unspecified and skipped.
// Panel titles participate under the title role.
func collectFontSamples(fig *scene.Figure) map[scene.TextRole][]fontSample {
	byRole := map[scene.TextRole][]fontSample{}
	for pi := range fig.Panels {
		p := &fig.Panels[pi]
		if p.TitleFontSize > 0 {
			byRole[scene.RoleTitle] = append(byRole[scene.RoleTitle], fontSample{
				panel: pi, size: p.TitleFontSize,
			})
		}
		for ei := range p.Elements {
			e := &p.Elements[ei]
			if e.Role == "" || e.Style.FontSize <= 0 {
				continue
			}
			byRole[e.Role] = append(byRole[e.Role], fontSample{
				panel: pi, elementID: e.ID, size: e.Style.FontSize,
			})
		}
	}
	return byRole
}

func sortedRoles(byRole map[scene.TextRole][]fontSample) []scene.TextRole {
	roles := make([]scene.TextRole, 0, len(byRole))
	for r := range byRole {
		roles = append(roles, r)
	}
	slices.Sort(roles)
	return roles
}

// roleInconsistency emits one issue per role whose samples disagree,
// referencing the elements that deviate from the canonical size.
func roleInconsistency(role scene.TextRole, samples []fontSample) []Issue {
	if len(samples) < 2 {
		return nil
	}
	canonical := canonicalSize(samples)

	issue := Issue{
		Kind:        KindFontInconsistency,
		Severity:    SeverityWarning,
		Suggestion:  fmt.Sprintf("set every %s to %gpt", role, canonical),
		AutoFixable: true,
	}
	for _, s := range samples {
		if s.size == canonical {
			continue
		}
		issue.Panels = append(issue.Panels, s.panel)
		if s.elementID != "" {
			issue.Elements = append(issue.Elements, s.elementID)
		}
	}
	if len(issue.Panels) == 0 {
		return nil
	}
	issue.Message = fmt.Sprintf("%s sizes vary across the figure; most use %gpt", role, canonical)
	issue.normalize()
	return []Issue{issue}
}

// CanonicalFontSize returns the dominant declared size for a text role
// across the whole figure, applying the same mode-with-smaller-tie rule
// the consistency check uses. The second return is false when the role
// has no declared sizes.
func CanonicalFontSize(fig *scene.Figure, role scene.TextRole) (float64, bool) {
	samples := collectFontSamples(fig)[role]
	if len(samples) == 0 {
		return 0, false
	}
	return canonicalSize(samples), true
}

// canonicalSize returns the most frequent size; ties resolve to the
// smaller size.
func canonicalSize(samples []fontSample) float64 {
	counts := map[float64]int{}
	for _, s := range samples {
		counts[s.size]++
	}

	best, bestCount := 0.0, 0
	for size, n := range counts {
		if n > bestCount || (n == bestCount && size < best) {
			best, bestCount = size, n
		}
	}
	return best
}

// rangeViolations flags sizes outside the journal's allowed font range.
// Too-small text is an error (unreadable in print); too-large is
// informational.
func rangeViolations(role scene.TextRole, samples []fontSample, std standards.Standard) []Issue {
	var issues []Issue
	for _, s := range samples {
		switch {
		case std.FontMin > 0 && s.size < std.FontMin:
			issue := Issue{
				Kind:     KindFontTooSmall,
				Severity: SeverityError,
				Panels:   []int{s.panel},
				Message: fmt.Sprintf("%s at %gpt is below the %gpt minimum for %s",
					role, s.size, std.FontMin, std.Name),
				Suggestion: fmt.Sprintf("increase the size to at least %gpt", std.FontMin),
			}
			if s.elementID != "" {
				issue.Elements = []string{s.elementID}
			}
			issues = append(issues, issue)
		case std.FontMax > 0 && s.size > std.FontMax:
			issue := Issue{
				Kind:     KindFontTooLarge,
				Severity: SeverityInfo,
				Panels:   []int{s.panel},
				Message: fmt.Sprintf("%s at %gpt exceeds the %gpt maximum for %s",
					role, s.size, std.FontMax, std.Name),
				Suggestion: fmt.Sprintf("reduce the size to at most %gpt", std.FontMax),
			}
			if s.elementID != "" {
				issue.Elements = []string{s.elementID}
			}
			issues = append(issues, issue)
		}
	}
	return issues
}
