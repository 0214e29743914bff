package audit

import (
	"fmt"
	"slices"
	"strings"

	"github.com/sciviz/figlint/pkg/scene"
	"github.com/sciviz/figlint/pkg/standards"
)

// =============================================================================
// Legend Checker
// =============================================================================

// legendChecker finds duplicated legend information across panels of a
// multi-panel figure: panels repeating the exact same entry set, and
// panel pairs whose legends overlap without being identical.
type legendChecker struct{}

func (legendChecker) Name() string { return "legend" }

// panelLegend pairs a panel index with its legend's normalized entry set.
type panelLegend struct {
	panel     int
	elementID string
	entries   []string // sorted "color\x00label" keys
}

func (legendChecker) Check(fig *scene.Figure, _ standards.Standard, _ Config) ([]Issue, error) {
	// Duplication is only possible across multiple panels.
	if len(fig.Panels) < 2 {
		return nil, nil
	}

	var legends []panelLegend
	for pi := range fig.Panels {
		leg := fig.Panels[pi].Legend()
		// Panels with fewer than two entries carry too little
		// information to count as duplication.
		if leg == nil || len(leg.Entries) < 2 {
			continue
		}
		legends = append(legends, panelLegend{
			panel:     pi,
			elementID: leg.ID,
			entries:   entryKeys(leg.Entries),
		})
	}
	if len(legends) < 2 {
		return nil, nil
	}

	var issues []Issue
	issues = append(issues, redundantGroups(legends)...)
	issues = append(issues, partialOverlaps(legends)...)
	return issues, nil
}

// redundantGroups emits one issue per group of panels sharing an
// identical legend entry set.
func redundantGroups(legends []panelLegend) []Issue {
	groups := map[string][]panelLegend{}
	for _, l := range legends {
		sig := strings.Join(l.entries, "\x01")
		groups[sig] = append(groups[sig], l)
	}

	var issues []Issue
	for _, group := range groups {
		if len(group) < 2 {
			continue
		}
		issue := Issue{
			Kind:     KindRedundantLegend,
			Severity: SeverityWarning,
			Message: fmt.Sprintf("%d panels repeat the same %d-entry legend",
				len(group), len(group[0].entries)),
			Suggestion:  "replace the per-panel legends with a single shared legend",
			AutoFixable: true,
		}
		for _, l := range group {
			issue.Panels = append(issue.Panels, l.panel)
			issue.Elements = append(issue.Elements, l.elementID)
		}
		issue.normalize()
		issues = append(issues, issue)
	}
	return issues
}

// partialOverlaps emits one issue per panel pair whose legends share
// entries without being identical. Such legends cannot be merged
// mechanically without dropping information, so the issue is not
// auto-fixable.
func partialOverlaps(legends []panelLegend) []Issue {
	var issues []Issue
	for i := 0; i < len(legends); i++ {
		for j := i + 1; j < len(legends); j++ {
			a, b := legends[i], legends[j]
			shared := intersectSorted(a.entries, b.entries)
			if len(shared) == 0 || slices.Equal(a.entries, b.entries) {
				continue
			}
			issue := Issue{
				Kind:     KindPartialLegendOverlap,
				Severity: SeverityWarning,
				Panels:   []int{a.panel, b.panel},
				Elements: []string{a.elementID, b.elementID},
				Message: fmt.Sprintf("panels %d and %d share %d legend entries but their legends differ",
					a.panel, b.panel, len(shared)),
				Suggestion:  "align the legends manually or restrict each legend to panel-specific entries",
				AutoFixable: false,
			}
			issue.normalize()
			issues = append(issues, issue)
		}
	}
	return issues
}

// entryKeys normalizes legend entries into a sorted key list so entry
// order within a legend does not affect comparison.
func entryKeys(entries []scene.LegendEntry) []string {
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = strings.ToLower(e.Color) + "\x00" + e.Label
	}
	slices.Sort(keys)
	return slices.Compact(keys)
}

// intersectSorted returns the elements present in both sorted slices.
func intersectSorted(a, b []string) []string {
	var out []string
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			out = append(out, a[i])
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return out
}
