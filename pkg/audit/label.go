package audit

import (
	"fmt"

	"github.com/sciviz/figlint/pkg/scene"
	"github.com/sciviz/figlint/pkg/standards"
)

// =============================================================================
// Label Checker
// =============================================================================

// labelChecker flags data-bearing panels that declare no axis label
// text at all. Reviewers reject unlabeled axes; the fix is editorial,
// so the issue stays manual.
type labelChecker struct{}

func (labelChecker) Name() string { return "label" }

func (labelChecker) Check(fig *scene.Figure, _ standards.Standard, _ Config) ([]Issue, error) {
	var issues []Issue

	for pi := range fig.Panels {
		p := &fig.Panels[pi]
		if !p.DataEnvelope().Valid() {
			continue
		}
		if hasAxisLabel(p) {
			continue
		}
		issues = append(issues, Issue{
			Kind:       KindMissingAxisLabel,
			Severity:   SeverityWarning,
			Panels:     []int{pi},
			Message:    fmt.Sprintf("panel %d plots data but declares no axis labels", pi),
			Suggestion: "label both axes, including units",
		})
	}
	return issues, nil
}

func hasAxisLabel(p *scene.Panel) bool {
	for i := range p.Elements {
		e := &p.Elements[i]
		if e.Role == scene.RoleAxisLabel && e.Text != "" {
			return true
		}
	}
	return false
}
