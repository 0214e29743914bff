package audit

import (
	"fmt"

	"github.com/sciviz/figlint/pkg/scene"
	"github.com/sciviz/figlint/pkg/standards"
)

// =============================================================================
// Occlusion Checker
// =============================================================================

// occlusionChecker measures how much of each overlay (legend,
// annotation, reference-line label) covers the panel's data envelope.
// Small overlaps are tolerated; past the warn threshold an issue is
// emitted, and past the error threshold it escalates.
type occlusionChecker struct{}

func (occlusionChecker) Name() string { return "occlusion" }

// overlayKinds are the element kinds that can sit on top of data.
var overlayKinds = []scene.ElementKind{
	scene.KindLegend,
	scene.KindAnnotation,
	scene.KindReferenceLine,
}

func (occlusionChecker) Check(fig *scene.Figure, _ standards.Standard, cfg Config) ([]Issue, error) {
	var issues []Issue

	for pi := range fig.Panels {
		p := &fig.Panels[pi]
		env := p.DataEnvelope()
		if !env.Valid() {
			continue
		}

		for _, kind := range overlayKinds {
			for _, e := range p.ElementsByKind(kind) {
				// A reference line outside the current axis limits is
				// not drawn, so its label cannot occlude anything.
				if e.Line != nil && !e.Line.InAxisRange(p) {
					continue
				}

				frac := e.BBox.OverlapFraction(env)
				if frac <= cfg.OcclusionWarn {
					continue
				}

				severity := SeverityWarning
				if frac > cfg.OcclusionError {
					severity = SeverityError
				}

				issue := Issue{
					Kind:     KindDataOcclusion,
					Severity: severity,
					Panels:   []int{pi},
					Elements: []string{e.ID},
					Message: fmt.Sprintf("%s covers %.0f%% of the data region in panel %d",
						kindLabel(kind), frac*100, pi),
					Suggestion:  occlusionSuggestion(kind),
					AutoFixable: true,
				}
				issue.normalize()
				issues = append(issues, issue)
			}
		}
	}
	return issues, nil
}

func kindLabel(kind scene.ElementKind) string {
	switch kind {
	case scene.KindLegend:
		return "legend"
	case scene.KindAnnotation:
		return "annotation"
	case scene.KindReferenceLine:
		return "reference line label"
	default:
		return string(kind)
	}
}

func occlusionSuggestion(kind scene.ElementKind) string {
	switch kind {
	case scene.KindLegend:
		return "move the legend outside the data region or to a figure-level position"
	case scene.KindAnnotation:
		return "relocate the annotation to empty panel space"
	case scene.KindReferenceLine:
		return "shift the line label toward the panel edge"
	default:
		return "relocate the element outside the data region"
	}
}
