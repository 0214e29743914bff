package audit

import (
	"fmt"

	"github.com/sciviz/figlint/pkg/palette"
	"github.com/sciviz/figlint/pkg/scene"
	"github.com/sciviz/figlint/pkg/standards"
)

// =============================================================================
// Color Checker
// =============================================================================

// colorChecker simulates dichromatic color vision over each panel's
// categorical series colors and flags pairs whose projections fall
// within the similarity threshold. Distance is measured between the
// projected colors, so two series can conflict even when their original
// colors look clearly different to unimpaired vision.
type colorChecker struct{}

func (colorChecker) Name() string { return "color" }

// seriesColor is one distinct categorical color with the first element
// that introduced it.
type seriesColor struct {
	hex       string
	elementID string
}

func (colorChecker) Check(fig *scene.Figure, _ standards.Standard, cfg Config) ([]Issue, error) {
	var issues []Issue

	for pi := range fig.Panels {
		colors := panelSeriesColors(&fig.Panels[pi])

		for i := 0; i < len(colors); i++ {
			for j := i + 1; j < len(colors); j++ {
				dist, def, err := palette.MinSimulatedDistance(colors[i].hex, colors[j].hex)
				if err != nil {
					return nil, err
				}
				if dist >= cfg.ColorDistance {
					continue
				}

				issue := Issue{
					Kind:     KindColorblindConflict,
					Severity: SeverityWarning,
					Panels:   []int{pi},
					Elements: []string{colors[i].elementID, colors[j].elementID},
					Message: fmt.Sprintf("colors %s and %s in panel %d become indistinguishable under %s",
						colors[i].hex, colors[j].hex, pi, def),
					Suggestion:  "recolor the series with the Wong colorblind-safe palette",
					AutoFixable: true,
				}
				issue.normalize()
				issues = append(issues, issue)
			}
		}
	}
	return issues, nil
}

// panelSeriesColors returns the distinct, parseable colors encoding
// categorical series in the panel, in first-use order. Elements without
// a declared color are unspecified and skipped.
func panelSeriesColors(p *scene.Panel) []seriesColor {
	seen := map[string]bool{}
	var out []seriesColor
	for i := range p.Elements {
		e := &p.Elements[i]
		if e.Kind != scene.KindDataSeries && e.Kind != scene.KindBar {
			continue
		}
		hex := e.Style.Color
		if hex == "" || seen[hex] {
			continue
		}
		// Unparseable colors cannot be simulated; treat them as
		// unspecified rather than failing the checker.
		if _, err := palette.Parse(hex); err != nil {
			continue
		}
		seen[hex] = true
		out = append(out, seriesColor{hex: hex, elementID: e.ID})
	}
	return out
}
