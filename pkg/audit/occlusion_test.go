package audit

import (
	"testing"

	"github.com/sciviz/figlint/pkg/scene"
)

// occlusionFigure builds a one-panel figure with a 10x10 data envelope
// and a single annotation overlay at the given bbox.
func occlusionFigure(overlay scene.Rect) *scene.Figure {
	return &scene.Figure{
		Width: 20, Height: 20, DPI: 300,
		Panels: []scene.Panel{{
			BBox: scene.Rect{X: 0, Y: 0, W: 18, H: 18},
			Elements: []scene.Element{
				seriesElem("p0/e0", "#0072B2", scene.Rect{X: 0, Y: 0, W: 10, H: 10}),
				{ID: "p0/e1", Kind: scene.KindAnnotation, Text: "note", BBox: overlay},
			},
		}},
	}
}

func TestOcclusionThresholds(t *testing.T) {
	tests := []struct {
		name         string
		overlay      scene.Rect
		wantSeverity Severity
		wantIssue    bool
	}{
		{
			// Intersection area 25 over overlay area 100 is 25%,
			// past the error threshold.
			name:         "QuarterCovered",
			overlay:      scene.Rect{X: 5, Y: 5, W: 10, H: 10},
			wantSeverity: SeverityError,
			wantIssue:    true,
		},
		{
			// 10% lands between the warn and error thresholds.
			name:         "TenPercent",
			overlay:      scene.Rect{X: 9, Y: 0, W: 10, H: 10},
			wantSeverity: SeverityWarning,
			wantIssue:    true,
		},
		{
			// 2% stays under the warn threshold.
			name:      "TwoPercent",
			overlay:   scene.Rect{X: 9.8, Y: 0, W: 10, H: 10},
			wantIssue: false,
		},
		{
			name:      "NoOverlap",
			overlay:   scene.Rect{X: 11, Y: 11, W: 5, H: 5},
			wantIssue: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fig := occlusionFigure(tt.overlay)
			issues, err := occlusionChecker{}.Check(fig, testStandard(), DefaultConfig())
			if err != nil {
				t.Fatal(err)
			}

			occ := issuesOfKind(issues, KindDataOcclusion)
			if !tt.wantIssue {
				if len(occ) != 0 {
					t.Fatalf("got %d DataOcclusion issues, want none", len(occ))
				}
				return
			}
			if len(occ) != 1 {
				t.Fatalf("got %d DataOcclusion issues, want 1", len(occ))
			}
			if occ[0].Severity != tt.wantSeverity {
				t.Errorf("severity = %s, want %s", occ[0].Severity, tt.wantSeverity)
			}
			if occ[0].Elements[0] != "p0/e1" {
				t.Errorf("elements = %v, want the overlay", occ[0].Elements)
			}
		})
	}
}

func TestOcclusionLegendOverlay(t *testing.T) {
	fig := occlusionFigure(scene.Rect{X: 11, Y: 11, W: 1, H: 1})
	fig.Panels[0].Elements = append(fig.Panels[0].Elements,
		legendElem("p0/e2", scene.Rect{X: 2, Y: 2, W: 5, H: 5}, entries(
			[2]string{"#0072B2", "control"},
		)))

	issues, err := occlusionChecker{}.Check(fig, testStandard(), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	occ := issuesOfKind(issues, KindDataOcclusion)
	if len(occ) != 1 {
		t.Fatalf("got %d issues, want 1 for the legend", len(occ))
	}
	// Legend lies fully inside the envelope: 100% coverage.
	if occ[0].Severity != SeverityError {
		t.Errorf("severity = %s, want error", occ[0].Severity)
	}
}

func TestOcclusionIgnoresInvisibleReferenceLine(t *testing.T) {
	fig := occlusionFigure(scene.Rect{X: 11, Y: 11, W: 1, H: 1})
	p := &fig.Panels[0]
	p.XLim = scene.Range{Min: 0, Max: 1}
	p.Elements = append(p.Elements, scene.Element{
		ID: "p0/e2", Kind: scene.KindReferenceLine, Text: "cutoff",
		BBox: scene.Rect{X: 2, Y: 2, W: 4, H: 4},
		Line: &scene.RefLine{Orientation: scene.Vertical, Value: 5},
	})

	issues, err := occlusionChecker{}.Check(fig, testStandard(), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if len(issuesOfKind(issues, KindDataOcclusion)) != 0 {
		t.Error("label of an out-of-range reference line should be ignored")
	}

	// Bring the line into range; now its label occludes.
	p.XLim = scene.Range{Min: 0, Max: 10}
	issues, err = occlusionChecker{}.Check(fig, testStandard(), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if len(issuesOfKind(issues, KindDataOcclusion)) != 1 {
		t.Error("in-range reference line label should be flagged")
	}
}

func TestOcclusionPanelWithoutData(t *testing.T) {
	fig := &scene.Figure{
		Width: 10, Height: 10,
		Panels: []scene.Panel{{
			BBox: scene.Rect{X: 0, Y: 0, W: 8, H: 8},
			Elements: []scene.Element{
				{ID: "p0/e0", Kind: scene.KindAnnotation, Text: "only text", BBox: scene.Rect{X: 1, Y: 1, W: 2, H: 2}},
			},
		}},
	}

	issues, err := occlusionChecker{}.Check(fig, testStandard(), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if len(issues) != 0 {
		t.Error("panel without data elements cannot have occlusion")
	}
}
