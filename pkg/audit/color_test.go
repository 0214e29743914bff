package audit

import (
	"slices"
	"testing"

	"github.com/sciviz/figlint/pkg/scene"
)

func addSeries(fig *scene.Figure, panel int, id, color string) {
	p := &fig.Panels[panel]
	n := len(p.Elements)
	bbox := scene.Rect{X: p.BBox.X + 0.1, Y: p.BBox.Y + 0.1 + float64(n)*0.3, W: 2.0, H: 0.2}
	p.Elements = append(p.Elements, seriesElem(id, color, bbox))
}

func TestColorConfusablePairFlagged(t *testing.T) {
	// These two colors differ only in M-cone response: clearly
	// distinct to unimpaired vision, indistinguishable under
	// deuteranopia. The checker compares projections, not originals.
	fig := figureWithPanels(1)
	addSeries(fig, 0, "p0/e0", "#95593F")
	addSeries(fig, 0, "p0/e1", "#397D35")

	issues, err := colorChecker{}.Check(fig, testStandard(), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	conflicts := issuesOfKind(issues, KindColorblindConflict)
	if len(conflicts) != 1 {
		t.Fatalf("got %d ColorblindConflict issues, want 1", len(conflicts))
	}
	got := conflicts[0]
	if got.Severity != SeverityWarning {
		t.Errorf("severity = %s, want warning", got.Severity)
	}
	if !got.AutoFixable {
		t.Error("ColorblindConflict should be auto-fixable")
	}
	if !slices.Equal(got.Elements, []string{"p0/e0", "p0/e1"}) {
		t.Errorf("elements = %v", got.Elements)
	}
}

func TestColorSafePaletteNotFlagged(t *testing.T) {
	fig := figureWithPanels(1)
	addSeries(fig, 0, "p0/e0", "#0072B2")
	addSeries(fig, 0, "p0/e1", "#D55E00")
	addSeries(fig, 0, "p0/e2", "#009E73")

	issues, err := colorChecker{}.Check(fig, testStandard(), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if len(issues) != 0 {
		t.Errorf("safe palette produced %d issues", len(issues))
	}
}

func TestColorRepeatedColorNotAPair(t *testing.T) {
	// Two series sharing one color are one category visually; only
	// distinct colors form conflict pairs.
	fig := figureWithPanels(1)
	addSeries(fig, 0, "p0/e0", "#95593F")
	addSeries(fig, 0, "p0/e1", "#95593F")

	issues, err := colorChecker{}.Check(fig, testStandard(), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if len(issues) != 0 {
		t.Errorf("repeated color produced %d issues", len(issues))
	}
}

func TestColorPanelsIndependent(t *testing.T) {
	// The confusable pair is split across panels, so neither panel
	// has a conflict.
	fig := figureWithPanels(2)
	addSeries(fig, 0, "p0/e0", "#95593F")
	addSeries(fig, 1, "p1/e0", "#397D35")

	issues, err := colorChecker{}.Check(fig, testStandard(), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if len(issues) != 0 {
		t.Errorf("cross-panel colors produced %d issues", len(issues))
	}
}

func TestColorUnparseableSkipped(t *testing.T) {
	fig := figureWithPanels(1)
	addSeries(fig, 0, "p0/e0", "tab:blue")
	addSeries(fig, 0, "p0/e1", "#95593F")

	issues, err := colorChecker{}.Check(fig, testStandard(), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if len(issues) != 0 {
		t.Errorf("unparseable color should be skipped, got %d issues", len(issues))
	}
}
