package audit

import (
	"slices"
	"testing"

	"github.com/sciviz/figlint/pkg/scene"
)

func addLegend(fig *scene.Figure, panel int, id string, e []scene.LegendEntry) {
	p := &fig.Panels[panel]
	bbox := scene.Rect{X: p.BBox.X + 0.2, Y: p.BBox.Y + 0.2, W: 1.0, H: 0.8}
	p.Elements = append(p.Elements, legendElem(id, bbox, e))
}

func TestLegendSinglePanelNeverFlagged(t *testing.T) {
	fig := figureWithPanels(1)
	addLegend(fig, 0, "p0/e0", entries(
		[2]string{"#0072B2", "control"},
		[2]string{"#D55E00", "treated"},
	))

	issues, err := legendChecker{}.Check(fig, testStandard(), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if len(issues) != 0 {
		t.Errorf("single-panel figure produced %d legend issues", len(issues))
	}
}

func TestLegendRedundantGroupMerged(t *testing.T) {
	// Three panels repeating the same legend must yield exactly one
	// issue referencing all three, not three pairwise duplicates.
	fig := figureWithPanels(3)
	shared := entries(
		[2]string{"#0072B2", "control"},
		[2]string{"#D55E00", "treated"},
	)
	addLegend(fig, 0, "p0/e0", shared)
	addLegend(fig, 1, "p1/e0", shared)
	addLegend(fig, 2, "p2/e0", shared)

	issues, err := legendChecker{}.Check(fig, testStandard(), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	redundant := issuesOfKind(issues, KindRedundantLegend)
	if len(redundant) != 1 {
		t.Fatalf("got %d RedundantLegend issues, want 1", len(redundant))
	}
	got := redundant[0]
	if !slices.Equal(got.Panels, []int{0, 1, 2}) {
		t.Errorf("panels = %v, want [0 1 2]", got.Panels)
	}
	if !got.AutoFixable {
		t.Error("RedundantLegend should be auto-fixable")
	}
	if len(issuesOfKind(issues, KindPartialLegendOverlap)) != 0 {
		t.Error("identical legends should not also report partial overlap")
	}
}

func TestLegendEntryOrderIgnored(t *testing.T) {
	fig := figureWithPanels(2)
	addLegend(fig, 0, "p0/e0", entries(
		[2]string{"#0072B2", "control"},
		[2]string{"#D55E00", "treated"},
	))
	addLegend(fig, 1, "p1/e0", entries(
		[2]string{"#D55E00", "treated"},
		[2]string{"#0072B2", "control"},
	))

	issues, err := legendChecker{}.Check(fig, testStandard(), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if len(issuesOfKind(issues, KindRedundantLegend)) != 1 {
		t.Error("reordered entries should still count as identical legends")
	}
}

func TestLegendSparseLegendsNeverFlagged(t *testing.T) {
	// Legends with fewer than two entries carry no duplication signal.
	fig := figureWithPanels(2)
	addLegend(fig, 0, "p0/e0", entries([2]string{"#0072B2", "control"}))
	addLegend(fig, 1, "p1/e0", entries([2]string{"#0072B2", "control"}))

	issues, err := legendChecker{}.Check(fig, testStandard(), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if len(issues) != 0 {
		t.Errorf("one-entry legends produced %d issues", len(issues))
	}
}

func TestLegendPartialOverlap(t *testing.T) {
	fig := figureWithPanels(2)
	addLegend(fig, 0, "p0/e0", entries(
		[2]string{"#0072B2", "control"},
		[2]string{"#D55E00", "treated"},
	))
	addLegend(fig, 1, "p1/e0", entries(
		[2]string{"#0072B2", "control"},
		[2]string{"#D55E00", "treated"},
		[2]string{"#009E73", "washout"},
	))

	issues, err := legendChecker{}.Check(fig, testStandard(), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	partial := issuesOfKind(issues, KindPartialLegendOverlap)
	if len(partial) != 1 {
		t.Fatalf("got %d PartialLegendOverlap issues, want 1", len(partial))
	}
	if partial[0].AutoFixable {
		t.Error("partial overlap must not be auto-fixable")
	}
	if !slices.Equal(partial[0].Panels, []int{0, 1}) {
		t.Errorf("panels = %v, want [0 1]", partial[0].Panels)
	}
	if len(issuesOfKind(issues, KindRedundantLegend)) != 0 {
		t.Error("differing legends should not report redundancy")
	}
}

func TestLegendDisjointLegendsIgnored(t *testing.T) {
	fig := figureWithPanels(2)
	addLegend(fig, 0, "p0/e0", entries(
		[2]string{"#0072B2", "control"},
		[2]string{"#D55E00", "treated"},
	))
	addLegend(fig, 1, "p1/e0", entries(
		[2]string{"#009E73", "washout"},
		[2]string{"#CC79A7", "recovery"},
	))

	issues, err := legendChecker{}.Check(fig, testStandard(), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if len(issues) != 0 {
		t.Errorf("disjoint legends produced %d issues", len(issues))
	}
}
