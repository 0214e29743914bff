package audit

import (
	"slices"
	"testing"

	"github.com/sciviz/figlint/pkg/scene"
)

func addText(fig *scene.Figure, panel int, id string, role scene.TextRole, size float64) {
	p := &fig.Panels[panel]
	bbox := scene.Rect{X: p.BBox.X + 0.1, Y: p.BBox.Y + 0.1, W: 0.5, H: 0.2}
	p.Elements = append(p.Elements, textElem(id, role, size, bbox))
}

func TestFontInconsistency(t *testing.T) {
	fig := figureWithPanels(3)
	addText(fig, 0, "p0/e0", scene.RoleAxisLabel, 8)
	addText(fig, 1, "p1/e0", scene.RoleAxisLabel, 8)
	addText(fig, 2, "p2/e0", scene.RoleAxisLabel, 10)

	issues, err := fontChecker{}.Check(fig, testStandard(), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	inc := issuesOfKind(issues, KindFontInconsistency)
	if len(inc) != 1 {
		t.Fatalf("got %d FontInconsistency issues, want 1", len(inc))
	}
	// Only the deviating element is referenced; the mode is 8pt.
	if !slices.Equal(inc[0].Elements, []string{"p2/e0"}) {
		t.Errorf("elements = %v, want [p2/e0]", inc[0].Elements)
	}
	if inc[0].Suggestion != "set every axis_label to 8pt" {
		t.Errorf("suggestion = %q", inc[0].Suggestion)
	}
	if !inc[0].AutoFixable {
		t.Error("FontInconsistency should be auto-fixable")
	}
}

func TestFontTieBreaksTowardSmaller(t *testing.T) {
	fig := figureWithPanels(2)
	addText(fig, 0, "p0/e0", scene.RoleTickLabel, 10)
	addText(fig, 1, "p1/e0", scene.RoleTickLabel, 8)

	issues, err := fontChecker{}.Check(fig, testStandard(), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	inc := issuesOfKind(issues, KindFontInconsistency)
	if len(inc) != 1 {
		t.Fatalf("got %d issues, want 1", len(inc))
	}
	// With one vote each the smaller size wins, so the 10pt element
	// is the deviant.
	if !slices.Equal(inc[0].Elements, []string{"p0/e0"}) {
		t.Errorf("elements = %v, want [p0/e0]", inc[0].Elements)
	}
}

func TestFontConsistentRolesNotFlagged(t *testing.T) {
	fig := figureWithPanels(2)
	addText(fig, 0, "p0/e0", scene.RoleAxisLabel, 8)
	addText(fig, 1, "p1/e0", scene.RoleAxisLabel, 8)
	// Different role, different size: roles are independent.
	addText(fig, 0, "p0/e1", scene.RoleTickLabel, 6)

	issues, err := fontChecker{}.Check(fig, testStandard(), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if len(issuesOfKind(issues, KindFontInconsistency)) != 0 {
		t.Error("consistent roles should not be flagged")
	}
}

func TestFontUnspecifiedSizesExcluded(t *testing.T) {
	fig := figureWithPanels(2)
	addText(fig, 0, "p0/e0", scene.RoleAxisLabel, 8)
	addText(fig, 1, "p1/e0", scene.RoleAxisLabel, 0) // unspecified

	issues, err := fontChecker{}.Check(fig, testStandard(), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if len(issues) != 0 {
		t.Errorf("unspecified sizes produced %d issues", len(issues))
	}
}

func TestFontRangeViolations(t *testing.T) {
	fig := figureWithPanels(2)
	addText(fig, 0, "p0/e0", scene.RoleTickLabel, 4)  // below 5pt minimum
	addText(fig, 1, "p1/e0", scene.RoleAnnotation, 14) // above 12pt maximum

	issues, err := fontChecker{}.Check(fig, testStandard(), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	small := issuesOfKind(issues, KindFontTooSmall)
	if len(small) != 1 {
		t.Fatalf("got %d FontTooSmall issues, want 1", len(small))
	}
	if small[0].Severity != SeverityError {
		t.Errorf("FontTooSmall severity = %s, want error", small[0].Severity)
	}

	large := issuesOfKind(issues, KindFontTooLarge)
	if len(large) != 1 {
		t.Fatalf("got %d FontTooLarge issues, want 1", len(large))
	}
	if large[0].Severity != SeverityInfo {
		t.Errorf("FontTooLarge severity = %s, want info", large[0].Severity)
	}
}

func TestFontPanelTitlesParticipate(t *testing.T) {
	fig := figureWithPanels(2)
	fig.Panels[0].Title = "A"
	fig.Panels[0].TitleFontSize = 10
	fig.Panels[1].Title = "B"
	fig.Panels[1].TitleFontSize = 9

	issues, err := fontChecker{}.Check(fig, testStandard(), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	inc := issuesOfKind(issues, KindFontInconsistency)
	if len(inc) != 1 {
		t.Fatalf("got %d issues, want 1 for diverging titles", len(inc))
	}
	// Titles reference panels, not elements.
	if !slices.Equal(inc[0].Panels, []int{0}) {
		t.Errorf("panels = %v, want [0] (the 10pt title deviates from the 9pt mode)", inc[0].Panels)
	}
	if len(inc[0].Elements) != 0 {
		t.Errorf("elements = %v, want none", inc[0].Elements)
	}
}
