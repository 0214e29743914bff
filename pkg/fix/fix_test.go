package fix

import (
	"reflect"
	"strings"
	"testing"

	"github.com/sciviz/figlint/pkg/audit"
	"github.com/sciviz/figlint/pkg/errors"
	"github.com/sciviz/figlint/pkg/scene"
	"github.com/sciviz/figlint/pkg/standards"
)

func testStandard() standards.Standard {
	return standards.Standard{
		Name:         "Test Journal",
		WidthSingle:  3.5,
		WidthOneHalf: 5.5,
		WidthDouble:  7.0,
		MaxHeight:    9.0,
		DPIMin:       300,
		FontMin:      5,
		FontMax:      12,
	}
}

// twoPanelFig builds a 7x4in figure with two 3.5in panels so figure and
// panel widths both sit on the standard column grid.
func twoPanelFig() *scene.Figure {
	return &scene.Figure{
		Width: 7.0, Height: 4.0, DPI: 300,
		Panels: []scene.Panel{
			{BBox: scene.Rect{X: 0, Y: 0.5, W: 3.5, H: 3.0}},
			{BBox: scene.Rect{X: 3.5, Y: 0.5, W: 3.5, H: 3.0}},
		},
	}
}

func addSeries(fig *scene.Figure, panel int, id, color string) {
	p := &fig.Panels[panel]
	p.Elements = append(p.Elements, scene.Element{
		ID: id, Kind: scene.KindDataSeries,
		BBox:  scene.Rect{X: p.BBox.X + 0.2, Y: 0.7, W: 3.0, H: 1.0},
		Style: scene.Style{Color: color},
	})
}

func addLegend(fig *scene.Figure, panel int, id string, entries []scene.LegendEntry) {
	p := &fig.Panels[panel]
	p.Elements = append(p.Elements, scene.Element{
		ID: id, Kind: scene.KindLegend,
		BBox:    scene.Rect{X: p.BBox.X + 0.2, Y: 2.5, W: 1.0, H: 0.5},
		Entries: entries,
	})
}

func sharedEntries() []scene.LegendEntry {
	return []scene.LegendEntry{
		{Color: "#0072B2", Label: "control"},
		{Color: "#D55E00", Label: "treated"},
	}
}

func mustAudit(t *testing.T, fig *scene.Figure) audit.Report {
	t.Helper()
	engine, err := audit.NewEngine(audit.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	report, err := engine.Audit(fig, testStandard())
	if err != nil {
		t.Fatal(err)
	}
	return report
}

func findIssue(t *testing.T, report audit.Report, kind audit.Kind) audit.Issue {
	t.Helper()
	for _, i := range report.Issues {
		if i.Kind == kind {
			return i
		}
	}
	t.Fatalf("report has no %s issue: %+v", kind, report.Issues)
	return audit.Issue{}
}

// assertFixed applies the issue and verifies the idempotence contract:
// re-auditing the result must not reproduce an issue with the same
// kind and reference sets.
func assertFixed(t *testing.T, fig *scene.Figure, issue audit.Issue) *scene.Figure {
	t.Helper()
	fixed, err := Apply(fig, issue, testStandard())
	if err != nil {
		t.Fatalf("Apply(%s) failed: %v", issue.Kind, err)
	}

	after := mustAudit(t, fixed)
	for _, i := range after.Issues {
		if i.Key() == issue.Key() {
			t.Fatalf("fixed issue reappeared: %+v", i)
		}
	}
	return fixed
}

func TestRedundantLegendFix(t *testing.T) {
	fig := twoPanelFig()
	addSeries(fig, 0, "p0/e0", "#0072B2")
	addSeries(fig, 1, "p1/e0", "#0072B2")
	addLegend(fig, 0, "p0/e1", sharedEntries())
	addLegend(fig, 1, "p1/e1", sharedEntries())

	issue := findIssue(t, mustAudit(t, fig), audit.KindRedundantLegend)
	fixed := assertFixed(t, fig, issue)

	if fixed.SharedLegend == nil {
		t.Fatal("fix should install a shared legend")
	}
	if len(fixed.SharedLegend.Entries) != 2 {
		t.Errorf("shared legend has %d entries, want 2", len(fixed.SharedLegend.Entries))
	}
	for pi := range fixed.Panels {
		if fixed.Panels[pi].Legend() != nil {
			t.Errorf("panel %d still has a legend", pi)
		}
	}

	// Shared legend lies outside every panel.
	for pi := range fixed.Panels {
		if fixed.SharedLegend.BBox.Intersects(fixed.Panels[pi].BBox) {
			t.Errorf("shared legend overlaps panel %d", pi)
		}
	}

	// The input figure keeps its legends.
	if fig.Panels[0].Legend() == nil || fig.SharedLegend != nil {
		t.Error("Apply mutated the input figure")
	}
}

func TestOcclusionLegendFix(t *testing.T) {
	fig := twoPanelFig()
	addSeries(fig, 0, "p0/e0", "#0072B2")
	// Legend placed on top of the data envelope.
	fig.Panels[0].Elements = append(fig.Panels[0].Elements, scene.Element{
		ID: "p0/e1", Kind: scene.KindLegend,
		BBox:    scene.Rect{X: 0.5, Y: 0.8, W: 1.0, H: 0.5},
		Entries: sharedEntries(),
	})

	issue := findIssue(t, mustAudit(t, fig), audit.KindDataOcclusion)
	fixed := assertFixed(t, fig, issue)

	if fixed.Panels[0].Legend() != nil {
		t.Error("occluding legend should leave the panel")
	}
	if fixed.SharedLegend == nil {
		t.Error("legend entries should survive in the shared legend")
	}
}

func TestOcclusionAnnotationFix(t *testing.T) {
	fig := twoPanelFig()
	addSeries(fig, 0, "p0/e0", "#0072B2")
	fig.Panels[0].Title = "Dose response"
	fig.Panels[0].Elements = append(fig.Panels[0].Elements, scene.Element{
		ID: "p0/e1", Kind: scene.KindAnnotation, Text: "n=12",
		BBox: scene.Rect{X: 0.5, Y: 0.8, W: 1.0, H: 0.4},
	})

	issue := findIssue(t, mustAudit(t, fig), audit.KindDataOcclusion)
	fixed := assertFixed(t, fig, issue)

	if _, e := fixed.FindElement("p0/e1"); e != nil {
		t.Error("annotation should be removed")
	}
	if fixed.Panels[0].Title != "Dose response (n=12)" {
		t.Errorf("title = %q, want the annotation folded in", fixed.Panels[0].Title)
	}
}

func TestOcclusionReferenceLineFix(t *testing.T) {
	fig := twoPanelFig()
	addSeries(fig, 0, "p0/e0", "#0072B2")
	fig.Panels[0].Elements = append(fig.Panels[0].Elements, scene.Element{
		ID: "p0/e1", Kind: scene.KindReferenceLine, Text: "baseline",
		BBox: scene.Rect{X: 0.5, Y: 0.9, W: 1.0, H: 0.3},
		Line: &scene.RefLine{Orientation: scene.Horizontal, Value: 0.5},
	})

	issue := findIssue(t, mustAudit(t, fig), audit.KindDataOcclusion)
	fixed := assertFixed(t, fig, issue)

	_, e := fixed.FindElement("p0/e1")
	if e == nil {
		t.Fatal("reference line label should survive relocation")
	}
	if e.BBox.Intersects(fixed.Panels[0].DataEnvelope()) {
		t.Error("relocated label still overlaps the data envelope")
	}
	if !fixed.Panels[0].BBox.Contains(e.BBox) {
		t.Error("relocated label left the panel")
	}
}

func TestFontHarmonizationFix(t *testing.T) {
	fig := twoPanelFig()
	sizes := []float64{8, 8, 10}
	for i, size := range sizes {
		panel := i % 2
		p := &fig.Panels[panel]
		p.Elements = append(p.Elements, scene.Element{
			ID: scene.ElementID(panel, len(p.Elements)), Kind: scene.KindAnnotation,
			Role: scene.RoleAxisLabel, Text: "axis",
			BBox:  scene.Rect{X: p.BBox.X + 0.1 + float64(i)*0.3, Y: 2.8, W: 0.2, H: 0.2},
			Style: scene.Style{FontSize: size},
		})
	}

	issue := findIssue(t, mustAudit(t, fig), audit.KindFontInconsistency)
	fixed := assertFixed(t, fig, issue)

	for pi := range fixed.Panels {
		for _, e := range fixed.Panels[pi].Elements {
			if e.Role == scene.RoleAxisLabel && e.Style.FontSize != 8 {
				t.Errorf("element %s size = %g, want the 8pt mode", e.ID, e.Style.FontSize)
			}
		}
	}
}

func TestResizeFix(t *testing.T) {
	fig := &scene.Figure{Width: 4.0, Height: 4.0, DPI: 300}

	issue := findIssue(t, mustAudit(t, fig), audit.KindNonStandardSize)
	fixed := assertFixed(t, fig, issue)

	if fixed.Width != 3.5 {
		t.Errorf("width = %g, want the nearest column width 3.5", fixed.Width)
	}
	if fig.Width != 4.0 {
		t.Error("input figure width changed")
	}
}

func TestResizeScalesPanels(t *testing.T) {
	fig := &scene.Figure{
		Width: 4.0, Height: 4.0, DPI: 300,
		Panels: []scene.Panel{{BBox: scene.Rect{X: 0.4, Y: 0.5, W: 3.2, H: 3.0}}},
	}

	issue := findIssue(t, mustAudit(t, fig), audit.KindNonStandardSize)
	fixed, err := Apply(fig, issue, testStandard())
	if err != nil {
		t.Fatal(err)
	}

	s := 3.5 / 4.0
	want := scene.Rect{X: 0.4 * s, Y: 0.5, W: 3.2 * s, H: 3.0}
	if fixed.Panels[0].BBox != want {
		t.Errorf("panel bbox = %+v, want %+v", fixed.Panels[0].BBox, want)
	}
}

func TestLowDPIFix(t *testing.T) {
	fig := &scene.Figure{Width: 3.5, Height: 4.0, DPI: 72}

	issue := findIssue(t, mustAudit(t, fig), audit.KindLowDPI)
	fixed := assertFixed(t, fig, issue)

	if fixed.DPI != 300 {
		t.Errorf("dpi = %d, want the journal minimum 300", fixed.DPI)
	}
}

func TestOversizedFigureFix(t *testing.T) {
	fig := &scene.Figure{
		Width: 3.5, Height: 18.0, DPI: 300,
		Panels: []scene.Panel{{BBox: scene.Rect{X: 0.2, Y: 1.0, W: 3.0, H: 16.0}}},
	}

	issue := findIssue(t, mustAudit(t, fig), audit.KindOversizedFigure)
	fixed := assertFixed(t, fig, issue)

	if fixed.Height != 9.0 {
		t.Errorf("height = %g, want the 9.0 in limit", fixed.Height)
	}
	// Uniform scaling: width shrinks by the same factor.
	if fixed.Width != 3.5*0.5 {
		t.Errorf("width = %g, want %g", fixed.Width, 3.5*0.5)
	}
	if !fixed.BBox().Contains(fixed.Panels[0].BBox) {
		t.Error("scaled panel escaped the figure")
	}
}

func TestColorblindConflictFix(t *testing.T) {
	fig := twoPanelFig()
	addSeries(fig, 0, "p0/e0", "#95593F")
	p := &fig.Panels[0]
	p.Elements = append(p.Elements, scene.Element{
		ID: "p0/e1", Kind: scene.KindDataSeries,
		BBox:  scene.Rect{X: 0.2, Y: 2.0, W: 3.0, H: 1.0},
		Style: scene.Style{Color: "#397D35"},
	})

	issue := findIssue(t, mustAudit(t, fig), audit.KindColorblindConflict)
	fixed := assertFixed(t, fig, issue)

	_, first := fixed.FindElement("p0/e0")
	_, second := fixed.FindElement("p0/e1")
	// Palette order follows original series order.
	if first.Style.Color != "#0072B2" || second.Style.Color != "#D55E00" {
		t.Errorf("recolored to (%s, %s), want the first two Wong colors",
			first.Style.Color, second.Style.Color)
	}
}

func TestNotAutoFixable(t *testing.T) {
	tests := []audit.Issue{
		{Kind: audit.KindPartialLegendOverlap, Panels: []int{0, 1}},
		{Kind: audit.KindMissingAxisLabel, Panels: []int{0}},
		{Kind: audit.KindFontTooSmall, Panels: []int{0}},
		{Kind: audit.KindInternalCheckerError},
		{Kind: audit.KindRedundantLegend}, // fixable kind, but flag unset
	}

	fig := twoPanelFig()
	for _, issue := range tests {
		t.Run(string(issue.Kind), func(t *testing.T) {
			if _, err := Describe(issue); !errors.Is(err, errors.ErrCodeNotAutoFixable) {
				t.Errorf("Describe error code = %v, want NOT_AUTO_FIXABLE", errors.GetCode(err))
			}
			if _, err := Apply(fig, issue, testStandard()); !errors.Is(err, errors.ErrCodeNotAutoFixable) {
				t.Errorf("Apply error code = %v, want NOT_AUTO_FIXABLE", errors.GetCode(err))
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	issue := audit.Issue{
		Kind: audit.KindRedundantLegend, AutoFixable: true,
		Panels: []int{0, 1}, Elements: []string{"p0/e1", "p1/e1"},
	}

	desc, err := Describe(issue)
	if err != nil {
		t.Fatal(err)
	}
	if desc.Kind != audit.KindRedundantLegend {
		t.Errorf("kind = %s", desc.Kind)
	}
	if !strings.Contains(desc.Summary, "shared") {
		t.Errorf("summary = %q", desc.Summary)
	}
	if len(desc.Targets) != 2 {
		t.Errorf("targets = %v", desc.Targets)
	}
}

func TestApplyDoesNotMutate(t *testing.T) {
	fig := twoPanelFig()
	addSeries(fig, 0, "p0/e0", "#95593F")
	addSeries(fig, 1, "p1/e0", "#0072B2")
	addLegend(fig, 0, "p0/e1", sharedEntries())
	addLegend(fig, 1, "p1/e1", sharedEntries())

	snapshot := scene.Clone(fig)
	report := mustAudit(t, fig)

	for _, issue := range report.AutoFixable() {
		if _, err := Apply(fig, issue, testStandard()); err != nil {
			t.Fatalf("Apply(%s): %v", issue.Kind, err)
		}
	}

	if !reflect.DeepEqual(snapshot, fig) {
		t.Error("Apply mutated the input figure")
	}
}

func TestApplyAll(t *testing.T) {
	fig := twoPanelFig()
	fig.DPI = 72
	addSeries(fig, 0, "p0/e0", "#95593F")
	p := &fig.Panels[0]
	p.Elements = append(p.Elements, scene.Element{
		ID: "p0/e1", Kind: scene.KindDataSeries,
		BBox:  scene.Rect{X: 0.2, Y: 2.0, W: 3.0, H: 1.0},
		Style: scene.Style{Color: "#397D35"},
	})
	addLegend(fig, 0, "p0/e2", sharedEntries())
	addLegend(fig, 1, "p1/e0", sharedEntries())

	report := mustAudit(t, fig)
	fixed, applied, err := ApplyAll(fig, report, testStandard())
	if err != nil {
		t.Fatal(err)
	}
	if len(applied) == 0 {
		t.Fatal("expected fixes to apply")
	}

	// None of the applied issues may survive a re-audit.
	after := mustAudit(t, fixed)
	keys := map[string]bool{}
	for _, i := range after.Issues {
		keys[i.Key()] = true
	}
	for _, issue := range applied {
		if keys[issue.Key()] {
			t.Errorf("applied issue %s still present after ApplyAll", issue.Key())
		}
	}
	if fixed.DPI != 300 {
		t.Errorf("dpi = %d after ApplyAll, want 300", fixed.DPI)
	}
}

func TestApplyAllNothingToDo(t *testing.T) {
	fig := &scene.Figure{Width: 3.5, Height: 4.0, DPI: 300}

	fixed, applied, err := ApplyAll(fig, audit.Report{}, testStandard())
	if err != nil {
		t.Fatal(err)
	}
	if len(applied) != 0 {
		t.Errorf("applied %d fixes on a clean report", len(applied))
	}
	if fixed == fig {
		t.Error("ApplyAll should return an independent copy")
	}
}
