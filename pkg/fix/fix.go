// Package fix turns auto-fixable audit issues into structural figure
// transforms. Every transform operates on a deep copy, so the
// caller-supplied figure is never mutated and pre-fix and post-fix
// reports stay comparable.
//
// The contract per transform: re-auditing the returned figure must not
// reproduce an issue with the same kind and reference sets as the one
// just fixed. Issues without a structural transform fail with
// NOT_AUTO_FIXABLE and leave the figure untouched.
package fix

import (
	"strings"

	"github.com/sciviz/figlint/pkg/audit"
	"github.com/sciviz/figlint/pkg/errors"
	"github.com/sciviz/figlint/pkg/observability"
	"github.com/sciviz/figlint/pkg/palette"
	"github.com/sciviz/figlint/pkg/scene"
	"github.com/sciviz/figlint/pkg/standards"
)

// =============================================================================
// Description
// =============================================================================

// Description is the dry-run form of a fix: what would change, without
// changing it.
type Description struct {
	Kind    audit.Kind `json:"kind"`
	Summary string     `json:"summary"`
	Panels  []int      `json:"panels,omitempty"`
	Targets []string   `json:"targets,omitempty"`
}

// Describe returns the transform that Apply would perform for the
// issue. Fails with NOT_AUTO_FIXABLE for issues that have none.
func Describe(issue audit.Issue) (Description, error) {
	summary, ok := summaries[issue.Kind]
	if !ok || !issue.AutoFixable {
		return Description{}, notFixable(issue)
	}
	return Description{
		Kind:    issue.Kind,
		Summary: summary,
		Panels:  issue.Panels,
		Targets: issue.Elements,
	}, nil
}

var summaries = map[audit.Kind]string{
	audit.KindRedundantLegend:    "remove the duplicated panel legends and install one shared figure-level legend",
	audit.KindDataOcclusion:      "relocate the overlay out of the data region",
	audit.KindFontInconsistency:  "set every text element of the role to the dominant size",
	audit.KindNonStandardSize:    "rescale the figure to the nearest standard column width",
	audit.KindLowDPI:             "raise the export resolution to the journal minimum",
	audit.KindOversizedFigure:    "scale the figure down to the page height limit",
	audit.KindColorblindConflict: "recolor the panel's series with the Wong safe palette, preserving series order",
}

func notFixable(issue audit.Issue) error {
	return errors.New(errors.ErrCodeNotAutoFixable,
		"issue %s has no automatic fix", issue.Kind)
}

// =============================================================================
// Apply
// =============================================================================

// Apply returns a new figure with the issue's transform applied. The
// input figure is never modified. The journal standard supplies the
// targets for size and resolution fixes.
func Apply(fig *scene.Figure, issue audit.Issue, std standards.Standard) (*scene.Figure, error) {
	if _, err := Describe(issue); err != nil {
		return nil, err
	}

	out := scene.Clone(fig)

	var err error
	switch issue.Kind {
	case audit.KindRedundantLegend:
		err = consolidateLegends(out, issue)
	case audit.KindDataOcclusion:
		err = relocateOverlay(out, issue)
	case audit.KindFontInconsistency:
		err = harmonizeFonts(out, issue)
	case audit.KindNonStandardSize:
		err = resizeToColumn(out, std)
	case audit.KindLowDPI:
		out.DPI = std.DPIMin
	case audit.KindOversizedFigure:
		err = clampHeight(out, std)
	case audit.KindColorblindConflict:
		err = recolorPanels(out, issue)
	default:
		return nil, notFixable(issue)
	}
	if err != nil {
		return nil, err
	}

	observability.Audit().OnFixApplied(string(issue.Kind), 1)
	return out, nil
}

// ApplyAll applies every auto-fixable issue of the report in order and
// returns the fixed figure together with the issues actually applied.
// Issues whose targets no longer exist (consumed by an earlier fix in
// the same pass) are skipped silently.
func ApplyAll(fig *scene.Figure, report audit.Report, std standards.Standard) (*scene.Figure, []audit.Issue, error) {
	current := fig
	var applied []audit.Issue

	for _, issue := range report.AutoFixable() {
		if targetsGone(current, issue) {
			continue
		}
		next, err := Apply(current, issue, std)
		if err != nil {
			return nil, nil, err
		}
		current = next
		applied = append(applied, issue)
	}

	if len(applied) == 0 {
		// Nothing to do; still hand back an independent copy.
		return scene.Clone(fig), nil, nil
	}
	return current, applied, nil
}

// targetsGone reports whether every referenced element has vanished
// from the figure.
func targetsGone(fig *scene.Figure, issue audit.Issue) bool {
	if len(issue.Elements) == 0 {
		return false
	}
	for _, id := range issue.Elements {
		if _, e := fig.FindElement(id); e != nil {
			return false
		}
	}
	return true
}

// =============================================================================
// Legend Consolidation
// =============================================================================

// consolidateLegends removes the referenced panel legends and installs
// a single shared legend with the union of their entries, placed below
// every panel.
func consolidateLegends(fig *scene.Figure, issue audit.Issue) error {
	var union []scene.LegendEntry
	seen := map[string]bool{}

	for _, id := range issue.Elements {
		pi, e := fig.FindElement(id)
		if e == nil || e.Kind != scene.KindLegend {
			continue
		}
		for _, entry := range e.Entries {
			key := strings.ToLower(entry.Color) + "\x00" + entry.Label
			if !seen[key] {
				seen[key] = true
				union = append(union, entry)
			}
		}
		removeElement(&fig.Panels[pi], id)
	}

	if len(union) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "issue references no legends")
	}
	installSharedLegend(fig, union)
	return nil
}

// installSharedLegend places a bottom legend band outside every panel,
// growing the figure when no free strip exists below them.
func installSharedLegend(fig *scene.Figure, entries []scene.LegendEntry) {
	if fig.SharedLegend != nil {
		seen := map[string]bool{}
		for _, e := range fig.SharedLegend.Entries {
			seen[strings.ToLower(e.Color)+"\x00"+e.Label] = true
		}
		for _, e := range entries {
			key := strings.ToLower(e.Color) + "\x00" + e.Label
			if !seen[key] {
				fig.SharedLegend.Entries = append(fig.SharedLegend.Entries, e)
			}
		}
		return
	}

	const bandH, gap = 0.3, 0.1

	minBottom := fig.Height
	for i := range fig.Panels {
		if b := fig.Panels[i].BBox.Bottom(); b < minBottom {
			minBottom = b
		}
	}

	y := minBottom - bandH - gap
	if y < 0 {
		shift := -y
		fig.Height += shift
		for pi := range fig.Panels {
			p := &fig.Panels[pi]
			p.BBox = p.BBox.Translate(0, shift)
			for ei := range p.Elements {
				p.Elements[ei].BBox = p.Elements[ei].BBox.Translate(0, shift)
			}
		}
		y = 0
	}

	w := fig.Width - 0.2
	if w <= 0 {
		w = fig.Width
	}
	fig.SharedLegend = &scene.SharedLegend{
		BBox:     scene.Rect{X: (fig.Width - w) / 2, Y: y, W: w, H: bandH},
		Entries:  entries,
		Position: "bottom",
	}
}

// =============================================================================
// Occlusion Relocation
// =============================================================================

// relocateOverlay moves each referenced overlay out of its panel's data
// envelope. The transform depends on the overlay kind: legends merge
// into the shared figure legend, annotations fold into the panel title,
// and reference-line labels shift to free space beside the line.
func relocateOverlay(fig *scene.Figure, issue audit.Issue) error {
	for _, id := range issue.Elements {
		pi, e := fig.FindElement(id)
		if e == nil {
			continue
		}
		p := &fig.Panels[pi]

		switch e.Kind {
		case scene.KindLegend:
			entries := e.Entries
			removeElement(p, id)
			if len(entries) > 0 {
				installSharedLegend(fig, entries)
			}
		case scene.KindAnnotation:
			foldIntoTitle(p, e.Text)
			removeElement(p, id)
		case scene.KindReferenceLine:
			spot, ok := freeSpot(p, e.BBox)
			if !ok {
				return errors.New(errors.ErrCodeNotAutoFixable,
					"no free space in panel %d for the reference line label", pi)
			}
			e.BBox = spot
		default:
			return errors.New(errors.ErrCodeNotAutoFixable,
				"element %s of kind %s cannot be relocated", id, e.Kind)
		}
	}
	return nil
}

// foldIntoTitle appends annotation text to the panel title.
func foldIntoTitle(p *scene.Panel, text string) {
	if text == "" {
		return
	}
	if p.Title == "" {
		p.Title = text
		return
	}
	p.Title = p.Title + " (" + text + ")"
}

// freeSpot finds a placement for box inside the panel that clears the
// data envelope entirely, trying above, below, right of, and left of
// the envelope in that order.
func freeSpot(p *scene.Panel, box scene.Rect) (scene.Rect, bool) {
	env := p.DataEnvelope()
	if !env.Valid() {
		return box, true
	}
	const gap = 0.05

	candidates := []scene.Rect{
		{X: box.X, Y: env.Top() + gap, W: box.W, H: box.H},
		{X: box.X, Y: env.Bottom() - gap - box.H, W: box.W, H: box.H},
		{X: env.Right() + gap, Y: box.Y, W: box.W, H: box.H},
		{X: env.Left() - gap - box.W, Y: box.Y, W: box.W, H: box.H},
	}
	for _, c := range candidates {
		if p.BBox.Contains(c) && !c.Intersects(env) {
			return c, true
		}
	}
	return box, false
}

// removeElement deletes the element with the given ID from the panel.
// Remaining element IDs are stored values and stay stable.
func removeElement(p *scene.Panel, id string) {
	for i := range p.Elements {
		if p.Elements[i].ID == id {
			p.Elements = append(p.Elements[:i], p.Elements[i+1:]...)
			return
		}
	}
}

// =============================================================================
// Font Harmonization
// =============================================================================

// harmonizeFonts sets every declared size of the issue's text role to
// the role's canonical size figure-wide. Fixing the whole role (not
// just the referenced deviants) guarantees the inconsistency cannot
// recur in any grouping.
func harmonizeFonts(fig *scene.Figure, issue audit.Issue) error {
	role := issueRole(fig, issue)
	canonical, ok := audit.CanonicalFontSize(fig, role)
	if !ok {
		return errors.New(errors.ErrCodeInvalidInput, "role %s declares no font sizes", role)
	}

	for pi := range fig.Panels {
		p := &fig.Panels[pi]
		if role == scene.RoleTitle && p.TitleFontSize > 0 {
			p.TitleFontSize = canonical
		}
		for ei := range p.Elements {
			e := &p.Elements[ei]
			if e.Role == role && e.Style.FontSize > 0 {
				e.Style.FontSize = canonical
			}
		}
	}
	return nil
}

// issueRole resolves the text role a font issue refers to. Issues
// without element references come from panel titles.
func issueRole(fig *scene.Figure, issue audit.Issue) scene.TextRole {
	for _, id := range issue.Elements {
		if _, e := fig.FindElement(id); e != nil && e.Role != "" {
			return e.Role
		}
	}
	return scene.RoleTitle
}

// =============================================================================
// Size Fixes
// =============================================================================

// resizeToColumn rescales the figure horizontally onto the nearest
// standard column width, scaling panel and element geometry with it.
func resizeToColumn(fig *scene.Figure, std standards.Standard) error {
	nearest := std.NearestWidth(fig.Width)
	if nearest <= 0 || fig.Width <= 0 {
		return errors.New(errors.ErrCodeInvalidStandard, "standard %q defines no column widths", std.Name)
	}
	scaleX(fig, nearest/fig.Width)
	fig.Width = nearest
	return nil
}

// clampHeight scales the whole figure uniformly so its height meets the
// journal's page limit. Uniform scaling preserves aspect ratio and all
// relative element positions.
func clampHeight(fig *scene.Figure, std standards.Standard) error {
	if std.MaxHeight <= 0 || fig.Height <= std.MaxHeight {
		return nil
	}
	s := std.MaxHeight / fig.Height
	scaleX(fig, s)
	scaleY(fig, s)
	fig.Width *= s
	fig.Height = std.MaxHeight
	return nil
}

func scaleX(fig *scene.Figure, s float64) {
	for pi := range fig.Panels {
		p := &fig.Panels[pi]
		p.BBox.X *= s
		p.BBox.W *= s
		for ei := range p.Elements {
			p.Elements[ei].BBox.X *= s
			p.Elements[ei].BBox.W *= s
		}
	}
	if fig.SharedLegend != nil {
		fig.SharedLegend.BBox.X *= s
		fig.SharedLegend.BBox.W *= s
	}
}

func scaleY(fig *scene.Figure, s float64) {
	for pi := range fig.Panels {
		p := &fig.Panels[pi]
		p.BBox.Y *= s
		p.BBox.H *= s
		for ei := range p.Elements {
			p.Elements[ei].BBox.Y *= s
			p.Elements[ei].BBox.H *= s
		}
	}
	if fig.SharedLegend != nil {
		fig.SharedLegend.BBox.Y *= s
		fig.SharedLegend.BBox.H *= s
	}
}

// =============================================================================
// Recoloring
// =============================================================================

// recolorPanels replaces the categorical colors of every referenced
// panel with the Wong safe palette. Palette slots follow the original
// first-use order of the distinct colors, so series keep their
// positional identity and are never reordered by similarity.
func recolorPanels(fig *scene.Figure, issue audit.Issue) error {
	for _, pi := range issue.Panels {
		p := fig.Panel(pi)
		if p == nil {
			return errors.New(errors.ErrCodeInvalidInput, "panel %d does not exist", pi)
		}
		recolorPanel(p)
	}
	return nil
}

func recolorPanel(p *scene.Panel) {
	slot := map[string]int{}
	next := 0
	for ei := range p.Elements {
		e := &p.Elements[ei]
		if e.Kind != scene.KindDataSeries && e.Kind != scene.KindBar {
			continue
		}
		old := e.Style.Color
		if old == "" {
			continue
		}
		if _, ok := slot[old]; !ok {
			slot[old] = next
			next++
		}
	}
	if next == 0 {
		return
	}

	safe := palette.Wong(next)
	for ei := range p.Elements {
		e := &p.Elements[ei]
		if e.Kind != scene.KindDataSeries && e.Kind != scene.KindBar {
			continue
		}
		if idx, ok := slot[e.Style.Color]; ok {
			e.Style.Color = safe[idx]
		}
	}

	// Keep legend swatches aligned with the recolored series.
	if leg := p.Legend(); leg != nil {
		for i := range leg.Entries {
			if idx, ok := slot[leg.Entries[i].Color]; ok {
				leg.Entries[i].Color = safe[idx]
			}
		}
	}
}
