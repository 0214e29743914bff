package scene

import (
	"github.com/sciviz/figlint/pkg/errors"
)

// =============================================================================
// Source - Extraction Adapter Interface
// =============================================================================

// Source is the extraction adapter contract. It is the only coupling
// point between the audit engine and whatever produced the figure:
// a plotting-library bridge, a scene dump file, or a test fixture.
//
// Implementations must be side-effect-free: Build never mutates the
// underlying figure object, and calling the accessors repeatedly must
// yield the same data.
type Source interface {
	// Size returns the overall figure size in inches.
	Size() (width, height float64)

	// ExportSettings returns the export DPI and target formats.
	ExportSettings() ExportSettings

	// Panels returns the ordered panel sources.
	Panels() []PanelSource
}

// ExportSettings carries figure-level output configuration.
type ExportSettings struct {
	DPI       int
	Formats   []string
	ColorMode ColorMode
}

// PanelSource exposes one panel of the external figure.
type PanelSource interface {
	// BBox returns the panel bbox in figure coordinates.
	BBox() Rect

	// Title returns the panel title and its font size in points.
	// An empty title means the panel is untitled.
	Title() (string, float64)

	// XLim and YLim return the current axis limits in data units.
	// The zero Range means "no declared limits".
	XLim() Range
	YLim() Range

	// Elements returns the ordered element sources.
	Elements() []ElementSource
}

// ElementSource exposes one element of a panel. BBox coordinates are
// panel-local: (0, 0) is the panel's lower-left corner.
type ElementSource interface {
	Kind() ElementKind
	BBox() Rect
	Style() Style

	// Role returns the semantic text role, or "" to derive it from the kind.
	Role() TextRole

	// Text returns the element's text content, if any.
	Text() string

	// LegendEntries returns the (color, label) pairs of a legend
	// element; nil for other kinds.
	LegendEntries() []LegendEntry

	// RefLine returns reference-line geometry; nil for other kinds.
	RefLine() *RefLine
}

// =============================================================================
// Build
// =============================================================================

// Build adapts an external figure into a normalized Figure.
//
// Element bboxes are translated from panel-local into figure
// coordinates, element IDs are assigned, and missing text roles are
// derived from the element kind. Build fails with an INVALID_SCENE
// error if any panel or element bbox has non-positive area or an
// element lies outside its panel; the engine cannot reason about
// invalid geometry.
func Build(src Source) (*Figure, error) {
	if src == nil {
		return nil, errors.New(errors.ErrCodeInvalidScene, "source is nil")
	}

	w, h := src.Size()
	exp := src.ExportSettings()

	fig := &Figure{
		Width:     w,
		Height:    h,
		DPI:       exp.DPI,
		Formats:   exp.Formats,
		ColorMode: exp.ColorMode,
	}

	for pi, ps := range src.Panels() {
		title, titleSize := ps.Title()
		panel := Panel{
			BBox:          ps.BBox(),
			Title:         title,
			TitleFontSize: titleSize,
			XLim:          ps.XLim(),
			YLim:          ps.YLim(),
		}

		for ei, es := range ps.Elements() {
			elem := Element{
				ID:      elementID(pi, ei),
				Kind:    es.Kind(),
				Role:    es.Role(),
				BBox:    es.BBox().Translate(panel.BBox.X, panel.BBox.Y),
				Style:   es.Style(),
				Text:    es.Text(),
				Entries: es.LegendEntries(),
				Line:    es.RefLine(),
			}
			if elem.Role == "" {
				elem.Role = defaultRole(elem.Kind)
			}
			panel.Elements = append(panel.Elements, elem)
		}

		fig.Panels = append(fig.Panels, panel)
	}

	if err := Validate(fig); err != nil {
		return nil, err
	}
	return fig, nil
}

// defaultRole derives the text role from the element kind for elements
// whose adapter did not declare one. Non-text kinds get no role.
func defaultRole(kind ElementKind) TextRole {
	switch kind {
	case KindLegend:
		return RoleLegendText
	case KindAnnotation:
		return RoleAnnotation
	default:
		return ""
	}
}
