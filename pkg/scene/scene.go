// Package scene defines the normalized scene model for figure audits.
//
// A scene is an immutable snapshot of a figure's composition: ordered
// panels, their elements with bounding boxes and style attributes, and
// figure-level export settings. It is built once from an extraction
// adapter (see [Source] and [Build]) and then read by every checker.
//
// The model deliberately knows nothing about any plotting library.
// Adapters translate live figure objects into the fixed capability set
// exposed here; the audit engine never reaches past this boundary.
//
// # Coordinates
//
// Adapters report element bounding boxes in panel-local coordinates.
// Build normalizes them into figure coordinates and verifies that every
// element lies within its owning panel. Panel indices and element IDs
// (of the form "p<panel>/e<element>") are stable for the lifetime of
// one Figure instance, so issue references stay resolvable.
package scene

import (
	"fmt"

	"github.com/sciviz/figlint/pkg/errors"
)

// =============================================================================
// Constants
// =============================================================================

// ElementKind discriminates panel element types.
type ElementKind string

// Element kinds.
const (
	KindDataSeries    ElementKind = "data_series"
	KindBar           ElementKind = "bar"
	KindLegend        ElementKind = "legend"
	KindAnnotation    ElementKind = "annotation"
	KindReferenceLine ElementKind = "reference_line"
)

// TextRole classifies text-bearing elements for font consistency checks.
type TextRole string

// Text roles.
const (
	RoleAxisLabel  TextRole = "axis_label"
	RoleTickLabel  TextRole = "tick_label"
	RoleTitle      TextRole = "title"
	RoleLegendText TextRole = "legend_text"
	RoleAnnotation TextRole = "annotation"
	RolePanelLabel TextRole = "panel_label"
)

// ColorMode identifies the figure's color space.
type ColorMode string

// Color modes.
const (
	ColorModeRGB       ColorMode = "rgb"
	ColorModeCMYK      ColorMode = "cmyk"
	ColorModeGrayscale ColorMode = "grayscale"
)

// LineOrientation identifies the axis a reference line crosses.
type LineOrientation string

// Reference line orientations.
const (
	Horizontal LineOrientation = "horizontal"
	Vertical   LineOrientation = "vertical"
)

// =============================================================================
// Figure - Scene Root
// =============================================================================

// Figure is the normalized, read-only representation of one figure.
// Audits treat it as an immutable snapshot; fixes produce new Figures
// via [Clone] rather than mutating in place, so repeated audits are
// always comparable.
type Figure struct {
	Width     float64   `json:"width" bson:"width"`   // inches
	Height    float64   `json:"height" bson:"height"` // inches
	DPI       int       `json:"dpi" bson:"dpi"`
	ColorMode ColorMode `json:"color_mode,omitempty" bson:"color_mode,omitempty"`
	Formats   []string  `json:"formats,omitempty" bson:"formats,omitempty"`

	Panels []Panel `json:"panels" bson:"panels"`

	// SharedLegend is a figure-level legend outside all panel bboxes.
	// It is installed by unified-legend fixes and is nil otherwise.
	SharedLegend *SharedLegend `json:"shared_legend,omitempty" bson:"shared_legend,omitempty"`
}

// BBox returns the figure's overall bounding box.
func (f *Figure) BBox() Rect {
	return Rect{X: 0, Y: 0, W: f.Width, H: f.Height}
}

// Panel returns the panel at index i, or nil if out of range.
func (f *Figure) Panel(i int) *Panel {
	if i < 0 || i >= len(f.Panels) {
		return nil
	}
	return &f.Panels[i]
}

// FindElement resolves an element ID of the form "p<i>/e<j>".
// Returns the owning panel index and the element, or -1 and nil.
func (f *Figure) FindElement(id string) (int, *Element) {
	for pi := range f.Panels {
		for ei := range f.Panels[pi].Elements {
			if f.Panels[pi].Elements[ei].ID == id {
				return pi, &f.Panels[pi].Elements[ei]
			}
		}
	}
	return -1, nil
}

// =============================================================================
// Panel
// =============================================================================

// Panel is one subplot within a figure. Its index in Figure.Panels is
// stable and used for issue references.
type Panel struct {
	BBox          Rect    `json:"bbox" bson:"bbox"`
	Title         string  `json:"title,omitempty" bson:"title,omitempty"`
	TitleFontSize float64 `json:"title_font_size,omitempty" bson:"title_font_size,omitempty"`

	// Axis limits in data units. Reference lines whose value falls
	// outside these limits are invisible and excluded from analysis.
	XLim Range `json:"xlim,omitzero" bson:"xlim,omitempty"`
	YLim Range `json:"ylim,omitzero" bson:"ylim,omitempty"`

	Elements []Element `json:"elements" bson:"elements"`
}

// ElementsByKind returns the panel's elements of the given kind, in order.
func (p *Panel) ElementsByKind(kind ElementKind) []*Element {
	var out []*Element
	for i := range p.Elements {
		if p.Elements[i].Kind == kind {
			out = append(out, &p.Elements[i])
		}
	}
	return out
}

// Legend returns the panel's first legend element, or nil.
func (p *Panel) Legend() *Element {
	for i := range p.Elements {
		if p.Elements[i].Kind == KindLegend {
			return &p.Elements[i]
		}
	}
	return nil
}

// DataEnvelope returns the smallest bbox covering all data-bearing
// elements (series and bars) in the panel. The zero Rect is returned
// for panels without data elements.
func (p *Panel) DataEnvelope() Rect {
	var env Rect
	for i := range p.Elements {
		e := &p.Elements[i]
		if e.Kind == KindDataSeries || e.Kind == KindBar {
			env = env.Union(e.BBox)
		}
	}
	return env
}

// =============================================================================
// Element
// =============================================================================

// Element is a single drawable item within a panel. The bbox is stored
// in figure coordinates after normalization by [Build].
type Element struct {
	ID   string      `json:"id" bson:"id"`
	Kind ElementKind `json:"kind" bson:"kind"`
	Role TextRole    `json:"role,omitempty" bson:"role,omitempty"`
	BBox Rect        `json:"bbox" bson:"bbox"`

	Style Style  `json:"style,omitzero" bson:"style,omitempty"`
	Text  string `json:"text,omitempty" bson:"text,omitempty"`

	// Entries holds the (color, label) pairs of a legend element.
	Entries []LegendEntry `json:"entries,omitempty" bson:"entries,omitempty"`

	// Line carries reference-line geometry. For reference lines the
	// element bbox describes the line's text label, not the line itself.
	Line *RefLine `json:"line,omitempty" bson:"line,omitempty"`
}

// HasText reports whether the element carries visible text.
func (e *Element) HasText() bool {
	return e.Text != "" || e.Kind == KindLegend
}

// =============================================================================
// Style
// =============================================================================

// Style holds optional visual attributes. Zero values mean "unspecified"
// and are excluded from consistency sets rather than treated as errors.
type Style struct {
	FontSize  float64 `json:"font_size,omitempty" bson:"font_size,omitempty"` // pt
	Color     string  `json:"color,omitempty" bson:"color,omitempty"`         // hex, e.g. "#1f77b4"
	LineWidth float64 `json:"line_width,omitempty" bson:"line_width,omitempty"`
}

// LegendEntry is one (color, label) pair in a legend.
type LegendEntry struct {
	Color string `json:"color" bson:"color"`
	Label string `json:"label" bson:"label"`
}

// RefLine describes a reference line crossing the panel at a fixed
// data value.
type RefLine struct {
	Orientation LineOrientation `json:"orientation" bson:"orientation"`
	Value       float64         `json:"value" bson:"value"`
}

// InAxisRange reports whether the line's value lies within the panel's
// current axis limits, i.e. whether the line is actually visible.
func (l *RefLine) InAxisRange(p *Panel) bool {
	if l.Orientation == Vertical {
		return p.XLim.Contains(l.Value)
	}
	return p.YLim.Contains(l.Value)
}

// =============================================================================
// SharedLegend
// =============================================================================

// SharedLegend is a single figure-level legend consolidating entries
// from multiple panels. Its bbox lies in figure coordinates outside
// every panel.
type SharedLegend struct {
	BBox     Rect          `json:"bbox" bson:"bbox"`
	Entries  []LegendEntry `json:"entries" bson:"entries"`
	Position string        `json:"position,omitempty" bson:"position,omitempty"` // "bottom" or "right"
}

// =============================================================================
// Validation
// =============================================================================

// Validate checks the scene invariants on an already-built figure:
// positive figure and panel areas, positive element areas, and element
// containment within the owning panel. It returns an INVALID_SCENE
// error describing the first violation found.
func Validate(f *Figure) error {
	if f == nil {
		return errors.New(errors.ErrCodeInvalidScene, "figure is nil")
	}
	if f.Width <= 0 || f.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidScene, "figure has non-positive size %gx%g", f.Width, f.Height)
	}

	for pi := range f.Panels {
		p := &f.Panels[pi]
		if !p.BBox.Valid() {
			return errors.New(errors.ErrCodeInvalidScene, "panel %d has non-positive area", pi)
		}
		for ei := range p.Elements {
			e := &p.Elements[ei]
			if !e.BBox.Valid() {
				return errors.New(errors.ErrCodeInvalidScene, "element %s has non-positive area", elementID(pi, ei))
			}
			if !p.BBox.Contains(e.BBox) {
				return errors.New(errors.ErrCodeInvalidScene, "element %s lies outside panel %d", elementID(pi, ei), pi)
			}
		}
	}
	return nil
}

// elementID formats the stable element identifier for panel index pi
// and element index ei.
func elementID(pi, ei int) string {
	return fmt.Sprintf("p%d/e%d", pi, ei)
}

// ElementID returns the stable identifier assigned to the element at
// panel index pi, element index ei.
func ElementID(pi, ei int) string {
	return elementID(pi, ei)
}
