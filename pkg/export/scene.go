package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/sciviz/figlint/pkg/errors"
	"github.com/sciviz/figlint/pkg/scene"
)

// =============================================================================
// Scene Dump Format
// =============================================================================

// sceneDoc is the on-disk layout of a scene dump.
type sceneDoc struct {
	Figure       figureDoc           `json:"figure"`
	Panels       []panelDoc          `json:"panels"`
	SharedLegend *scene.SharedLegend `json:"shared_legend,omitempty"`
}

type figureDoc struct {
	Width     float64         `json:"width"`
	Height    float64         `json:"height"`
	DPI       int             `json:"dpi,omitempty"`
	ColorMode scene.ColorMode `json:"color_mode,omitempty"`
	Formats   []string        `json:"formats,omitempty"`
}

type panelDoc struct {
	BBox          scene.Rect   `json:"bbox"`
	Title         string       `json:"title,omitempty"`
	TitleFontSize float64      `json:"title_font_size,omitempty"`
	XLim          scene.Range  `json:"xlim,omitzero"`
	YLim          scene.Range  `json:"ylim,omitzero"`
	Elements      []elementDoc `json:"elements"`
}

type elementDoc struct {
	Kind    scene.ElementKind   `json:"kind"`
	BBox    scene.Rect          `json:"bbox"` // panel-local
	Style   scene.Style         `json:"style,omitzero"`
	Role    scene.TextRole      `json:"role,omitempty"`
	Text    string              `json:"text,omitempty"`
	Entries []scene.LegendEntry `json:"entries,omitempty"`
	Line    *scene.RefLine      `json:"line,omitempty"`
}

var validKinds = map[scene.ElementKind]bool{
	scene.KindDataSeries:    true,
	scene.KindBar:           true,
	scene.KindLegend:        true,
	scene.KindAnnotation:    true,
	scene.KindReferenceLine: true,
}

// =============================================================================
// Source Adapter
// =============================================================================

// docSource adapts a decoded sceneDoc to the extraction interface, so
// file imports pass through the same normalization and validation as
// live bridges.
type docSource struct{ doc *sceneDoc }

func (s docSource) Size() (float64, float64) {
	return s.doc.Figure.Width, s.doc.Figure.Height
}

func (s docSource) ExportSettings() scene.ExportSettings {
	return scene.ExportSettings{
		DPI:       s.doc.Figure.DPI,
		Formats:   s.doc.Figure.Formats,
		ColorMode: s.doc.Figure.ColorMode,
	}
}

func (s docSource) Panels() []scene.PanelSource {
	out := make([]scene.PanelSource, len(s.doc.Panels))
	for i := range s.doc.Panels {
		out[i] = docPanel{p: &s.doc.Panels[i]}
	}
	return out
}

type docPanel struct{ p *panelDoc }

func (d docPanel) BBox() scene.Rect          { return d.p.BBox }
func (d docPanel) Title() (string, float64)  { return d.p.Title, d.p.TitleFontSize }
func (d docPanel) XLim() scene.Range         { return d.p.XLim }
func (d docPanel) YLim() scene.Range         { return d.p.YLim }

func (d docPanel) Elements() []scene.ElementSource {
	out := make([]scene.ElementSource, len(d.p.Elements))
	for i := range d.p.Elements {
		out[i] = docElement{e: &d.p.Elements[i]}
	}
	return out
}

type docElement struct{ e *elementDoc }

func (d docElement) Kind() scene.ElementKind              { return d.e.Kind }
func (d docElement) BBox() scene.Rect                     { return d.e.BBox }
func (d docElement) Style() scene.Style                   { return d.e.Style }
func (d docElement) Role() scene.TextRole                 { return d.e.Role }
func (d docElement) Text() string                         { return d.e.Text }
func (d docElement) LegendEntries() []scene.LegendEntry   { return d.e.Entries }
func (d docElement) RefLine() *scene.RefLine              { return d.e.Line }

// =============================================================================
// Import
// =============================================================================

// ReadScene decodes a scene dump from r into a normalized figure.
//
// ReadScene returns an error if the JSON is malformed, an element
// declares an unknown kind, or the geometry violates the scene
// invariants (non-positive areas, elements outside their panel).
// The returned figure is independent of r; ReadScene does not close r.
func ReadScene(r io.Reader) (*scene.Figure, error) {
	var doc sceneDoc
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "decode scene")
	}

	for pi := range doc.Panels {
		for ei, e := range doc.Panels[pi].Elements {
			if !validKinds[e.Kind] {
				return nil, errors.New(errors.ErrCodeInvalidScene,
					"panel %d element %d: unknown kind %q", pi, ei, e.Kind)
			}
		}
	}

	fig, err := scene.Build(docSource{doc: &doc})
	if err != nil {
		return nil, err
	}
	fig.SharedLegend = doc.SharedLegend
	return fig, nil
}

// ImportScene reads a scene dump file at path and returns the decoded
// figure. The error wraps the underlying cause with the file path for
// context.
func ImportScene(path string) (*scene.Figure, error) {
	if err := errors.ValidateScenePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return ReadScene(f)
}

// =============================================================================
// Export
// =============================================================================

// WriteScene encodes a figure as a scene dump and writes it to w.
// Element bboxes are converted back to panel-local coordinates, so the
// output can be re-imported with [ReadScene] for round-trip processing.
func WriteScene(fig *scene.Figure, w io.Writer) error {
	if fig == nil {
		return errors.New(errors.ErrCodeInvalidInput, "figure is nil")
	}

	doc := sceneDoc{
		Figure: figureDoc{
			Width:     fig.Width,
			Height:    fig.Height,
			DPI:       fig.DPI,
			ColorMode: fig.ColorMode,
			Formats:   fig.Formats,
		},
		SharedLegend: fig.SharedLegend,
	}

	for pi := range fig.Panels {
		p := &fig.Panels[pi]
		pd := panelDoc{
			BBox:          p.BBox,
			Title:         p.Title,
			TitleFontSize: p.TitleFontSize,
			XLim:          p.XLim,
			YLim:          p.YLim,
			Elements:      make([]elementDoc, len(p.Elements)),
		}
		for ei := range p.Elements {
			e := &p.Elements[ei]
			pd.Elements[ei] = elementDoc{
				Kind:    e.Kind,
				BBox:    e.BBox.Translate(-p.BBox.X, -p.BBox.Y),
				Style:   e.Style,
				Role:    e.Role,
				Text:    e.Text,
				Entries: e.Entries,
				Line:    e.Line,
			}
		}
		doc.Panels = append(doc.Panels, pd)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode scene")
	}
	return nil
}

// ExportScene writes a figure to a scene dump file at path.
func ExportScene(fig *scene.Figure, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "create %s", path)
	}
	defer f.Close()
	return WriteScene(fig, f)
}
