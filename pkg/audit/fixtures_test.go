package audit

import (
	"github.com/sciviz/figlint/pkg/scene"
	"github.com/sciviz/figlint/pkg/standards"
)

// testStandard is a journal standard with round numbers so threshold
// arithmetic stays readable in test cases.
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

func entries(pairs ...[2]string) []scene.LegendEntry {
	out := make([]scene.LegendEntry, len(pairs))
	for i, p := range pairs {
		out[i] = scene.LegendEntry{Color: p[0], Label: p[1]}
	}
	return out
}

func legendElem(id string, bbox scene.Rect, e []scene.LegendEntry) scene.Element {
	return scene.Element{ID: id, Kind: scene.KindLegend, BBox: bbox, Entries: e}
}

func seriesElem(id, color string, bbox scene.Rect) scene.Element {
	return scene.Element{
		ID: id, Kind: scene.KindDataSeries, BBox: bbox,
		Style: scene.Style{Color: color},
	}
}

func textElem(id string, role scene.TextRole, size float64, bbox scene.Rect) scene.Element {
	return scene.Element{
		ID: id, Kind: scene.KindAnnotation, Role: role, Text: "t",
		BBox: bbox, Style: scene.Style{FontSize: size},
	}
}

// figureWithPanels lays out n side-by-side 3.0x3.0 panels inside a
// figure sized to hold them.
func figureWithPanels(n int) *scene.Figure {
	fig := &scene.Figure{
		Width:  float64(n) * 3.5,
		Height: 4.0,
		DPI:    300,
	}
	for i := 0; i < n; i++ {
		fig.Panels = append(fig.Panels, scene.Panel{
			BBox: scene.Rect{X: float64(i) * 3.5, Y: 0.5, W: 3.0, H: 3.0},
		})
	}
	return fig
}

func issuesOfKind(issues []Issue, kind Kind) []Issue {
	var out []Issue
	for _, i := range issues {
		if i.Kind == kind {
			out = append(out, i)
		}
	}
	return out
}
