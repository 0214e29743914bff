// Package render produces visual diagrams of audited figures.
//
// # Overview
//
// This package turns a figure and its audit report into a Graphviz
// diagram: the figure is the root node, panels hang off it, and
// elements hang off their panels. Nodes touched by issues are filled
// with the color of the most severe issue referencing them, which
// makes it easy to see at a glance where a figure fails review.
//
// # Usage
//
// Convert a figure to DOT format, then render to SVG or PNG:
//
//	dot := render.ToDOT(fig, report)
//	svg, err := render.RenderSVG(dot)
//	png, err := render.RenderPNG(dot)
//
// # DOT Format
//
// The [ToDOT] function produces Graphviz DOT source that can be:
//
//   - Rendered directly via [RenderSVG] or [RenderPNG]
//   - Saved and processed with external Graphviz tools
//   - Customized before rendering
//
// The generated DOT uses top-to-bottom layout (rankdir=TB) with rounded
// box nodes. Panel labels carry the panel size in inches; element
// labels carry the element kind and its stable ID.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// and PNG rendering.
package render
