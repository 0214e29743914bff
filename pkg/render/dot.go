package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/sciviz/figlint/pkg/audit"
	"github.com/sciviz/figlint/pkg/scene"
)

// Severity fill colors for issue-bearing nodes.
const (
	fillError   = "#f4b6b6"
	fillWarning = "#f7dca0"
	fillInfo    = "#bcd7f0"
	fillClean   = "white"
)

// ToDOT converts a figure and its audit report to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG] or [RenderPNG].
//
// Nodes referenced by issues are filled with the color of the most
// severe issue touching them; clean nodes stay white.
func ToDOT(fig *scene.Figure, report audit.Report) string {
	sev := severityIndex(report)

	var buf bytes.Buffer
	buf.WriteString("digraph figure {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	figLabel := fmt.Sprintf("figure\n%.2f x %.2f in", fig.Width, fig.Height)
	if fig.DPI > 0 {
		figLabel += fmt.Sprintf("\n%d dpi", fig.DPI)
	}
	fmt.Fprintf(&buf, "  %q [%s];\n", "figure", strings.Join(nodeAttrs(figLabel, sev.figure), ", "))

	for pi := range fig.Panels {
		p := &fig.Panels[pi]
		pid := fmt.Sprintf("p%d", pi)
		label := panelLabel(pi, p)
		fmt.Fprintf(&buf, "  %q [%s];\n", pid, strings.Join(nodeAttrs(label, sev.panels[pi]), ", "))

		for ei := range p.Elements {
			e := &p.Elements[ei]
			label := string(e.Kind) + "\n" + e.ID
			fmt.Fprintf(&buf, "  %q [%s];\n", e.ID, strings.Join(nodeAttrs(label, sev.elements[e.ID]), ", "))
		}
	}

	buf.WriteString("\n")
	for pi := range fig.Panels {
		pid := fmt.Sprintf("p%d", pi)
		fmt.Fprintf(&buf, "  %q -> %q;\n", "figure", pid)
		for ei := range fig.Panels[pi].Elements {
			fmt.Fprintf(&buf, "  %q -> %q;\n", pid, fig.Panels[pi].Elements[ei].ID)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func panelLabel(pi int, p *scene.Panel) string {
	label := fmt.Sprintf("panel %d", pi)
	if p.Title != "" {
		label += "\n" + p.Title
	}
	label += fmt.Sprintf("\n%.2f x %.2f in", p.BBox.W, p.BBox.H)
	return label
}

func nodeAttrs(label string, sev audit.Severity) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if fill := fillFor(sev); fill != fillClean {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", fill))
	}
	return attrs
}

func fillFor(sev audit.Severity) string {
	switch sev {
	case audit.SeverityError:
		return fillError
	case audit.SeverityWarning:
		return fillWarning
	case audit.SeverityInfo:
		return fillInfo
	default:
		return fillClean
	}
}

// severities tracks the worst issue severity per diagram node.
type severities struct {
	figure   audit.Severity
	panels   map[int]audit.Severity
	elements map[string]audit.Severity
}

func severityIndex(report audit.Report) severities {
	sev := severities{
		panels:   make(map[int]audit.Severity),
		elements: make(map[string]audit.Severity),
	}
	for _, issue := range report.Issues {
		if len(issue.Panels) == 0 && len(issue.Elements) == 0 {
			sev.figure = maxSeverity(sev.figure, issue.Severity)
		}
		for _, pi := range issue.Panels {
			sev.panels[pi] = maxSeverity(sev.panels[pi], issue.Severity)
		}
		for _, id := range issue.Elements {
			sev.elements[id] = maxSeverity(sev.elements[id], issue.Severity)
		}
	}
	return sev
}

func maxSeverity(a, b audit.Severity) audit.Severity {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}
