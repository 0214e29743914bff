package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sciviz/figlint/pkg/audit"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// IssueListModel - Interactive report browsing
// =============================================================================

// IssueListModel is the bubbletea model for browsing an audit report.
type IssueListModel struct {
	Report audit.Report
	Cursor int
	Height int
	Offset int
}

// NewIssueListModel creates a new issue list model.
func NewIssueListModel(report audit.Report) IssueListModel {
	return IssueListModel{
		Report: report,
		Cursor: 0,
		Height: 15,
		Offset: 0,
	}
}

func (m IssueListModel) Init() tea.Cmd {
	return nil
}

func (m IssueListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc", "enter":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Report.Issues)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 10
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m IssueListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Audit Report"))
	b.WriteString(" ")
	b.WriteString(listDimStyle.Render(m.Report.Journal))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Report.Issues) {
		end = len(m.Report.Issues)
	}

	for i := m.Offset; i < end; i++ {
		issue := m.Report.Issues[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		fixable := " "
		if issue.AutoFixable {
			fixable = StyleSuccess.Render("*")
		}

		line := fmt.Sprintf("%s%s %s %s", cursor, severityBadge(issue.Severity), fixable, issue.Message)
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	if len(m.Report.Issues) > 0 {
		b.WriteString("\n")
		b.WriteString(m.detailView(m.Report.Issues[m.Cursor]))
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  %s auto-fixable", m.Cursor+1, len(m.Report.Issues), StyleSuccess.Render("*"))))
	}

	return b.String()
}

// detailView renders the detail pane for the selected issue.
func (m IssueListModel) detailView(issue audit.Issue) string {
	var b strings.Builder

	b.WriteString(listDimStyle.Render(strings.Repeat("-", 40)))
	b.WriteString("\n")
	b.WriteString("  " + listDimStyle.Render("kind") + "  " + StyleValue.Render(string(issue.Kind)) + "\n")

	if len(issue.Panels) > 0 {
		labels := make([]string, len(issue.Panels))
		for i, p := range issue.Panels {
			labels[i] = "p" + strconv.Itoa(p)
		}
		b.WriteString("  " + listDimStyle.Render("panels") + "  " + StyleValue.Render(strings.Join(labels, ", ")) + "\n")
	}
	if len(issue.Elements) > 0 {
		b.WriteString("  " + listDimStyle.Render("elements") + "  " + StyleValue.Render(strings.Join(issue.Elements, ", ")) + "\n")
	}
	if issue.Suggestion != "" {
		b.WriteString("  " + StyleDim.Render(issue.Suggestion) + "\n")
	}

	return b.String()
}

// browseReport opens the interactive report browser. It returns once the
// user quits the viewer.
func browseReport(report audit.Report) error {
	if len(report.Issues) == 0 {
		printSuccess("No issues found")
		return nil
	}
	_, err := tea.NewProgram(NewIssueListModel(report)).Run()
	return err
}
