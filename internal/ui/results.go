package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/five82/quill/internal/submit"
)

// renderResultsPane renders the bordered results viewport.
func (m Model) renderResultsPane() string {
	styles := m.theme.Styles()
	title := styles.PaneTitle(m.focus == focusResults).Render("Results")
	if m.busy() {
		title = styles.WarningText.Render(m.spinner.View() + " Generating...")
	}

	box := styles.Pane(m.focus == focusResults).
		Width(m.results.Width).
		Height(m.results.Height + 1)
	return box.Render(title + "\n" + m.results.View())
}

// refreshResults re-renders the sections into the viewport.
func (m *Model) refreshResults() {
	if m.results.Width <= 0 {
		return
	}
	m.results.SetContent(m.renderSections(maxInt(m.results.Width-2, 10)))
}

// renderSections renders the snapshot's sections in order. Error text is
// shown verbatim with control sequences stripped; content sections go
// through the terminal markdown renderer.
func (m Model) renderSections(width int) string {
	styles := m.theme.Styles()
	sections := m.snapshot.Sections
	if len(sections) == 0 {
		if m.busy() {
			return ""
		}
		return styles.FaintText.Render("Results appear here after you submit.")
	}

	var b strings.Builder
	for i, s := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.sectionTitle(s))
		b.WriteString("\n")
		b.WriteString(m.sectionBody(s, width))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) sectionTitle(s submit.Section) string {
	styles := m.theme.Styles()
	if s.IsError() {
		return styles.DangerText.Render(s.Title)
	}
	title := styles.AccentText.Bold(true).Render(s.Title)
	if s.Download != nil {
		title += "  " + styles.FaintText.Render("d  download "+s.Download.Filename)
	}
	return title
}

func (m Model) sectionBody(s submit.Section, width int) string {
	if s.IsError() {
		return lipgloss.NewStyle().Width(width).Render(ansi.Strip(s.Text))
	}
	if m.terminal != nil {
		if out, err := m.terminal.Render(s.Markdown, width); err == nil {
			return strings.TrimRight(out, "\n")
		}
	}
	return lipgloss.NewStyle().Width(width).Render(ansi.Strip(s.Markdown))
}
