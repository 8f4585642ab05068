package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/five82/quill/internal/selection"
)

const (
	imageGlyph = "🖼"
	videoGlyph = "🎞"
)

// renderFiles renders one preview card per staged file.
func (m Model) renderFiles(width int) string {
	styles := m.theme.Styles()
	if len(m.nodes) == 0 {
		return styles.FaintText.Render("No files yet. ctrl+o to browse, or paste into the drop zone.")
	}

	var b strings.Builder
	for i, node := range m.nodes {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.renderCard(node, i == m.fileRow && m.focus == focusFiles, width))
	}
	return b.String()
}

// renderCard renders a single preview node: kind badge, glyph and name on the
// first line, details and the remove control on the second.
func (m Model) renderCard(node selection.PreviewNode, selected bool, width int) string {
	styles := m.theme.Styles()

	badge := styles.KindStyle(node.Kind.String()).Render(node.Kind.String())
	title := fmt.Sprintf("%s %s", cardGlyph(node), node.Name)
	if selected {
		title = styles.Selected.Render(title)
	} else {
		title = styles.Text.Render(title)
	}

	details := []string{node.MIMEType, humanize.IBytes(uint64(max(node.Size, 0)))}
	if h := node.Handle; h != nil && h.Width > 0 && h.Height > 0 {
		details = append(details, fmt.Sprintf("%dx%d", h.Width, h.Height))
	}
	if node.Muted {
		details = append(details, "muted")
	}
	if node.Controls {
		details = append(details, "controls")
	}
	detailLine := truncate(strings.Join(details, " · "), maxInt(width-8, 10))

	remove := styles.FaintText.Render("[x]")
	if selected {
		remove = styles.DangerText.Render("[x] remove")
	}

	return badge + " " + title + "\n" +
		"  " + styles.MutedText.Render(detailLine) + "  " + remove
}

func cardGlyph(node selection.PreviewNode) string {
	switch node.Kind {
	case selection.KindImage:
		return imageGlyph
	case selection.KindVideo:
		return videoGlyph
	default:
		return node.Glyph
	}
}

func (m Model) handleFilesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.fileRow > 0 {
			m.fileRow--
		}
	case key.Matches(msg, m.keys.Down):
		if m.fileRow < len(m.nodes)-1 {
			m.fileRow++
		}
	case key.Matches(msg, m.keys.Top):
		m.fileRow = 0
	case key.Matches(msg, m.keys.Bottom):
		m.fileRow = maxInt(len(m.nodes)-1, 0)
	case key.Matches(msg, m.keys.Remove):
		if m.fileRow < len(m.nodes) {
			node := m.nodes[m.fileRow]
			if m.list.Remove(node.EntryID) {
				m.rerenderFiles()
				m.flash = "Removed " + node.FullName
			}
		}
	}
	return m, nil
}

// rerenderFiles rebuilds every preview node from the list and keeps the
// cursor in range.
func (m *Model) rerenderFiles() {
	m.nodes = m.preview.Render(m.list)
	if m.fileRow >= len(m.nodes) {
		m.fileRow = maxInt(len(m.nodes)-1, 0)
	}
	m.layout()
}

// renderPicker renders the file picker overlay.
func (m Model) renderPicker() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render("Choose files"))
	b.WriteString("  ")
	b.WriteString(styles.MutedText.Render(truncateMiddle(m.picker.CurrentDirectory, maxInt(m.width-20, 10))))
	b.WriteString("\n\n")
	b.WriteString(m.picker.View())
	b.WriteString("\n")
	hint := fmt.Sprintf("enter add · esc done · %d selected", m.list.Len())
	if m.flash != "" {
		hint += " · " + m.flash
	}
	b.WriteString(styles.FaintText.Render(hint))
	return b.String()
}
