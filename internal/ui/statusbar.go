package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// statusBar assembles the header and footer lines. Each segment is rendered
// on the bar color, including the spaces between words, so no gaps show
// through where lipgloss resets between styled runs.
type statusBar struct {
	bg    lipgloss.Color
	gap   string
	parts []string
}

func newStatusBar(color string) *statusBar {
	bg := lipgloss.Color(color)
	return &statusBar{
		bg:  bg,
		gap: lipgloss.NewStyle().Background(bg).Render("  "),
	}
}

// paint renders text in style on the bar color, word by word.
func (b *statusBar) paint(text string, style lipgloss.Style) string {
	style = style.Background(b.bg)
	space := lipgloss.NewStyle().Background(b.bg).Render(" ")
	words := strings.Split(text, " ")
	for i, w := range words {
		if w != "" {
			words[i] = style.Render(w)
		}
	}
	return strings.Join(words, space)
}

// add appends a segment.
func (b *statusBar) add(text string, style lipgloss.Style) *statusBar {
	if text != "" {
		b.parts = append(b.parts, b.paint(text, style))
	}
	return b
}

// field appends a "label value" segment.
func (b *statusBar) field(label, value string, labelStyle, valueStyle lipgloss.Style) *statusBar {
	b.parts = append(b.parts, b.paint(label, labelStyle)+b.paint(" ", labelStyle)+b.paint(value, valueStyle))
	return b
}

// render lays the segments out across width columns.
func (b *statusBar) render(width int, base lipgloss.Style) string {
	return base.Background(b.bg).Width(width).Render(strings.Join(b.parts, b.gap))
}
