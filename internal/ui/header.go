package ui

import (
	"strconv"
)

// renderHeader renders the status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	bar := newStatusBar(m.theme.Surface).add("quill", styles.Logo)

	if m.config != nil && m.config.Endpoint != "" {
		bar.field("→", truncate(m.config.Endpoint, 40), styles.FaintText, styles.MutedText)
	}
	bar.field("Files:", strconv.Itoa(m.list.Len()), styles.MutedText, styles.Text)

	switch {
	case m.busy():
		bar.add("● SUBMITTING", styles.WarningText.Bold(true))
	case m.snapshot.FailedInARow > 0:
		bar.add("● FAILED", styles.DangerText)
	case m.snapshot.Submissions > 0:
		bar.add("● DONE", styles.SuccessText)
	default:
		bar.add("● READY", styles.InfoText)
	}

	if m.snapshot.Submissions > 0 && !m.busy() {
		bar.field("Runs:", strconv.Itoa(m.snapshot.Submissions), styles.MutedText, styles.Text)
	}
	return bar.render(m.width, styles.Text)
}

// renderFooter renders key hints, or the flash notice when there is one.
func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	bar := newStatusBar(m.theme.Surface)

	if m.flash != "" {
		bar.add(truncate(m.flash, maxInt(m.width-2, 10)), styles.InfoText)
	} else {
		for _, b := range m.keys.ShortHelp() {
			h := b.Help()
			bar.field(h.Key, h.Desc, styles.WarningText, styles.MutedText)
		}
	}
	return bar.render(m.width, styles.Footer)
}
