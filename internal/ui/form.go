package ui

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/quill/internal/submit"
)

// renderForm renders the left column: files, drop zone, API key, options and
// the submit control.
func (m Model) renderForm(width int) string {
	inner := maxInt(width-4, 10)
	blocks := []string{
		m.pane("Files", m.focus == focusFiles, width, m.renderFiles(inner)),
		m.pane("Drop zone", m.focus == focusDrop || m.drop.Active(), width, m.renderDropZone(inner)),
		m.pane("API key", m.focus == focusKey, width, m.keyInput.View()),
		m.pane("Generate", m.focus == focusOptions, width, m.renderOptions()),
		m.renderSubmit(width),
	}
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

// pane draws a titled box, highlighted when active.
func (m Model) pane(title string, active bool, width int, body string) string {
	styles := m.theme.Styles()
	box := styles.Pane(active).Padding(0, 1).Width(maxInt(width-2, 1))
	return box.Render(styles.PaneTitle(active).Render(title) + "\n" + body)
}

func (m Model) renderDropZone(width int) string {
	styles := m.theme.Styles()
	hint := "Paste paths or drag files from a file manager"
	if m.drop.Active() {
		hint = "Release to add files"
		return m.dropInput.View() + "\n" + styles.WarningText.Render(truncate(hint, width))
	}
	return m.dropInput.View() + "\n" + styles.FaintText.Render(truncate(hint, width))
}

func (m Model) renderOptions() string {
	styles := m.theme.Styles()
	var b strings.Builder
	for i, opt := range submit.AllOptions() {
		box := "[ ]"
		if m.checked[opt] {
			box = "[x]"
		}
		line := box + " " + opt.Label()
		if m.focus == focusOptions && i == m.optionRow {
			line = styles.Selected.Render(line)
		} else if m.checked[opt] {
			line = styles.Text.Render(line)
		} else {
			line = styles.MutedText.Render(line)
		}
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(line)
	}
	return b.String()
}

func (m Model) renderSubmit(width int) string {
	label := " Submit (ctrl+s) "
	if m.busy() {
		label = " " + m.spinner.View() + " Submitting... "
	}
	button := m.theme.Styles().SubmitButton(m.busy())
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, button.Render(label))
}

func (m Model) handleDropKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.dropInput.Reset()
		m.drop.Leave()
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		payload := m.dropInput.Value()
		m.dropInput.Reset()
		if strings.TrimSpace(payload) == "" {
			m.drop.Leave()
			return m, nil
		}
		m.dropPayload(payload)
		return m, nil
	}

	if !m.drop.Active() {
		m.drop.Enter()
	}
	var cmd tea.Cmd
	m.dropInput, cmd = m.dropInput.Update(msg)
	return m, cmd
}

func (m Model) handleAPIKeyKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		cmd := m.setFocus(focusFiles)
		return m, cmd
	case key.Matches(msg, m.keys.Confirm):
		cmd := m.setFocus(focusOptions)
		return m, cmd
	}
	var cmd tea.Cmd
	m.keyInput, cmd = m.keyInput.Update(msg)
	return m, cmd
}

func (m Model) handleOptionsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	opts := submit.AllOptions()
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.optionRow > 0 {
			m.optionRow--
		}
	case key.Matches(msg, m.keys.Down):
		if m.optionRow < len(opts)-1 {
			m.optionRow++
		}
	case key.Matches(msg, m.keys.Toggle):
		opt := opts[m.optionRow]
		m.checked[opt] = !m.checked[opt]
		m.savePrefs()
	}
	return m, nil
}

// dropPayload adds every readable file named in payload and reports the rest.
func (m *Model) dropPayload(payload string) {
	entries, errs := m.drop.Drop(payload)
	for _, err := range errs {
		log.Printf("drop: %v", err)
	}
	if len(entries) > 0 {
		m.rerenderFiles()
	}

	switch {
	case len(entries) > 0 && len(errs) > 0:
		m.flash = fmt.Sprintf("Added %d file(s), skipped %d", len(entries), len(errs))
	case len(entries) > 0:
		m.flash = fmt.Sprintf("Added %d file(s)", len(entries))
	case len(errs) > 0:
		m.flash = errs[0].Error()
	}
}

// selectedOptions reads the checkboxes in display order.
func (m Model) selectedOptions() []submit.Option {
	var out []submit.Option
	for _, opt := range submit.AllOptions() {
		if m.checked[opt] {
			out = append(out, opt)
		}
	}
	return out
}

// startSubmit validates the form and, when it passes, runs the submission in
// the background. A failed check shows a prompt and sends nothing.
func (m Model) startSubmit() (tea.Model, tea.Cmd) {
	if m.busy() {
		return m, nil
	}

	in := submit.Input{
		Files:   m.list.Files(),
		APIKey:  m.keyInput.Value(),
		Options: m.selectedOptions(),
	}
	if err := submit.Validate(len(in.Files), in.APIKey, in.Options); err != nil {
		m.showSubmitError(err)
		return m, nil
	}

	m.submitting = true
	m.flash = ""
	m.snapshot.Sections = nil
	m.refreshResults()
	return m, tea.Batch(m.spinner.Tick, submitCmd(m.ctx, m.controller, in))
}

func (m Model) handleSubmitDone(msg submitDoneMsg) (tea.Model, tea.Cmd) {
	m.submitting = false
	m.snapshot = m.store.Snapshot()
	if msg.err != nil {
		m.showSubmitError(msg.err)
		return m, nil
	}
	if len(m.snapshot.Sections) == 0 && len(msg.sections) > 0 {
		// No tracker was wired to the store.
		m.snapshot.Sections = msg.sections
	}
	m.refreshResults()
	m.results.GotoTop()
	m.flash = fmt.Sprintf("Finished in %s", formatElapsed(m.snapshot.Elapsed(m.snapshot.FinishedAt)))
	return m, nil
}

func (m *Model) showSubmitError(err error) {
	var verr *submit.ValidationError
	switch {
	case errors.As(err, &verr):
		m.modal = newPromptModal("Cannot submit", verr.Prompt)
	case errors.Is(err, submit.ErrBusy):
		m.flash = "A submission is already running"
	default:
		m.modal = newPromptModal("Cannot submit", err.Error())
	}
}

// startDownload saves the README offered by the current results.
func (m Model) startDownload() (tea.Model, tea.Cmd) {
	for _, s := range m.snapshot.Sections {
		if s.Download != nil {
			return m, saveCmd(s.Download, m.downloadDir())
		}
	}
	m.flash = "Nothing to download"
	return m, nil
}

func (m Model) downloadDir() string {
	if m.config != nil && strings.TrimSpace(m.config.DownloadDir) != "" {
		return m.config.DownloadDir
	}
	return "."
}
