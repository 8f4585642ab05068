package ui

import (
	"context"
	"errors"
	"log"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/quill/internal/config"
	"github.com/five82/quill/internal/markdown"
	"github.com/five82/quill/internal/prefs"
	"github.com/five82/quill/internal/selection"
	"github.com/five82/quill/internal/state"
	"github.com/five82/quill/internal/submit"
)

// focusArea is the pane receiving keyboard input.
type focusArea int

const (
	focusFiles focusArea = iota
	focusDrop
	focusKey
	focusOptions
	focusResults
)

var focusOrder = []focusArea{focusFiles, focusDrop, focusKey, focusOptions, focusResults}

// Options configures the UI.
type Options struct {
	Context    context.Context
	Controller *submit.Controller
	Store      *state.Store
	Config     *config.Config
	Terminal   *markdown.TerminalRenderer
	ThemeName  string
	PrefsPath  string

	// Initial form state.
	Files   []selection.FileRef
	APIKey  string
	Checked []submit.Option

	// Registry issues preview handles; nil gets a private one.
	Registry *selection.HandleRegistry

	// StartDir is where the file picker opens; empty uses the working
	// directory.
	StartDir string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx        context.Context
	controller *submit.Controller
	store      *state.Store
	config     *config.Config
	terminal   *markdown.TerminalRenderer
	prefsPath  string

	// UI state
	theme  Theme
	keys   keyMap
	width  int
	height int
	ready  bool
	focus  focusArea

	// Selection state
	list    *selection.List
	preview *selection.Preview
	drop    *selection.DropZone
	nodes   []selection.PreviewNode
	fileRow int

	// Form state
	dropInput textinput.Model
	keyInput  textinput.Model
	checked   map[submit.Option]bool
	optionRow int

	// Submission state
	spinner    spinner.Model
	submitting bool
	snapshot   state.Snapshot
	results    viewport.Model

	// Overlays
	picker     filepicker.Model
	showPicker bool
	showHelp   bool
	modal      Modal

	// flash is a one-line notice shown in the footer.
	flash string
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	store := opts.Store
	if store == nil {
		store = &state.Store{}
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Nightfox"
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	list := &selection.List{}
	list.Add(opts.Files...)
	preview := selection.NewPreview(opts.Registry)

	dropInput := textinput.New()
	dropInput.Prompt = "⇣ "
	dropInput.Placeholder = "Drop or paste files here"

	keyInput := textinput.New()
	keyInput.Prompt = "🔑 "
	keyInput.Placeholder = "Gemini API key"
	keyInput.EchoMode = textinput.EchoPassword
	keyInput.EchoCharacter = '•'
	keyInput.SetValue(opts.APIKey)

	checked := make(map[submit.Option]bool)
	for _, opt := range opts.Checked {
		checked[opt] = true
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	fp := filepicker.New()
	fp.CurrentDirectory = opts.StartDir
	if fp.CurrentDirectory == "" {
		if wd, err := os.Getwd(); err == nil {
			fp.CurrentDirectory = wd
		} else {
			fp.CurrentDirectory = "."
		}
	}
	fp.ShowHidden = false
	fp.FileAllowed = true
	fp.DirAllowed = false

	return Model{
		ctx:        ctx,
		controller: opts.Controller,
		store:      store,
		config:     opts.Config,
		terminal:   opts.Terminal,
		prefsPath:  prefsPath,
		theme:      GetTheme(themeName),
		keys:       DefaultKeyMap(),
		focus:      focusFiles,
		list:       list,
		preview:    preview,
		drop:       selection.NewDropZone(list),
		nodes:      preview.Render(list),
		dropInput:  dropInput,
		keyInput:   keyInput,
		checked:    checked,
		spinner:    sp,
		snapshot:   store.Snapshot(),
		results:    viewport.New(0, 0),
		picker:     fp,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.picker.Init(),
		fetchSnapshotCmd(m.store),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case submitDoneMsg:
		return m.handleSubmitDone(msg)

	case savedMsg:
		if msg.err != nil {
			m.modal = newPromptModal("Download failed", msg.err.Error())
			return m, nil
		}
		m.flash = "Saved " + msg.path
		return m, nil

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.refreshResults()
		return m, nil
	}

	// Directory listings and cursor blinks go back to the components that
	// asked for them.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	cmds = append(cmds, cmd)
	m.dropInput, cmd = m.dropInput.Update(msg)
	cmds = append(cmds, cmd)
	m.keyInput, cmd = m.keyInput.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}

	if m.showHelp {
		return m.renderHelp()
	}

	if m.showPicker {
		return m.renderPicker()
	}

	return m.renderMain()
}

// handleKey processes keyboard input. Overlays take every key first; text
// inputs take every key not bound globally.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}

	if m.modal != nil {
		modal, cmd, closed := m.modal.Update(msg, m.keys)
		if closed {
			m.modal = nil
		} else {
			m.modal = modal
		}
		return m, cmd
	}

	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.showPicker {
		return m.handlePickerKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.startSubmit()
	case key.Matches(msg, m.keys.Tab):
		cmd := m.setFocus(m.nextFocus(1))
		return m, cmd
	case key.Matches(msg, m.keys.ShiftTab):
		cmd := m.setFocus(m.nextFocus(-1))
		return m, cmd
	case key.Matches(msg, m.keys.OpenPicker):
		m.showPicker = true
		return m, m.picker.Init()
	}

	// A paste outside the key field is a drop onto the drop zone.
	if msg.Paste && m.focus != focusKey {
		m.drop.Enter()
		m.dropPayload(string(msg.Runes))
		return m, nil
	}

	switch m.focus {
	case focusDrop:
		return m.handleDropKey(msg)
	case focusKey:
		return m.handleAPIKeyKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		m.refreshResults()
		return m, nil
	case key.Matches(msg, m.keys.Download):
		return m.startDownload()
	case key.Matches(msg, m.keys.Clear):
		m.store.Clear()
		m.snapshot = m.store.Snapshot()
		m.refreshResults()
		return m, nil
	}

	switch m.focus {
	case focusFiles:
		return m.handleFilesKey(msg)
	case focusOptions:
		return m.handleOptionsKey(msg)
	case focusResults:
		var cmd tea.Cmd
		m.results, cmd = m.results.Update(msg)
		return m, cmd
	}
	return m, nil
}

// nextFocus returns the pane delta steps away in focusOrder.
func (m Model) nextFocus(delta int) focusArea {
	idx := 0
	for i, f := range focusOrder {
		if f == m.focus {
			idx = i
			break
		}
	}
	n := len(focusOrder)
	return focusOrder[((idx+delta)%n+n)%n]
}

// setFocus moves focus, toggling the drop zone highlight and text input
// cursors as needed.
func (m *Model) setFocus(f focusArea) tea.Cmd {
	if m.focus == f {
		return nil
	}
	if m.focus == focusDrop {
		m.drop.Leave()
	}
	m.dropInput.Blur()
	m.keyInput.Blur()

	m.focus = f
	switch f {
	case focusDrop:
		m.drop.Enter()
		return m.dropInput.Focus()
	case focusKey:
		return m.keyInput.Focus()
	}
	return nil
}

func (m Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Escape) {
		m.showPicker = false
		return m, nil
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	if ok, path := m.picker.DidSelectFile(msg); ok {
		ref, err := selection.Inspect(path)
		if err != nil {
			log.Printf("inspect %s: %v", path, err)
			m.flash = err.Error()
			return m, cmd
		}
		m.list.Add(ref)
		m.rerenderFiles()
		m.flash = "Added " + ref.Name
	}
	return m, cmd
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.preview.Close()
	return m, tea.Quit
}

// busy reports whether the submit control is disabled.
func (m Model) busy() bool {
	return m.submitting || m.snapshot.Busy
}

// savePrefs persists the theme and checked options. Failures only reach the
// log.
func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Theme: m.theme.Name, Options: submit.Strings(m.selectedOptions())}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		log.Printf("save prefs: %v", err)
	}
}

// layout sizes the results viewport for the current terminal and form.
func (m *Model) layout() {
	if m.width == 0 || m.height == 0 {
		return
	}
	bodyHeight := maxInt(m.height-chromeHeight, 1)
	if m.compact() {
		formHeight := lipgloss.Height(m.renderForm(m.width))
		m.results.Width = maxInt(m.width-2, 10)
		m.results.Height = maxInt(bodyHeight-formHeight-2, resultsMinHeight)
	} else {
		m.results.Width = maxInt(m.width-m.formWidth()-2, 10)
		m.results.Height = maxInt(bodyHeight-2, 1)
	}
	m.refreshResults()
}

func (m Model) compact() bool {
	return m.width < LayoutCompactWidth
}

func (m Model) formWidth() int {
	if m.compact() {
		return m.width
	}
	w := m.width * 2 / 5
	return min(max(w, formMinWidth), formMaxWidth)
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	form := m.renderForm(m.formWidth())
	results := m.renderResultsPane()
	if m.compact() {
		b.WriteString(lipgloss.JoinVertical(lipgloss.Left, form, results))
	} else {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, form, results))
	}
	b.WriteString("\n")

	b.WriteString(m.renderFooter())
	return b.String()
}

// Messages

type snapshotMsg state.Snapshot

type submitDoneMsg struct {
	sections []submit.Section
	err      error
}

type savedMsg struct {
	path string
	err  error
}

// Commands

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func submitCmd(ctx context.Context, c *submit.Controller, in submit.Input) tea.Cmd {
	return func() tea.Msg {
		if c == nil {
			return submitDoneMsg{err: errors.New("no uploader configured")}
		}
		sections, err := c.Submit(ctx, in)
		return submitDoneMsg{sections: sections, err: err}
	}
}

func saveCmd(d *submit.Download, dir string) tea.Cmd {
	return func() tea.Msg {
		path, err := d.Save(dir)
		return savedMsg{path: path, err: err}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
