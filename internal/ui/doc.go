// Package ui implements the interactive quill terminal interface with Bubble
// Tea.
//
// The screen is a form column (staged files, drop zone, API key, generation
// options and the submit control) beside a results viewport. On narrow
// terminals the results stack under the form.
//
// Files arrive three ways: path arguments, the ctrl+o file picker, or a
// bracketed paste of dropped paths. Every change to the selection re-renders
// all preview cards through selection.Preview, which releases the previous
// render's handles first.
//
// Submission runs in a tea.Cmd through submit.Controller. The controller
// drives the shared state.Store, so the busy flag clears on every exit path;
// the model reads the store back when the command completes. Validation
// failures open a prompt modal and send nothing.
//
// Key bindings:
//
//   - tab / shift+tab: Move between panes
//   - ctrl+o: Choose files
//   - x: Remove the selected file
//   - space: Toggle an option
//   - ctrl+s: Submit
//   - d: Save README.md
//   - c: Clear results
//   - T: Cycle theme
//   - ?: Help
//   - q: Quit
package ui
