// Package app is the composition root for the quill client.
//
// Run loads the .env file, the TOML config and the saved preferences,
// resolves the initial form state, and builds the upload client. It then
// either starts the Bubble Tea UI or, in print mode, submits once and writes
// the sections to stdout.
//
// # Initial Form State
//
//   - Files: path arguments, each stat'ed and sniffed up front
//   - API key: the -key flag, then the environment variable named by
//     api_key_env (GEMINI_API_KEY by default)
//   - Options: the -options flag, then the options saved in prefs.toml, then
//     default_options from config.toml
//
// # Logging
//
// While the UI owns the terminal the standard logger writes to
// ~/.local/share/quill/logs/quill.log. Print mode logs to stderr.
//
// # Exit Status
//
// In print mode a validation failure is returned as *submit.ValidationError
// and nothing is sent. A server or network failure prints the error section
// and returns ErrSubmissionFailed.
package app
