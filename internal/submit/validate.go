package submit

import (
	"errors"
	"strings"
)

// ErrBusy is returned when a submission is already in flight.
var ErrBusy = errors.New("submission already in progress")

// ValidationError is a precondition failure. Prompt is the message shown to
// the user; nothing was sent.
type ValidationError struct {
	Field  string
	Prompt string
}

func (e *ValidationError) Error() string {
	return e.Prompt
}

var (
	errNoFiles   = &ValidationError{Field: "files", Prompt: "Please, attach at least one file"}
	errNoAPIKey  = &ValidationError{Field: "api_key", Prompt: "Please, enter your Gemini API key"}
	errNoOptions = &ValidationError{Field: "options", Prompt: "Please, select at least one generation option"}
)

// Validate checks the submission preconditions in order and returns the first
// failure.
func Validate(fileCount int, apiKey string, options []Option) error {
	if fileCount == 0 {
		return errNoFiles
	}
	if strings.TrimSpace(apiKey) == "" {
		return errNoAPIKey
	}
	if len(options) == 0 {
		return errNoOptions
	}
	return nil
}
