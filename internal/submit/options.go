package submit

import (
	"fmt"
	"strings"
)

// Option selects which section the server should produce.
type Option string

const (
	OptionReadme  Option = "readme"
	OptionDebug   Option = "debug"
	OptionSuggest Option = "suggest"
)

// AllOptions lists the recognised options in display order.
func AllOptions() []Option {
	return []Option{OptionReadme, OptionDebug, OptionSuggest}
}

// Label is the human-readable checkbox label for an option.
func (o Option) Label() string {
	switch o {
	case OptionReadme:
		return "Generate README.md"
	case OptionDebug:
		return "Find bugs and suggest fixes"
	case OptionSuggest:
		return "Suggest improvements"
	default:
		return string(o)
	}
}

// ParseOptions reads a comma separated option list such as "readme,debug".
// Blank items are skipped; unknown tokens are rejected.
func ParseOptions(raw string) ([]Option, error) {
	var out []Option
	for _, part := range strings.Split(raw, ",") {
		token := strings.ToLower(strings.TrimSpace(part))
		if token == "" {
			continue
		}
		opt := Option(token)
		if !opt.Known() {
			return nil, fmt.Errorf("unknown option %q", token)
		}
		out = append(out, opt)
	}
	return out, nil
}

// Known reports whether o is one of AllOptions.
func (o Option) Known() bool {
	switch o {
	case OptionReadme, OptionDebug, OptionSuggest:
		return true
	}
	return false
}

// Strings converts options to their wire tokens.
func Strings(opts []Option) []string {
	out := make([]string, len(opts))
	for i, o := range opts {
		out[i] = string(o)
	}
	return out
}
