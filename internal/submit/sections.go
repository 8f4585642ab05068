package submit

import "html"

// SectionKind tags a rendered section.
type SectionKind int

const (
	SectionError SectionKind = iota
	SectionReadme
	SectionDebug
	SectionSuggest
)

// Section is one block of rendered output.
//
// Error sections carry the message in Text exactly as received; it is never
// run through markdown or treated as markup. Content sections carry the raw
// Markdown and its sanitized HTML rendering.
type Section struct {
	Kind     SectionKind
	Title    string
	Text     string
	Markdown string
	HTML     string
	Download *Download
}

// IsError reports whether the section reports a failure.
func (s Section) IsError() bool {
	return s.Kind == SectionError
}

// Renderer converts markdown into sanitized HTML.
type Renderer interface {
	HTML(markdown string) (string, error)
}

const (
	titleError        = "Error"
	titleNetworkError = "Network Error"
	titleReadme       = "README.md"
	titleDebug        = "Debugging Help"
	titleSuggest      = "Improvement Suggestions"
)

// BuildSections maps a result onto the sections to display. An error result
// yields exactly one error section. A success result yields one section per
// present, non-empty field in the order readme, debug, suggest; the readme
// section offers the raw text as a download.
func BuildSections(result Result, r Renderer) []Section {
	switch res := result.(type) {
	case ErrorResult:
		title := titleError
		if res.Transport {
			title = titleNetworkError
		}
		return []Section{{Kind: SectionError, Title: title, Text: res.Message}}
	case SuccessResult:
		var out []Section
		if text, ok := present(res.Readme); ok {
			s := contentSection(SectionReadme, titleReadme, text, r)
			s.Download = NewReadmeDownload(text)
			out = append(out, s)
		}
		if text, ok := present(res.Debug); ok {
			out = append(out, contentSection(SectionDebug, titleDebug, text, r))
		}
		if text, ok := present(res.Suggest); ok {
			out = append(out, contentSection(SectionSuggest, titleSuggest, text, r))
		}
		return out
	default:
		return nil
	}
}

func present(field *string) (string, bool) {
	if field == nil || *field == "" {
		return "", false
	}
	return *field, true
}

func contentSection(kind SectionKind, title, text string, r Renderer) Section {
	return Section{
		Kind:     kind,
		Title:    title,
		Markdown: text,
		HTML:     renderHTML(text, r),
	}
}

// renderHTML falls back to escaped preformatted text when no renderer is
// configured or rendering fails.
func renderHTML(text string, r Renderer) string {
	if r != nil {
		if out, err := r.HTML(text); err == nil {
			return out
		}
	}
	return "<pre>" + html.EscapeString(text) + "</pre>"
}
