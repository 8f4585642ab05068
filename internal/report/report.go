// Package report writes submission sections for non-interactive use.
package report

import (
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/five82/quill/internal/submit"
)

// Format selects the output encoding.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// ParseFormat accepts text, markdown (or md) and html.
func ParseFormat(raw string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "text":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	}
	return "", fmt.Errorf("unknown format %q", raw)
}

// TerminalRenderer styles markdown for a terminal of the given width.
type TerminalRenderer interface {
	Render(src string, width int) (string, error)
}

// Writer renders sections in one format.
type Writer struct {
	format   Format
	terminal TerminalRenderer
	width    int
}

// NewWriter returns a writer. terminal is only used for FormatText and may be
// nil, in which case markdown is written as-is.
func NewWriter(format Format, terminal TerminalRenderer, width int) *Writer {
	if width <= 0 {
		width = 80
	}
	return &Writer{format: format, terminal: terminal, width: width}
}

// Write renders sections to w.
func (wr *Writer) Write(w io.Writer, sections []submit.Section) error {
	switch wr.format {
	case FormatHTML:
		return writeHTML(w, sections)
	case FormatMarkdown:
		return writeMarkdown(w, sections)
	default:
		return wr.writeText(w, sections)
	}
}

func (wr *Writer) writeText(w io.Writer, sections []submit.Section) error {
	for i, s := range sections {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "== %s ==\n", s.Title); err != nil {
			return err
		}
		body := s.Text
		if !s.IsError() {
			body = s.Markdown
			if wr.terminal != nil {
				if out, err := wr.terminal.Render(s.Markdown, wr.width); err == nil {
					body = out
				}
			}
		}
		if _, err := io.WriteString(w, ensureNewline(body)); err != nil {
			return err
		}
	}
	return nil
}

func writeMarkdown(w io.Writer, sections []submit.Section) error {
	for i, s := range sections {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		body := s.Markdown
		if s.IsError() {
			body = fenced(s.Text)
		}
		if _, err := fmt.Fprintf(w, "## %s\n\n%s", s.Title, ensureNewline(body)); err != nil {
			return err
		}
	}
	return nil
}

// fenced wraps text in a code fence longer than any backtick run inside it,
// so error text is never interpreted as markdown.
func fenced(text string) string {
	fence := "```"
	for strings.Contains(text, fence) {
		fence += "`"
	}
	return fence + "\n" + ensureNewline(text) + fence + "\n"
}

func ensureNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>quill</title>
</head>
<body>
<main id="result">
{{- range .}}
<section class="{{.Class}}">
<h2>{{.Title}}</h2>
{{- if .IsError}}
<pre>{{.Text}}</pre>
{{- else}}
{{.Body}}
{{- end}}
</section>
{{- end}}
</main>
</body>
</html>
`))

type htmlSection struct {
	Class   string
	Title   string
	IsError bool
	Text    string
	Body    template.HTML
}

func writeHTML(w io.Writer, sections []submit.Section) error {
	view := make([]htmlSection, 0, len(sections))
	for _, s := range sections {
		hs := htmlSection{Title: s.Title, IsError: s.IsError(), Text: s.Text}
		if hs.IsError {
			hs.Class = "error"
		} else {
			hs.Class = "result-section"
			// Section HTML is already sanitized.
			hs.Body = template.HTML(s.HTML)
		}
		view = append(view, hs)
	}
	if err := pageTemplate.Execute(w, view); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}
