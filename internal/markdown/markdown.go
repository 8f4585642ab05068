// Package markdown renders server-provided markdown for display.
//
// HTML output is sanitized: the markdown comes from a remote service and is
// treated as untrusted. Terminal output goes through glamour.
package markdown

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// HTMLRenderer converts markdown to sanitized HTML. It is safe for concurrent
// use.
type HTMLRenderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// NewHTMLRenderer returns a renderer with GitHub flavoured extensions and the
// bluemonday user-generated-content policy.
func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{
		md:     goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy: bluemonday.UGCPolicy(),
	}
}

// HTML renders src. Raw HTML in the source is dropped by goldmark and anything
// that survives conversion is filtered by the sanitizer.
func (r *HTMLRenderer) HTML(src string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return r.policy.Sanitize(buf.String()), nil
}

// TerminalRenderer renders markdown as styled terminal text. Renderers are
// cached per wrap width.
type TerminalRenderer struct {
	style string

	mu    sync.Mutex
	cache map[int]*glamour.TermRenderer
}

// NewTerminalRenderer returns a renderer using the named glamour style, such
// as "dark", "light" or "notty".
func NewTerminalRenderer(style string) *TerminalRenderer {
	if style == "" {
		style = "dark"
	}
	return &TerminalRenderer{style: style, cache: make(map[int]*glamour.TermRenderer)}
}

// Render wraps src at width columns.
func (r *TerminalRenderer) Render(src string, width int) (string, error) {
	if width < 20 {
		width = 20
	}
	tr, err := r.renderer(width)
	if err != nil {
		return "", err
	}
	out, err := tr.Render(src)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}

func (r *TerminalRenderer) renderer(width int) (*glamour.TermRenderer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if tr, ok := r.cache[width]; ok {
		return tr, nil
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(r.style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("create terminal renderer: %w", err)
	}
	r.cache[width] = tr
	return tr, nil
}
