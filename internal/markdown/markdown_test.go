package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTMLRenderer_RendersMarkdown(t *testing.T) {
	r := NewHTMLRenderer()

	out, err := r.HTML("# Hi\n\n- one\n- `two`\n")
	require.NoError(t, err)
	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, "Hi</h1>")
	assert.Contains(t, out, "<li>one</li>")
	assert.Contains(t, out, "<code>two</code>")
}

func TestHTMLRenderer_SanitizesUntrustedContent(t *testing.T) {
	r := NewHTMLRenderer()

	out, err := r.HTML("hello <script>alert(1)</script>\n\n[x](javascript:alert(1))\n\n<img src=x onerror=alert(1)>")
	require.NoError(t, err)
	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "javascript:")
	assert.NotContains(t, out, "onerror")
}

func TestHTMLRenderer_Tables(t *testing.T) {
	r := NewHTMLRenderer()

	out, err := r.HTML("| a | b |\n|---|---|\n| 1 | 2 |\n")
	require.NoError(t, err)
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "<td>1</td>")
}

func TestTerminalRenderer_Render(t *testing.T) {
	r := NewTerminalRenderer("notty")

	out, err := r.Render("# Title\n\nSome body text.", 40)
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, "Title"))
	assert.True(t, strings.Contains(out, "Some body text."))

	again, err := r.Render("plain", 40)
	require.NoError(t, err)
	assert.Contains(t, again, "plain")
	assert.Len(t, r.cache, 1)
}
