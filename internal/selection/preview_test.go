package selection

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))))
	return path
}

func TestDisplayName(t *testing.T) {
	exact := strings.Repeat("x", 25)
	long := strings.Repeat("y", 26)

	assert.Equal(t, "main.go", DisplayName("main.go"))
	assert.Equal(t, exact, DisplayName(exact))
	assert.Equal(t, strings.Repeat("y", 25)+"...", DisplayName(long))
	assert.Equal(t, strings.Repeat("é", 25)+"...", DisplayName(strings.Repeat("é", 30)))
}

func TestPreview_RenderKinds(t *testing.T) {
	var l List
	l.Add(
		FileRef{Name: "shot.png", MIMEType: "image/png"},
		FileRef{Name: "demo.mp4", MIMEType: "video/mp4"},
		FileRef{Name: "notes.txt", MIMEType: "text/plain"},
		FileRef{Name: "blob", MIMEType: ""},
	)

	p := NewPreview(nil)
	nodes := p.Render(&l)
	require.Len(t, nodes, 4)

	assert.Equal(t, KindImage, nodes[0].Kind)
	assert.NotNil(t, nodes[0].Handle)
	assert.Empty(t, nodes[0].Glyph)

	assert.Equal(t, KindVideo, nodes[1].Kind)
	require.NotNil(t, nodes[1].Handle)
	assert.True(t, nodes[1].Muted)
	assert.True(t, nodes[1].Controls)

	for _, n := range nodes[2:] {
		assert.Equal(t, KindDocument, n.Kind)
		assert.Nil(t, n.Handle)
		assert.Equal(t, documentGlyph, n.Glyph)
	}
	for i, n := range nodes {
		assert.Equal(t, i, n.Position)
	}
}

func TestPreview_ReleasesHandlesAcrossRenders(t *testing.T) {
	reg := NewHandleRegistry()
	p := NewPreview(reg)

	var l List
	added := l.Add(
		FileRef{Name: "a.png", MIMEType: "image/png"},
		FileRef{Name: "b.mp4", MIMEType: "video/mp4"},
		FileRef{Name: "c.md", MIMEType: "text/markdown"},
	)
	p.Render(&l)
	assert.Equal(t, 2, reg.Live())

	for i := 0; i < 10; i++ {
		l.Add(FileRef{Name: "x.gif", MIMEType: "image/gif"})
		p.Render(&l)
		require.True(t, l.RemoveAt(l.Len()-1))
		p.Render(&l)
	}
	assert.Equal(t, 2, reg.Live())

	require.True(t, l.Remove(added[0].ID))
	p.Render(&l)
	assert.Equal(t, 1, reg.Live())

	p.Close()
	assert.Equal(t, 0, reg.Live())
	assert.Empty(t, p.Nodes())
}

func TestPreview_RemovalControlsFollowCurrentList(t *testing.T) {
	var l List
	l.Add(refs("a", "b", "c")...)
	p := NewPreview(nil)
	before := p.Render(&l)

	require.True(t, l.Remove(before[0].EntryID))
	after := p.Render(&l)

	require.Len(t, after, 2)
	assert.Equal(t, before[1].EntryID, after[0].EntryID)
	assert.Equal(t, 0, after[0].Position)
	// The control for "c" captured before the removal still removes "c".
	require.True(t, l.Remove(before[2].EntryID))
	assert.Equal(t, []string{"b"}, names(&l))
}

func TestHandleRegistry_ImageDimensions(t *testing.T) {
	dir := t.TempDir()
	path := writePNG(t, dir, "pic.png", 12, 7)

	ref, err := Inspect(path)
	require.NoError(t, err)
	require.Equal(t, "image/png", ref.MIMEType)

	reg := NewHandleRegistry()
	var l List
	e := l.Add(ref)[0]

	h := reg.Acquire(e)
	assert.Equal(t, 12, h.Width)
	assert.Equal(t, 7, h.Height)
	assert.True(t, strings.HasPrefix(h.URI, "file://"))

	// Second acquisition is served from the cache and still yields a distinct handle.
	h2 := reg.Acquire(e)
	assert.NotEqual(t, h.Token, h2.Token)
	assert.Equal(t, 12, h2.Width)

	assert.True(t, reg.Release(h))
	assert.False(t, reg.Release(h))
	assert.Equal(t, 1, reg.Live())
}
