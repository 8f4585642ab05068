package selection

const (
	nameLimit     = 25
	documentGlyph = "📄"
)

// PreviewNode is the view-model for one staged file.
type PreviewNode struct {
	EntryID  ID
	Position int
	Kind     Kind
	Name     string
	FullName string
	MIMEType string
	Size     int64
	Glyph    string

	// Video previews are muted with playback controls enabled.
	Muted    bool
	Controls bool

	// Handle is set for image and video nodes only.
	Handle *Handle
}

// Preview keeps the rendered preview nodes in sync with a List and owns the
// handles those nodes hold.
type Preview struct {
	registry *HandleRegistry
	nodes    []PreviewNode
}

// NewPreview builds a Preview backed by registry. A nil registry gets a fresh
// one.
func NewPreview(registry *HandleRegistry) *Preview {
	if registry == nil {
		registry = NewHandleRegistry()
	}
	return &Preview{registry: registry}
}

// Render discards the current nodes, releasing their handles, and rebuilds one
// node per entry in list order. Removal controls are bound to entry IDs so a
// node never refers to a stale position.
func (p *Preview) Render(l *List) []PreviewNode {
	p.release()

	entries := l.Entries()
	nodes := make([]PreviewNode, 0, len(entries))
	for i, e := range entries {
		node := PreviewNode{
			EntryID:  e.ID,
			Position: i,
			Kind:     e.File.Kind(),
			Name:     DisplayName(e.File.Name),
			FullName: e.File.Name,
			MIMEType: e.File.MIMEType,
			Size:     e.File.Size,
		}
		switch node.Kind {
		case KindImage:
			h := p.registry.Acquire(e)
			node.Handle = &h
		case KindVideo:
			h := p.registry.Acquire(e)
			node.Handle = &h
			node.Muted = true
			node.Controls = true
		default:
			node.Glyph = documentGlyph
		}
		nodes = append(nodes, node)
	}
	p.nodes = nodes
	return p.Nodes()
}

// Nodes returns a copy of the most recently rendered nodes.
func (p *Preview) Nodes() []PreviewNode {
	if len(p.nodes) == 0 {
		return nil
	}
	dup := make([]PreviewNode, len(p.nodes))
	copy(dup, p.nodes)
	return dup
}

// Close releases every handle held by the current nodes.
func (p *Preview) Close() {
	p.release()
}

func (p *Preview) release() {
	for _, n := range p.nodes {
		if n.Handle != nil {
			p.registry.Release(*n.Handle)
		}
	}
	p.nodes = nil
}

// DisplayName returns name unchanged when it is at most 25 characters long,
// otherwise its first 25 characters followed by "...".
func DisplayName(name string) string {
	runes := []rune(name)
	if len(runes) <= nameLimit {
		return name
	}
	return string(runes[:nameLimit]) + "..."
}
