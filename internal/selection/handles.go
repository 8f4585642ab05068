package selection

import (
	"image"
	_ "image/gif"  // register decoder for DecodeConfig
	_ "image/jpeg" // register decoder for DecodeConfig
	_ "image/png"  // register decoder for DecodeConfig
	"net/url"
	"os"
	"path/filepath"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

const dimensionCacheSize = 256

// Handle is a display reference for a media preview. It must be released when
// the preview node that owns it is discarded.
type Handle struct {
	Token   uint64
	EntryID ID
	URI     string
	Width   int
	Height  int
}

type dimensionKey struct {
	path    string
	size    int64
	modTime int64
}

type dimensions struct {
	width, height int
}

// HandleRegistry issues and tracks preview handles.
type HandleRegistry struct {
	mu   sync.Mutex
	next uint64
	live map[uint64]Handle
	dims *lru.Cache[dimensionKey, dimensions]
}

// NewHandleRegistry returns an empty registry.
func NewHandleRegistry() *HandleRegistry {
	cache, err := lru.New[dimensionKey, dimensions](dimensionCacheSize)
	if err != nil {
		// Only returned for a non-positive size.
		panic(err)
	}
	return &HandleRegistry{
		live: make(map[uint64]Handle),
		dims: cache,
	}
}

// Acquire issues a handle for the entry's file.
func (r *HandleRegistry) Acquire(e Entry) Handle {
	h := Handle{
		EntryID: e.ID,
		URI:     fileURI(e.File.Path),
	}
	if e.File.Kind() == KindImage {
		if d, ok := r.dimensionsOf(e.File.Path); ok {
			h.Width, h.Height = d.width, d.height
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	h.Token = r.next
	r.live[h.Token] = h
	return h
}

// Release frees a handle. Releasing an unknown or already released handle
// reports false.
func (r *HandleRegistry) Release(h Handle) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.live[h.Token]; !ok {
		return false
	}
	delete(r.live, h.Token)
	return true
}

// Live returns the number of handles issued and not yet released.
func (r *HandleRegistry) Live() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.live)
}

func (r *HandleRegistry) dimensionsOf(path string) (dimensions, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return dimensions{}, false
	}
	key := dimensionKey{path: path, size: info.Size(), modTime: info.ModTime().UnixNano()}
	if d, ok := r.dims.Get(key); ok {
		return d, true
	}

	f, err := os.Open(path)
	if err != nil {
		return dimensions{}, false
	}
	defer func() { _ = f.Close() }()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return dimensions{}, false
	}
	d := dimensions{width: cfg.Width, height: cfg.Height}
	r.dims.Add(key, d)
	return d, true
}

func fileURI(path string) string {
	if path == "" {
		return ""
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}
