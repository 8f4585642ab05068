package selection

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// FileRef points at a user-chosen file on disk. The bytes stay on disk until
// submission opens them.
type FileRef struct {
	Path     string
	Name     string
	MIMEType string
	Size     int64
}

// Kind classifies a file for preview purposes.
type Kind int

const (
	KindDocument Kind = iota
	KindImage
	KindVideo
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindVideo:
		return "video"
	default:
		return "document"
	}
}

// KindOf maps a MIME type onto a preview kind.
func KindOf(mimeType string) Kind {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return KindImage
	case strings.HasPrefix(mimeType, "video/"):
		return KindVideo
	default:
		return KindDocument
	}
}

// Kind returns the preview kind of the file.
func (f FileRef) Kind() Kind {
	return KindOf(f.MIMEType)
}

// Inspect stats path and sniffs its MIME type. Directories are rejected;
// nothing else about the file is validated.
func Inspect(path string) (FileRef, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return FileRef{}, fmt.Errorf("path is empty")
	}
	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return FileRef{}, fmt.Errorf("resolve %q: %w", trimmed, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return FileRef{}, fmt.Errorf("stat %q: %w", trimmed, err)
	}
	if info.IsDir() {
		return FileRef{}, fmt.Errorf("%q is a directory", trimmed)
	}
	return FileRef{
		Path:     abs,
		Name:     filepath.Base(abs),
		MIMEType: sniffType(abs),
		Size:     info.Size(),
	}, nil
}

// sniffType prefers the extension mapping (what a browser reports for a picked
// file) and falls back to content detection.
func sniffType(path string) string {
	if byExt := mime.TypeByExtension(filepath.Ext(path)); byExt != "" {
		return baseType(byExt)
	}
	detected, err := mimetype.DetectFile(path)
	if err != nil {
		return "application/octet-stream"
	}
	return baseType(detected.String())
}

func baseType(value string) string {
	mediaType, _, err := mime.ParseMediaType(value)
	if err != nil {
		return value
	}
	return mediaType
}
