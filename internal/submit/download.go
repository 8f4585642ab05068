package submit

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	readmeFilename    = "README.md"
	readmeContentType = "text/plain; charset=utf-8"
	maxNameAttempts   = 1000
	downloadMode      = 0o644
)

// Download is a file offered to the user.
type Download struct {
	Filename    string
	ContentType string
	Data        []byte
}

// NewReadmeDownload wraps the raw, unrendered README text.
func NewReadmeDownload(text string) *Download {
	return &Download{
		Filename:    readmeFilename,
		ContentType: readmeContentType,
		Data:        []byte(text),
	}
}

// Save writes the download into dir and returns the final path. The data goes
// to a temporary file that is closed and linked into place, so no partial
// file is ever visible. An existing file is never overwritten; "README (1).md"
// and so on are tried instead.
func (d *Download) Save(dir string) (string, error) {
	if d == nil {
		return "", fmt.Errorf("download is nil")
	}
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".quill-download-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmp.Write(d.Data); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("write %s: %w", d.Filename, err)
	}
	if err := tmp.Chmod(downloadMode); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("chmod %s: %w", d.Filename, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", d.Filename, err)
	}

	for i := 0; i < maxNameAttempts; i++ {
		target := filepath.Join(dir, candidateName(d.Filename, i))
		if err := publish(tmpPath, target, d.Data); err != nil {
			if errors.Is(err, os.ErrExist) {
				continue
			}
			return "", fmt.Errorf("save %s: %w", d.Filename, err)
		}
		return target, nil
	}
	return "", fmt.Errorf("save %s: no free file name in %s", d.Filename, dir)
}

// linkFile is replaced in tests to simulate filesystems without hard links.
var linkFile = os.Link

// publish makes the finished temp file visible at target without replacing an
// existing file. A hard link fails if target exists, unlike Rename. Where hard
// links are unsupported the data is written to target with an exclusive
// create instead.
func publish(tmpPath, target string, data []byte) error {
	err := linkFile(tmpPath, target)
	if err == nil || errors.Is(err, os.ErrExist) {
		return err
	}

	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, downloadMode)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(target)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(target)
		return err
	}
	return nil
}

func candidateName(name string, attempt int) string {
	if attempt == 0 {
		return name
	}
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	return fmt.Sprintf("%s (%d)%s", stem, attempt, ext)
}
