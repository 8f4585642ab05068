package selection

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/google/shlex"
)

// ParseDrop turns a drop payload into file references. Terminals deliver a
// drop as pasted text: shell-quoted paths separated by spaces, or file:// URIs
// one per line. Paths that cannot be inspected are reported and skipped; the
// rest keep their payload order.
func ParseDrop(payload string) ([]FileRef, []error) {
	var (
		files []FileRef
		errs  []error
	)
	for _, path := range dropPaths(payload, &errs) {
		ref, err := Inspect(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		files = append(files, ref)
	}
	return files, errs
}

func dropPaths(payload string, errs *[]error) []string {
	var paths []string
	for _, line := range strings.FieldsFunc(payload, func(r rune) bool { return r == '\n' || r == '\r' }) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if singleURI(line) {
			if p, err := fromFileURI(line); err == nil {
				paths = append(paths, p)
				continue
			}
		}
		tokens, err := shlex.Split(line)
		if err != nil {
			*errs = append(*errs, fmt.Errorf("parse dropped paths: %w", err))
			continue
		}
		for _, tok := range tokens {
			if strings.HasPrefix(tok, "file://") {
				p, err := fromFileURI(tok)
				if err != nil {
					*errs = append(*errs, err)
					continue
				}
				tok = p
			}
			paths = append(paths, tok)
		}
	}
	return paths
}

// singleURI reports whether line is one unquoted file:// URI. Unencoded
// spaces inside the URI are allowed; a second URI after whitespace is not.
func singleURI(line string) bool {
	if !strings.HasPrefix(line, "file://") || strings.ContainsAny(line, "'\"") {
		return false
	}
	for _, field := range strings.Fields(line)[1:] {
		if strings.HasPrefix(field, "file://") {
			return false
		}
	}
	return true
}

func fromFileURI(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse file uri %q: %w", raw, err)
	}
	if u.Path == "" {
		return "", fmt.Errorf("file uri %q has no path", raw)
	}
	return u.Path, nil
}

// DropZone tracks the highlight state of the drop target and forwards dropped
// files to a List.
type DropZone struct {
	list   *List
	active bool
}

// NewDropZone returns a drop zone that appends to list.
func NewDropZone(list *List) *DropZone {
	return &DropZone{list: list}
}

// Enter highlights the zone while a drop is pending.
func (z *DropZone) Enter() {
	z.active = true
}

// Leave reverts the highlight. Cancelling a drop is the same as leaving.
func (z *DropZone) Leave() {
	z.active = false
}

// Active reports whether the zone is highlighted.
func (z *DropZone) Active() bool {
	return z.active
}

// Drop reverts the highlight and appends every readable dropped file.
func (z *DropZone) Drop(payload string) ([]Entry, []error) {
	z.active = false
	files, errs := ParseDrop(payload)
	if len(files) == 0 {
		return nil, errs
	}
	return z.list.Add(files...), errs
}
