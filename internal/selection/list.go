package selection

// ID identifies an entry for as long as it stays in the list. IDs are never
// reused within a List.
type ID uint64

// Entry is one staged file together with its stable identifier.
type Entry struct {
	ID   ID
	File FileRef
}

// List is the ordered set of files staged for submission. The zero value is
// an empty list ready for use. It is not safe for concurrent mutation; the UI
// model owns it and mutates it from its update loop only.
type List struct {
	entries []Entry
	nextID  ID
}

// Add appends files in the order given. Duplicates are kept.
func (l *List) Add(files ...FileRef) []Entry {
	added := make([]Entry, 0, len(files))
	for _, f := range files {
		l.nextID++
		e := Entry{ID: l.nextID, File: f}
		l.entries = append(l.entries, e)
		added = append(added, e)
	}
	return added
}

// Remove deletes the entry with the given id. It reports false and leaves the
// list untouched when the id is no longer present, which happens when a removal
// control outlives the entry it was bound to.
func (l *List) Remove(id ID) bool {
	idx := l.IndexOf(id)
	if idx < 0 {
		return false
	}
	return l.RemoveAt(idx)
}

// RemoveAt deletes the entry at index. Out-of-range indices are ignored.
func (l *List) RemoveAt(index int) bool {
	if index < 0 || index >= len(l.entries) {
		return false
	}
	l.entries = append(l.entries[:index:index], l.entries[index+1:]...)
	return true
}

// IndexOf returns the current position of id, or -1.
func (l *List) IndexOf(id ID) int {
	for i, e := range l.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// Len returns the number of staged files.
func (l *List) Len() int {
	return len(l.entries)
}

// Entries returns a copy of the entries in order.
func (l *List) Entries() []Entry {
	if len(l.entries) == 0 {
		return nil
	}
	dup := make([]Entry, len(l.entries))
	copy(dup, l.entries)
	return dup
}

// Files returns the staged files in order.
func (l *List) Files() []FileRef {
	if len(l.entries) == 0 {
		return nil
	}
	files := make([]FileRef, len(l.entries))
	for i, e := range l.entries {
		files[i] = e.File
	}
	return files
}
