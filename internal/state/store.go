package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/quill/internal/submit"
)

// Snapshot represents the submission state shown by the UI.
type Snapshot struct {
	Busy         bool
	Sections     []submit.Section
	LastError    error
	StartedAt    time.Time
	FinishedAt   time.Time
	Submissions  int // completed submissions, successful or not
	FailedInARow int // consecutive submissions ending in an error section
}

// SubmitEnabled reports whether the submit control accepts input.
func (s Snapshot) SubmitEnabled() bool {
	return !s.Busy
}

// Elapsed returns how long the current or last submission took.
func (s Snapshot) Elapsed(now time.Time) time.Duration {
	if s.StartedAt.IsZero() {
		return 0
	}
	if s.Busy {
		return now.Sub(s.StartedAt)
	}
	return s.FinishedAt.Sub(s.StartedAt)
}

// Store coordinates the submit handler and the UI. It implements
// submit.Tracker.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

var _ submit.Tracker = (*Store)(nil)

// Begin clears previous output and marks a submission as in flight. It
// reports false without changing anything when one is already running.
func (s *Store) Begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snapshot.Busy {
		return false
	}
	s.snapshot.Busy = true
	s.snapshot.Sections = nil
	s.snapshot.LastError = nil
	s.snapshot.StartedAt = time.Now()
	s.snapshot.FinishedAt = time.Time{}
	return true
}

// Finish records the sections of the completed submission and re-enables the
// submit control.
func (s *Store) Finish(sections []submit.Section, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Busy = false
	s.snapshot.Sections = cloneSections(sections)
	s.snapshot.LastError = err
	s.snapshot.FinishedAt = time.Now()
	s.snapshot.Submissions++
	if hasError(sections) {
		s.snapshot.FailedInARow++
	} else {
		s.snapshot.FailedInARow = 0
	}
}

// Clear drops rendered output. It does nothing while a submission is running.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snapshot.Busy {
		return
	}
	s.snapshot.Sections = nil
	s.snapshot.LastError = nil
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Sections = cloneSections(s.snapshot.Sections)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func hasError(sections []submit.Section) bool {
	for _, sec := range sections {
		if sec.IsError() {
			return true
		}
	}
	return false
}

func cloneSections(sections []submit.Section) []submit.Section {
	if len(sections) == 0 {
		return nil
	}
	dup := make([]submit.Section, len(sections))
	copy(dup, sections)
	return dup
}
