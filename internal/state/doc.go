// Package state holds the submission state shared between the submit command
// and the UI.
//
// # Overview
//
// A submission runs as a Bubble Tea command on its own goroutine while the UI
// keeps rendering. Store is the meeting point: the submit controller calls
// Begin and Finish, the UI reads Snapshot.
//
//	Submit command:                UI:
//	┌────────────────┐            ┌──────────────────┐
//	│ store.Begin()  │            │                  │
//	│ client.Submit()│            │ store.Snapshot() │
//	│ store.Finish() │───────────→│ spinner / output │
//	└────────────────┘  (mutex)   └──────────────────┘
//
// # Single Submission
//
// Begin refuses to start while Busy is set, which is what keeps at most one
// submission in flight. The submit control is enabled exactly when Busy is
// false (Snapshot.SubmitEnabled). Finish always clears Busy, whatever the
// outcome.
//
// # Snapshots
//
// Snapshot returns a copy: the sections slice is cloned and LastError is
// re-wrapped, so callers can hold on to a snapshot while the store moves on.
package state
