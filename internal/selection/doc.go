// Package selection owns the files a user stages for submission.
//
// A List keeps files in insertion order and hands each one a stable ID when it
// is added. Removal controls in the UI are bound to those IDs rather than to
// positions, so a control rendered before a removal can never delete the wrong
// file: a stale ID simply no longer matches and the removal is ignored.
//
// Preview turns a List into PreviewNode view-models. Image and video nodes hold
// a Handle from a HandleRegistry; each Render releases the handles of the nodes
// it replaces, so repeated add/remove cycles never accumulate handles.
//
// DropZone and ParseDrop cover drag-and-drop. A terminal delivers a dropped file
// as pasted text, so a drop is parsed into paths and appended exactly like a
// picker selection.
package selection
