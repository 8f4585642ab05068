// Package submit validates a selection, sends it through a client.Uploader
// and maps the reply onto display sections.
package submit
