// Package server implements the upload endpoint that forwards submitted files
// to a Reviewer and returns its sections as JSON.
package server
