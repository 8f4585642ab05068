package submit

import (
	"context"
	"fmt"
	"log"

	"github.com/five82/quill/internal/client"
	"github.com/five82/quill/internal/selection"
)

// Tracker records the busy state of the submit control. Begin marks a
// submission as started, clearing previous output and disabling the control,
// and reports false if one is already running. Finish always follows a
// successful Begin.
type Tracker interface {
	Begin() bool
	Finish(sections []Section, err error)
}

// Input is the state read at submit time.
type Input struct {
	Files   []selection.FileRef
	APIKey  string
	Options []Option
}

// Controller validates and performs submissions.
type Controller struct {
	uploader client.Uploader
	tracker  Tracker
	renderer Renderer
}

// NewController wires a controller. tracker may be nil when no UI state needs
// updating.
func NewController(uploader client.Uploader, tracker Tracker, renderer Renderer) *Controller {
	return &Controller{uploader: uploader, tracker: tracker, renderer: renderer}
}

// Submit checks preconditions and, when they hold, performs exactly one
// request and returns the sections to display. The returned error is a
// *ValidationError or ErrBusy; in both cases nothing was sent. Transport and
// server failures are reported as an error section instead.
//
// The tracker's Finish runs on every path after Begin, including a panic
// while handling the reply.
func (c *Controller) Submit(ctx context.Context, in Input) (sections []Section, err error) {
	if err := Validate(len(in.Files), in.APIKey, in.Options); err != nil {
		return nil, err
	}
	var failure error
	if c.tracker != nil {
		if !c.tracker.Begin() {
			return nil, ErrBusy
		}
		defer func() {
			if r := recover(); r != nil {
				failure = fmt.Errorf("internal error: %v", r)
				log.Printf("submission panicked: %v", r)
				sections = BuildSections(FromTransportError(failure), nil)
			}
			c.tracker.Finish(sections, failure)
		}()
	}

	req := client.Request{
		Files:   toClientFiles(in.Files),
		APIKey:  in.APIKey,
		Options: Strings(in.Options),
	}
	resp, err := c.uploader.Submit(ctx, req)
	if err != nil {
		failure = err
		log.Printf("submission failed: %v", err)
		return BuildSections(FromTransportError(err), c.renderer), nil
	}
	return BuildSections(FromResponse(resp), c.renderer), nil
}

func toClientFiles(files []selection.FileRef) []client.File {
	out := make([]client.File, len(files))
	for i, f := range files {
		out[i] = client.File{Path: f.Path, Name: f.Name, MIMEType: f.MIMEType}
	}
	return out
}
