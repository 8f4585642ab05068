package client

// File is one file part of an upload. The file is opened when the request
// body is streamed.
type File struct {
	Path     string
	Name     string
	MIMEType string
}

// Request is everything carried by a single submission.
type Request struct {
	Files   []File
	APIKey  string
	Options []string
}

// Response mirrors the JSON body returned by the upload endpoint. Every field
// is optional; a null value decodes as nil.
type Response struct {
	Error   *string `json:"error,omitempty"`
	Readme  *string `json:"readme,omitempty"`
	Debug   *string `json:"debug,omitempty"`
	Suggest *string `json:"suggest,omitempty"`
}
