package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-3-flash-preview"

const (
	processingPoll    = 2 * time.Second
	processingTimeout = 5 * time.Minute
)

// File is one uploaded file to review.
type File struct {
	Name     string
	MIMEType string
	Body     io.Reader
}

// Report is the model's reply. Fields the model omitted or set to null are
// nil.
type Report struct {
	Readme  *string `json:"readme,omitempty"`
	Debug   *string `json:"debug,omitempty"`
	Suggest *string `json:"suggest,omitempty"`
}

// Reviewer sends files to Gemini for review. A client is created per call
// since the API key comes with each request.
type Reviewer struct {
	model  string
	logger *slog.Logger
}

// NewReviewer returns a reviewer for model, or DefaultModel when blank.
func NewReviewer(model string, logger *slog.Logger) *Reviewer {
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Reviewer{model: model, logger: logger}
}

// Model returns the configured model name.
func (r *Reviewer) Model() string {
	return r.model
}

// Review uploads files, asks for the requested sections and decodes the
// reply. Remote copies of the files are deleted before returning.
func (r *Reviewer) Review(ctx context.Context, apiKey string, files []File, options []string) (*Report, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}

	var uploaded []*genai.File
	defer func() {
		// Cleanup must outlive a cancelled request context.
		cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
		defer cancel()
		for _, f := range uploaded {
			if _, err := cli.Files.Delete(cleanupCtx, f.Name, nil); err != nil {
				r.logger.Warn("delete remote file failed", "file", f.Name, "error", err)
			}
		}
	}()

	for _, f := range files {
		if f.Name == "" {
			continue
		}
		up, err := cli.Files.Upload(ctx, f.Body, &genai.UploadFileConfig{
			MIMEType:    f.MIMEType,
			DisplayName: f.Name,
		})
		if err != nil {
			return nil, fmt.Errorf("upload %s: %w", f.Name, err)
		}
		uploaded = append(uploaded, up)
		r.logger.Debug("uploaded file", "file", f.Name, "remote", up.Name, "mime", up.MIMEType)
	}

	for i, f := range uploaded {
		ready, err := waitActive(ctx, cli, f)
		if err != nil {
			return nil, err
		}
		uploaded[i] = ready
	}

	parts := []*genai.Part{genai.NewPartFromText(TaskInstruction(options))}
	for _, f := range uploaded {
		parts = append(parts, genai.NewPartFromURI(f.URI, f.MIMEType))
	}

	resp, err := cli.Models.GenerateContent(ctx, r.model,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)},
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(SystemPrompt(), genai.RoleUser),
			ResponseMIMEType:  "application/json",
			ResponseSchema:    ResponseSchema(),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}
	return DecodeReport(resp.Text())
}

// waitActive polls until Gemini has finished processing f. Videos in
// particular are not usable straight after upload.
func waitActive(ctx context.Context, cli *genai.Client, f *genai.File) (*genai.File, error) {
	deadline := time.Now().Add(processingTimeout)
	for f.State == genai.FileStateProcessing {
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("file %s still processing after %s", f.Name, processingTimeout)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(processingPoll):
		}
		next, err := cli.Files.Get(ctx, f.Name, nil)
		if err != nil {
			return nil, fmt.Errorf("get file %s: %w", f.Name, err)
		}
		f = next
	}
	if f.State == genai.FileStateFailed {
		return nil, fmt.Errorf("file %s failed processing", f.Name)
	}
	return f, nil
}

// ErrEmptyReply is returned when the model produced no text.
var ErrEmptyReply = errors.New("empty reply from model")

// DecodeReport parses the model's JSON reply.
func DecodeReport(text string) (*Report, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyReply
	}
	var rep Report
	if err := json.Unmarshal([]byte(text), &rep); err != nil {
		return nil, fmt.Errorf("decode reply: %w", err)
	}
	return &rep, nil
}
