package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"strings"

	"github.com/google/uuid"
)

// Uploader submits files for review. It is implemented by *Client and can be
// faked in tests.
type Uploader interface {
	Submit(ctx context.Context, req Request) (*Response, error)
}

// Ensure Client implements Uploader at compile time.
var _ Uploader = (*Client)(nil)

// Client talks to the quill upload endpoint.
type Client struct {
	baseURL    *url.URL
	uploadPath string
	http       *http.Client
	userAgent  string
}

const (
	DefaultEndpoint   = "127.0.0.1:5000"
	DefaultUploadPath = "/upload"
	defaultUserAgent  = "quill/0.1"
	maxResponseBytes  = 32 << 20
)

// NewClient builds a Client for the endpoint host:port (or URL) and upload
// path. No request timeout is set; a submission runs until it completes, fails
// or ctx is cancelled.
func NewClient(endpoint, uploadPath string) (*Client, error) {
	base, err := parseBaseURL(endpoint)
	if err != nil {
		return nil, err
	}
	uploadPath = strings.TrimSpace(uploadPath)
	if uploadPath == "" {
		uploadPath = DefaultUploadPath
	}
	if !strings.HasPrefix(uploadPath, "/") {
		uploadPath = "/" + uploadPath
	}
	return &Client{
		baseURL:    base,
		uploadPath: uploadPath,
		http:       &http.Client{},
		userAgent:  defaultUserAgent,
	}, nil
}

// Endpoint returns the absolute URL submissions are posted to.
func (c *Client) Endpoint() string {
	return c.baseURL.ResolveReference(&url.URL{Path: c.uploadPath}).String()
}

// Submit posts one multipart request carrying every file, the API key and
// every option, and decodes the JSON reply. Errors are transport failures:
// the request could not be sent or the reply was not the expected JSON. A
// server-reported failure comes back as a Response with Error set.
func (c *Client) Submit(ctx context.Context, req Request) (*Response, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}

	body, w := io.Pipe()
	mw := multipart.NewWriter(w)
	go func() {
		_ = w.CloseWithError(writeForm(mw, req))
	}()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(), body)
	if err != nil {
		_ = body.Close()
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.http.Do(httpReq)
	// Unblocks writeForm when the server replied without reading the form.
	defer func() { _ = body.Close() }()
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var payload Response
	if err := json.NewDecoder(bytes.NewReader(raw)).Decode(&payload); err != nil {
		if resp.StatusCode >= 400 {
			return nil, fmt.Errorf("api %s returned status %d", c.uploadPath, resp.StatusCode)
		}
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if resp.StatusCode >= 400 && payload.Error == nil {
		return nil, fmt.Errorf("api %s returned status %d", c.uploadPath, resp.StatusCode)
	}
	return &payload, nil
}

func writeForm(mw *multipart.Writer, req Request) error {
	for _, f := range req.Files {
		if err := writeFilePart(mw, f); err != nil {
			return err
		}
	}
	if err := mw.WriteField("api_key", req.APIKey); err != nil {
		return fmt.Errorf("write api_key: %w", err)
	}
	for _, opt := range req.Options {
		if err := mw.WriteField("options", opt); err != nil {
			return fmt.Errorf("write options: %w", err)
		}
	}
	return mw.Close()
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func writeFilePart(mw *multipart.Writer, f File) error {
	src, err := os.Open(f.Path)
	if err != nil {
		return fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer func() { _ = src.Close() }()

	contentType := f.MIMEType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="files"; filename="%s"`, quoteEscaper.Replace(f.Name)))
	header.Set("Content-Type", contentType)

	part, err := mw.CreatePart(header)
	if err != nil {
		return fmt.Errorf("create part %s: %w", f.Name, err)
	}
	if _, err := io.Copy(part, src); err != nil {
		return fmt.Errorf("copy %s: %w", f.Name, err)
	}
	return nil
}

func parseBaseURL(endpoint string) (*url.URL, error) {
	trimmed := strings.TrimSpace(endpoint)
	if trimmed == "" {
		trimmed = DefaultEndpoint
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint %q: %w", endpoint, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
