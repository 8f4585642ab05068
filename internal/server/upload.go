package server

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/five82/quill/internal/gemini"
)

const (
	msgAPIKeyRequired = "API key required"
	msgNoOptions      = "Select at least one option"
	msgNoFiles        = "No files uploaded"
	msgTooLarge       = "Request too large"
	msgBadForm        = "Invalid form data"
	geminiErrorPrefix = "Gemini error: "
)

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxBytes)
	if err := r.ParseMultipartForm(maxFormMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, msgTooLarge)
			return
		}
		s.logger.Warn("parse upload form", "error", err)
		writeError(w, http.StatusBadRequest, msgBadForm)
		return
	}
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}

	apiKey := r.PostFormValue("api_key")
	options := r.PostForm["options"]
	var headers []*multipart.FileHeader
	if r.MultipartForm != nil {
		headers = r.MultipartForm.File["files"]
	}

	if apiKey == "" {
		writeError(w, http.StatusBadRequest, msgAPIKeyRequired)
		return
	}
	if len(options) == 0 {
		writeError(w, http.StatusBadRequest, msgNoOptions)
		return
	}
	if len(headers) == 0 {
		writeError(w, http.StatusBadRequest, msgNoFiles)
		return
	}

	for _, opt := range options {
		if !gemini.Known(opt) {
			s.logger.Warn("ignoring unknown option", "option", opt)
		}
	}

	files, closeAll, err := openFiles(headers)
	defer closeAll()
	if err != nil {
		writeError(w, http.StatusInternalServerError, geminiErrorPrefix+err.Error())
		return
	}

	report, err := s.reviewer.Review(r.Context(), apiKey, files, options)
	if err != nil {
		s.logger.Error("review failed", "files", len(files), "error", err)
		writeError(w, http.StatusInternalServerError, geminiErrorPrefix+err.Error())
		return
	}
	s.logger.Info("review complete", "files", len(files), "options", strings.Join(options, ","))
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, http.StatusMethodNotAllowed, "GET required")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// openFiles opens every named part. Parts without a file name are skipped.
// The returned func closes whatever was opened, even on error.
func openFiles(headers []*multipart.FileHeader) ([]gemini.File, func(), error) {
	var opened []multipart.File
	closeAll := func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}

	var files []gemini.File
	for _, h := range headers {
		if h.Filename == "" {
			continue
		}
		f, err := h.Open()
		if err != nil {
			return nil, closeAll, err
		}
		opened = append(opened, f)

		mimeType, err := partType(h, f)
		if err != nil {
			return nil, closeAll, err
		}
		files = append(files, gemini.File{Name: h.Filename, MIMEType: mimeType, Body: f})
	}
	return files, closeAll, nil
}

// partType trusts a specific declared content type and sniffs otherwise.
func partType(h *multipart.FileHeader, f multipart.File) (string, error) {
	declared := baseType(h.Header.Get("Content-Type"))
	if declared != "" && declared != "application/octet-stream" {
		return declared, nil
	}
	mt, err := mimetype.DetectReader(f)
	if err != nil {
		return "", err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return baseType(mt.String()), nil
}

func baseType(contentType string) string {
	base, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(base))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
