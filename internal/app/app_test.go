package app

import (
	"bytes"
	"context"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/quill/internal/submit"
)

func TestResolveOptions(t *testing.T) {
	tests := []struct {
		name     string
		explicit string
		saved    []string
		defaults []string
		want     []submit.Option
	}{
		{"explicit wins", "debug, suggest", []string{"readme"}, []string{"readme"}, []submit.Option{submit.OptionDebug, submit.OptionSuggest}},
		{"saved over defaults", "", []string{"suggest"}, []string{"readme"}, []submit.Option{submit.OptionSuggest}},
		{"nil saved uses defaults", "", nil, []string{"readme", "debug"}, []submit.Option{submit.OptionReadme, submit.OptionDebug}},
		{"unknown saved dropped", "", []string{"bogus", "DEBUG"}, nil, []submit.Option{submit.OptionDebug}},
		{"empty saved stays empty", "", []string{}, []string{"readme"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveOptions(tt.explicit, tt.saved, tt.defaults)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := resolveOptions("readme,bogus", nil, nil)
	require.Error(t, err)
}

type batchEnv struct {
	dir   string
	calls *atomic.Int32
	opts  Options
	out   *bytes.Buffer
	err   *bytes.Buffer
}

func newBatchEnv(t *testing.T, status int, body string) batchEnv {
	t.Helper()
	calls := new(atomic.Int32)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path != "/upload" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	file := filepath.Join(dir, "main.go")
	require.NoError(t, os.WriteFile(file, []byte("package main\n"), 0o644))

	t.Setenv("QUILL_ENDPOINT", srv.URL)
	t.Setenv("GEMINI_API_KEY", "env-key")

	cfgPath := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("download_dir = \""+filepath.ToSlash(filepath.Join(dir, "out"))+"\"\n"), 0o644))

	out, errBuf := new(bytes.Buffer), new(bytes.Buffer)
	return batchEnv{
		dir:   dir,
		calls: calls,
		out:   out,
		err:   errBuf,
		opts: Options{
			ConfigPath: cfgPath,
			PrefsPath:  filepath.Join(dir, "prefs.toml"),
			Files:      []string{file},
			Options:    "readme",
			Print:      true,
			Format:     "markdown",
			Stdout:     out,
			Stderr:     errBuf,
		},
	}
}

func TestRun_PrintWritesSections(t *testing.T) {
	env := newBatchEnv(t, http.StatusOK, `{"readme":"# Demo\n","debug":null}`)
	env.opts.SaveReadme = true

	require.NoError(t, Run(context.Background(), env.opts))

	assert.Equal(t, int32(1), env.calls.Load())
	assert.Equal(t, "## README.md\n\n# Demo\n", env.out.String())

	data, err := os.ReadFile(filepath.Join(env.dir, "out", "README.md"))
	require.NoError(t, err)
	assert.Equal(t, "# Demo\n", string(data))
	assert.Contains(t, env.err.String(), "saved ")
}

func TestRun_PrintServerError(t *testing.T) {
	env := newBatchEnv(t, http.StatusBadRequest, `{"error":"API key required"}`)

	err := Run(context.Background(), env.opts)
	require.ErrorIs(t, err, ErrSubmissionFailed)
	assert.Contains(t, env.out.String(), "API key required")
}

func TestRun_PrintValidationSendsNothing(t *testing.T) {
	env := newBatchEnv(t, http.StatusOK, `{}`)
	t.Setenv("GEMINI_API_KEY", "")

	err := Run(context.Background(), env.opts)

	var verr *submit.ValidationError
	require.True(t, errors.As(err, &verr), "got %v", err)
	assert.Equal(t, "api_key", verr.Field)
	assert.Equal(t, int32(0), env.calls.Load())
	assert.Empty(t, env.out.String())
}

func TestRun_FlagKeyOverridesEnv(t *testing.T) {
	env := newBatchEnv(t, http.StatusOK, `{"suggest":"Use fewer globals."}`)
	t.Setenv("GEMINI_API_KEY", "")
	env.opts.APIKey = "flag-key"
	env.opts.Options = "suggest"

	require.NoError(t, Run(context.Background(), env.opts))
	assert.True(t, strings.HasPrefix(env.out.String(), "## Improvement Suggestions"))
}

func TestRun_MissingFile(t *testing.T) {
	env := newBatchEnv(t, http.StatusOK, `{}`)
	env.opts.Files = []string{filepath.Join(env.dir, "missing.txt")}

	err := Run(context.Background(), env.opts)
	require.Error(t, err)
	assert.Equal(t, int32(0), env.calls.Load())
}

func TestRun_UnknownFormat(t *testing.T) {
	env := newBatchEnv(t, http.StatusOK, `{}`)
	env.opts.Format = "pdf"

	require.Error(t, Run(context.Background(), env.opts))
	assert.Equal(t, int32(0), env.calls.Load())
}

func TestRedirectLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "quill.log")
	restore := redirectLog(path)
	logLine := "hello from test"
	log.Print(logLine)
	restore()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), logLine)
}
