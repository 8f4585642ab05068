package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/five82/quill/internal/client"
	"github.com/five82/quill/internal/config"
	"github.com/five82/quill/internal/markdown"
	"github.com/five82/quill/internal/prefs"
	"github.com/five82/quill/internal/report"
	"github.com/five82/quill/internal/selection"
	"github.com/five82/quill/internal/state"
	"github.com/five82/quill/internal/submit"
	"github.com/five82/quill/internal/ui"
)

// ErrSubmissionFailed is returned in print mode when the server or transport
// reported an error. The error section has already been written.
var ErrSubmissionFailed = errors.New("submission failed")

// Options configure the quill application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/quill/prefs.toml

	// Files are paths staged before the UI starts, or submitted in print
	// mode.
	Files []string
	// APIKey overrides the key read from the environment.
	APIKey string
	// Options is a comma separated option list. Empty uses the saved
	// preferences, then the config defaults.
	Options string

	// Print submits once without the UI and writes the sections to Stdout.
	Print  bool
	Format string // text, markdown or html
	Width  int    // wrap width for text output; zero uses 80
	// SaveReadme writes README.md into the download directory in print mode.
	SaveReadme bool

	Stdout io.Writer
	Stderr io.Writer
}

// Run loads configuration and either starts the TUI or, in print mode,
// performs one submission.
func Run(ctx context.Context, opts Options) error {
	config.LoadDotEnv()

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	userPrefs := prefs.Load(opts.PrefsPath)

	checked, err := resolveOptions(opts.Options, userPrefs.Options, cfg.DefaultOptions)
	if err != nil {
		return err
	}

	files, err := inspectAll(opts.Files)
	if err != nil {
		return err
	}

	uploader, err := client.NewClient(cfg.Endpoint, cfg.UploadPath)
	if err != nil {
		return fmt.Errorf("init client: %w", err)
	}

	in := submit.Input{
		Files:   files,
		APIKey:  firstNonEmpty(opts.APIKey, cfg.APIKey()),
		Options: checked,
	}

	if opts.Print {
		return runBatch(ctx, uploader, in, &cfg, opts)
	}

	closeLog := redirectLog(cfg.LogPath())
	defer closeLog()
	log.Printf("quill starting, endpoint %s", uploader.Endpoint())

	store := &state.Store{}
	uiOpts := ui.Options{
		Context:    ctx,
		Controller: submit.NewController(uploader, store, markdown.NewHTMLRenderer()),
		Store:      store,
		Config:     &cfg,
		Terminal:   markdown.NewTerminalRenderer("dark"),
		ThemeName:  userPrefs.Theme,
		PrefsPath:  opts.PrefsPath,
		Files:      in.Files,
		APIKey:     in.APIKey,
		Checked:    in.Options,
	}
	return ui.Run(uiOpts)
}

// runBatch submits once and writes the resulting sections.
func runBatch(ctx context.Context, uploader client.Uploader, in submit.Input, cfg *config.Config, opts Options) error {
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	format, err := report.ParseFormat(opts.Format)
	if err != nil {
		return err
	}

	controller := submit.NewController(uploader, nil, markdown.NewHTMLRenderer())
	sections, err := controller.Submit(ctx, in)
	if err != nil {
		return err
	}

	var terminal report.TerminalRenderer
	if format == report.FormatText {
		terminal = markdown.NewTerminalRenderer("dark")
	}
	if err := report.NewWriter(format, terminal, opts.Width).Write(stdout, sections); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	for _, s := range sections {
		if s.IsError() {
			return ErrSubmissionFailed
		}
		if s.Download != nil && opts.SaveReadme {
			path, err := s.Download.Save(cfg.DownloadDir)
			if err != nil {
				return fmt.Errorf("save %s: %w", s.Download.Filename, err)
			}
			fmt.Fprintf(stderr, "saved %s\n", path)
		}
	}
	return nil
}

// resolveOptions picks the checked options: an explicit list wins, then the
// saved preferences, then the config defaults. Unknown saved or configured
// tokens are dropped; unknown explicit tokens are an error.
func resolveOptions(explicit string, saved, defaults []string) ([]submit.Option, error) {
	if strings.TrimSpace(explicit) != "" {
		opts, err := submit.ParseOptions(explicit)
		if err != nil {
			return nil, fmt.Errorf("parse options: %w", err)
		}
		return opts, nil
	}
	source := defaults
	if saved != nil {
		source = saved
	}
	var out []submit.Option
	for _, token := range source {
		opt := submit.Option(strings.ToLower(strings.TrimSpace(token)))
		if opt.Known() {
			out = append(out, opt)
		}
	}
	return out, nil
}

func inspectAll(paths []string) ([]selection.FileRef, error) {
	files := make([]selection.FileRef, 0, len(paths))
	for _, p := range paths {
		ref, err := selection.Inspect(p)
		if err != nil {
			return nil, fmt.Errorf("add file: %w", err)
		}
		files = append(files, ref)
	}
	return files, nil
}

// redirectLog sends the standard logger to path while the TUI owns the
// terminal. On failure logging is discarded.
func redirectLog(path string) func() {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err == nil {
		if f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
			log.SetOutput(f)
			return func() {
				log.SetOutput(os.Stderr)
				_ = f.Close()
			}
		}
	}
	log.SetOutput(io.Discard)
	return func() { log.SetOutput(os.Stderr) }
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
