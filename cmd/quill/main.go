package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/quill/internal/app"
	"github.com/five82/quill/internal/submit"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override config path (optional, defaults to ~/.config/quill/config.toml)")
	prefsPath := flag.String("prefs", "", "override preferences path (optional)")
	apiKey := flag.String("key", "", "Gemini API key (optional, defaults to $GEMINI_API_KEY)")
	options := flag.String("options", "", "comma separated options: readme, debug, suggest")
	printMode := flag.Bool("print", false, "submit once and print the results instead of starting the UI")
	format := flag.String("format", "text", "print mode output: text, markdown or html")
	width := flag.Int("width", 0, "print mode wrap width (optional, defaults to 80)")
	save := flag.Bool("save", false, "print mode: save README.md into the download directory")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: quill [flags] [file ...]\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		PrefsPath:  *prefsPath,
		Files:      flag.Args(),
		APIKey:     *apiKey,
		Options:    *options,
		Print:      *printMode,
		Format:     *format,
		Width:      *width,
		SaveReadme: *save,
	}

	err := app.Run(ctx, opts)
	var verr *submit.ValidationError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &verr):
		fmt.Fprintln(os.Stderr, verr.Prompt)
		return 2
	case errors.Is(err, app.ErrSubmissionFailed):
		return 1
	default:
		fmt.Fprintf(os.Stderr, "quill: %v\n", err)
		return 1
	}
}
