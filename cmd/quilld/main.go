package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/quill/internal/config"
	"github.com/five82/quill/internal/gemini"
	"github.com/five82/quill/internal/server"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override config path (optional, defaults to ~/.config/quill/config.toml)")
	listen := flag.String("listen", "", "listen address (optional, overrides [server] listen)")
	model := flag.String("model", "", "Gemini model (optional, overrides [server] model)")
	debug := flag.Bool("debug", false, "log at debug level")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	config.LoadDotEnv()
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "quilld: load config: %v\n", err)
		return 1
	}
	if *listen != "" {
		cfg.Server.Listen = *listen
	}
	if *model != "" {
		cfg.Server.Model = *model
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	reviewer := gemini.NewReviewer(cfg.Server.Model, logger)
	srv := server.New(reviewer, server.Options{
		MaxUploadBytes: cfg.Server.MaxUploadBytes(),
		Logger:         logger,
	})
	logger.Info("using model", "model", reviewer.Model(), "max_upload_mb", cfg.Server.MaxUploadMB)

	if err := srv.ListenAndServe(ctx, cfg.Server.Listen); err != nil {
		logger.Error("server stopped", "error", err)
		return 1
	}
	return 0
}
