package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/vaughan-dsouza/postboard/internal/cli"
	"github.com/vaughan-dsouza/postboard/internal/config"
	"github.com/vaughan-dsouza/postboard/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Only warnings and above on the terminal unless LOG_LEVEL asks for more.
	if cfg.LogLevel < slog.LevelWarn && os.Getenv("LOG_LEVEL") == "" {
		cfg.LogLevel = slog.LevelWarn
	}
	logCloser := logging.Setup(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := cli.Execute(ctx, cfg, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	logCloser.Close()
	os.Exit(code)
}
