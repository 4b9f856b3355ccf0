package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vaughan-dsouza/postboard/internal/config"
	"github.com/vaughan-dsouza/postboard/internal/handlers"
	"github.com/vaughan-dsouza/postboard/internal/logging"
	"github.com/vaughan-dsouza/postboard/internal/postsapi"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logCloser := logging.Setup(cfg)
	defer logCloser.Close()

	api, err := postsapi.New(cfg.APIBaseURL,
		postsapi.WithTimeout(cfg.APITimeout),
		postsapi.WithLogger(slog.Default()),
	)
	if err != nil {
		slog.Error("posts api client", "err", err)
		os.Exit(1)
	}

	h := handlers.NewHandler(api, slog.Default())

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("listening", "addr", srv.Addr, "api", api.BaseURL())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("listen", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "err", err)
		return
	}

	slog.Info("server exited")
}
