// Package logging builds the process logger.
package logging

import (
	"io"
	"log"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/vaughan-dsouza/postboard/internal/config"
)

// New returns a text logger writing to stderr and, when cfg.LogFile is set,
// to a size-rotated file. The closer flushes and closes that file.
func New(cfg config.Config) (*slog.Logger, io.Closer) {
	return newLogger(os.Stderr, cfg)
}

func newLogger(stderr io.Writer, cfg config.Config) (*slog.Logger, io.Closer) {
	var out io.Writer = stderr
	var closer io.Closer = nopCloser{}

	if cfg.LogFile != "" {
		rotated := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    cfg.LogMaxSizeMB,
			MaxBackups: cfg.LogMaxBackups,
			Compress:   true,
		}
		out = io.MultiWriter(stderr, rotated)
		closer = rotated
	}

	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: cfg.LogLevel})), closer
}

// Setup installs New's logger as the slog and log default.
func Setup(cfg config.Config) io.Closer {
	logger, closer := New(cfg)
	slog.SetDefault(logger)
	log.SetFlags(0)
	return closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
