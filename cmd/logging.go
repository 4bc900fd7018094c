package cmd

import (
	"io"
	"log/slog"
	"os"
	"sync"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"golang.org/x/term"
)

const runIDCharset = "0123456789abcdefghijklmnopqrstuvwxyz"

var (
	loggingOnce sync.Once
	rootLogger  *slog.Logger
)

// setupLogging builds the process logger on first use and installs it as
// the slog default. Later calls return the same logger.
func setupLogging(level slog.Level) *slog.Logger {
	loggingOnce.Do(func() {
		rootLogger = newLogger(os.Stderr, level, !term.IsTerminal(int(os.Stderr.Fd()))).
			With("run", newRunID())
		slog.SetDefault(rootLogger)
	})
	return rootLogger
}

// newLogger writes text records for humans and JSON records otherwise.
func newLogger(w io.Writer, level slog.Level, asJSON bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if asJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func newRunID() string {
	id, err := gonanoid.Generate(runIDCharset, 8)
	if err != nil {
		return "unknown"
	}
	return id
}
