package logs

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

var output *os.File

// Initialize sets up the default logger. Records go to the file at path if it's non-empty, to stderr otherwise.
func Initialize(path string, verbose bool) (*slog.Logger, error) {
	var w io.Writer = os.Stderr
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, errors.Wrap(err, "couldn't create log directory")
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, errors.Wrap(err, "couldn't open log file")
		}
		output = f
		w = f
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger, nil
}

func Close() {
	if output != nil {
		output.Close()
		output = nil
	}
}
