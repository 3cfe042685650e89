package config

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// NewLogger builds a logger for one binary. When cfg.File is set, output goes
// to that file (appended) instead of w; the returned closer releases it.
func NewLogger(cfg LogConfig, prefix string, w io.Writer) (*log.Logger, io.Closer, error) {
	level := log.InfoLevel
	if cfg.Level != "" {
		lvl, err := log.ParseLevel(cfg.Level)
		if err != nil {
			return nil, nil, fmt.Errorf("log.level: %w", err)
		}
		level = lvl
	}

	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file %s: %w", cfg.File, err)
		}
		w, closer = f, f
	}

	logger := log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          prefix,
		ReportTimestamp: true,
	})
	return logger, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
