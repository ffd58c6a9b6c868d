package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/germanamz/llm7chat/pkg/engine"
)

// defaultConfigNames are tried in order when -config is not given.
var defaultConfigNames = []string{"llm7chat.yaml", "llm7chat.yml", "llm7chat.toml"}

// loadDotEnv loads environment variables from path. Missing files are ignored.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// resolveConfigPath returns the config file to use. Priority:
// 1. Explicit -config flag (non-empty)
// 2. The first of defaultConfigNames that exists in dir
// An empty result means built-in defaults.
func resolveConfigPath(explicit, dir string) string {
	if explicit != "" {
		return explicit
	}

	for _, name := range defaultConfigNames {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

// newLogger opens cfg.LogFile for appending and returns a text logger writing
// to it. Without a log file everything is discarded, since the TUI owns the
// terminal.
func newLogger(cfg engine.Config) (*slog.Logger, io.Closer, error) {
	lvl, err := cfg.Level()
	if err != nil {
		return nil, nil, err
	}

	if cfg.LogFile == "" {
		return slog.New(slog.DiscardHandler), io.NopCloser(nil), nil
	}

	f, err := os.OpenFile(expandHome(cfg.LogFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600) //nolint:gosec // path comes from local configuration
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: lvl})), f, nil
}

// expandHome replaces a leading ~/ with the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
