package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/germanamz/llm7chat/pkg/capability"
	"github.com/germanamz/llm7chat/pkg/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveConfigPath(t *testing.T) {
	dir := t.TempDir()

	assert.Equal(t, "explicit.yaml", resolveConfigPath("explicit.yaml", dir))
	assert.Empty(t, resolveConfigPath("", dir))

	toml := filepath.Join(dir, "llm7chat.toml")
	require.NoError(t, os.WriteFile(toml, []byte(""), 0o600))
	assert.Equal(t, toml, resolveConfigPath("", dir))

	yaml := filepath.Join(dir, "llm7chat.yaml")
	require.NoError(t, os.WriteFile(yaml, []byte(""), 0o600))
	assert.Equal(t, yaml, resolveConfigPath("", dir), "yaml wins over toml")
}

func TestLoadDotEnv(t *testing.T) {
	assert.NoError(t, loadDotEnv(filepath.Join(t.TempDir(), "missing.env")))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("LLM7CHAT_DOTENV_TEST=from-file\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("LLM7CHAT_DOTENV_TEST") })

	require.NoError(t, loadDotEnv(path))
	assert.Equal(t, "from-file", os.Getenv("LLM7CHAT_DOTENV_TEST"))
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "chat.html"), expandHome("~/chat.html"))
	assert.Equal(t, "/tmp/chat.html", expandHome("/tmp/chat.html"))
	assert.Equal(t, "~user/x", expandHome("~user/x"))
}

func TestNewLogger(t *testing.T) {
	cfg := engine.Defaults()
	log, closer, err := newLogger(cfg)
	require.NoError(t, err)
	log.Info("discarded")
	require.NoError(t, closer.Close())

	cfg.LogFile = filepath.Join(t.TempDir(), "chat.log")
	cfg.LogLevel = "debug"
	log, closer, err = newLogger(cfg)
	require.NoError(t, err)
	log.Debug("turn started", "model", "gpt-4.1")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(cfg.LogFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "turn started")
	assert.Contains(t, string(data), "model=gpt-4.1")
}

func TestNewLogger_BadLevel(t *testing.T) {
	cfg := engine.Defaults()
	cfg.LogLevel = "chatty"

	_, _, err := newLogger(cfg)
	assert.ErrorContains(t, err, "invalid log_level")
}

func TestPickerOptions(t *testing.T) {
	catalog := capability.New(
		capability.Model{ID: "a", Name: "Alpha", Multimodal: true},
		capability.Model{ID: "b"},
	)

	opts := pickerOptions(catalog)
	require.Len(t, opts, 2)
	assert.Equal(t, "Alpha (images)", opts[0].Key)
	assert.Equal(t, "a", opts[0].Value)
	assert.Equal(t, "b", opts[1].Key)
}
