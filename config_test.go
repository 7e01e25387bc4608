package gekko

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/gekko-editor/history"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "editor.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
[history]
capacity = 25

[logging]
level = "debug"
format = "json"

[editor]
merge_drags = false
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 25, cfg.History.Capacity)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "editor", cfg.Logging.Prefix, "unset keys keep their defaults")
	assert.False(t, cfg.Editor.MergeDrags)
	assert.True(t, cfg.Editor.RedoShiftZ)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "[history\ncapacity = 1"))
	assert.ErrorContains(t, err, "parse config")

	_, err = LoadConfig(writeConfig(t, "[history]\ncapacity = 0\n"))
	assert.ErrorContains(t, err, "history.capacity")

	_, err = LoadConfig(writeConfig(t, "[logging]\nformat = \"xml\"\n"))
	assert.ErrorContains(t, err, "logging.format")
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, history.DefaultCapacity, cfg.History.Capacity)
}
