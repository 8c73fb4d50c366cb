package settings_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/studybuddy/internal/app/settings"
)

func TestDefaultsWhenFileMissing(t *testing.T) {
	s, err := settings.Load(t.TempDir())
	require.NoError(t, err)
	assert.False(t, s.DarkMode())
}

func TestTogglePersists(t *testing.T) {
	dir := t.TempDir()
	s, err := settings.Load(dir)
	require.NoError(t, err)

	on, err := s.ToggleDarkMode()
	require.NoError(t, err)
	assert.True(t, on)

	raw, err := os.ReadFile(filepath.Join(dir, "settings.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "dark_mode = true")

	reloaded, err := settings.Load(dir)
	require.NoError(t, err)
	assert.True(t, reloaded.DarkMode())

	require.NoError(t, reloaded.SetDarkMode(false))
	again, err := settings.Load(dir)
	require.NoError(t, err)
	assert.False(t, again.DarkMode())
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "settings.toml"), []byte("[appearance\n"), 0o600))

	_, err := settings.Load(dir)
	assert.Error(t, err)
}

func TestLoadCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "config")
	s, err := settings.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "settings.toml"), s.Path())
}
