package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolvePathExplicitWins(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	path, err := ResolvePath("/etc/bella.conf")
	require.NoError(t, err)
	require.Equal(t, "/etc/bella.conf", path)
}

func TestResolvePathXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	path, err := ResolvePath("")
	require.NoError(t, err)
	require.Equal(t, filepath.Join("/tmp/xdg", "bella", "config.conf"), path)
}

func TestResolvePathHomeFallback(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "/home/tester")
	path, err := ResolvePath("")
	require.NoError(t, err)
	require.Equal(t, filepath.Join("/home/tester", ".config", "bella", "config.conf"), path)
}

func TestDefaultSessionPath(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/tmp/state")
	path, err := DefaultSessionPath()
	require.NoError(t, err)
	require.Equal(t, filepath.Join("/tmp/state", "bella", "session.json"), path)
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	t.Setenv("BELLA_TOKEN", "")
	t.Setenv("BELLA_API_URL", "")

	loaded, err := Load(filepath.Join(t.TempDir(), "absent.conf"))
	require.NoError(t, err)
	require.False(t, loaded.Exists)
	require.Equal(t, Default(), loaded.Config)
	require.Len(t, loaded.Warnings, 1)
	require.Contains(t, loaded.Warnings[0].Message, "not found")
}

func TestLoadReadsFileAndEnvOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.conf")
	require.NoError(t, os.WriteFile(path, []byte(`{"audio": {"input": "headset"}}`), 0o644))

	t.Setenv("BELLA_TOKEN", "secret-token")
	t.Setenv("BELLA_API_URL", "https://override.example.com/interviews")

	loaded, err := Load(path)
	require.NoError(t, err)
	require.True(t, loaded.Exists)
	require.Equal(t, "headset", loaded.Config.Audio.Input)
	require.Equal(t, "secret-token", loaded.Config.API.Token)
	require.Equal(t, "https://override.example.com/interviews", loaded.Config.API.BaseURL)
}

func TestLoadTokenNeverFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.conf")
	require.NoError(t, os.WriteFile(path, []byte(`{"api": {"token": "leaked"}}`), 0o644))

	t.Setenv("BELLA_TOKEN", "")
	_, err := Load(path)
	require.Error(t, err)
}
