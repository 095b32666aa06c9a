package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)
}

func TestLoadNonexistentFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)
}

func TestLoadOverlaysFileOntoDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gdl.yaml")
	body := "log:\n  level: debug\n  format: json\nrules:\n  search_path:\n    - ./rules\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "json", cfg.Log.Format)
	require.Equal(t, []string{"./rules"}, cfg.Rules.SearchPath)
}

func TestLoadRejectsInvalidLogLevel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gdl.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: loud\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestResolvePathFindsFileInSearchPath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "game.gdl"), []byte("(role x)"), 0o644))

	cfg := DefaultConfig()
	cfg.Rules.SearchPath = []string{dir}

	resolved, err := cfg.ResolvePath("game.gdl")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "game.gdl"), resolved)
}

func TestResolvePathPrefersExactPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "exact.gdl")
	require.NoError(t, os.WriteFile(path, []byte("(role x)"), 0o644))

	cfg := DefaultConfig()
	resolved, err := cfg.ResolvePath(path)
	require.NoError(t, err)
	require.Equal(t, path, resolved)
}

func TestResolvePathErrorsWhenNotFound(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rules.SearchPath = []string{t.TempDir()}
	_, err := cfg.ResolvePath("nope.gdl")
	require.Error(t, err)
}
