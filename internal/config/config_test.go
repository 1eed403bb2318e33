package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Configuration: defaults, TOML file, environment overrides, validation
// =============================================================================

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, LocalFileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, path, err := Load(LoadOptions{Dir: t.TempDir()})
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, log.InfoLevel, cfg.Level())
}

func TestLoad_LocalFile(t *testing.T) {
	dir := t.TempDir()
	want := writeConfig(t, dir, `
log_level = "debug"
workers = 4
cache_size = 64
extensions = [".vim", ".vimrc"]
watch_debounce = "200ms"
`)
	cfg, path, err := Load(LoadOptions{Dir: dir})
	require.NoError(t, err)
	assert.Equal(t, want, path)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, log.DebugLevel, cfg.Level())
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 64, cfg.CacheSize)
	assert.Equal(t, []string{".vim", ".vimrc"}, cfg.Extensions)
	assert.Equal(t, 200*time.Millisecond, cfg.WatchDebounce)
	assert.Equal(t, DefaultDBPath(), cfg.DBPath)
}

func TestLoad_ExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte(`db_path = "/tmp/x.db"`), 0644))

	cfg, got, err := Load(LoadOptions{ConfigFile: path})
	require.NoError(t, err)
	assert.Equal(t, path, got)
	assert.Equal(t, "/tmp/x.db", cfg.DBPath)
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	_, _, err := Load(LoadOptions{ConfigFile: filepath.Join(t.TempDir(), "nope.toml")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestLoad_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "workers = [")
	_, _, err := Load(LoadOptions{Dir: dir})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "workers = 4\nlog_level = \"warn\"\n")
	t.Setenv("VIMMETA_WORKERS", "9")
	t.Setenv("VIMMETA_DB_PATH", "/env/meta.db")

	cfg, _, err := Load(LoadOptions{Dir: dir})
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Workers)
	assert.Equal(t, "/env/meta.db", cfg.DBPath)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_ValidationErrors(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
log_level = "loud"
workers = -1
extensions = ["vim"]
`)
	_, _, err := Load(LoadOptions{Dir: dir})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log_level")
	assert.Contains(t, err.Error(), "workers")
	assert.Contains(t, err.Error(), `"vim" must start with a dot`)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.WatchDebounce = 0
	cfg.CacheSize = -1
	cfg.Extensions = nil
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "watch_debounce")
	assert.Contains(t, err.Error(), "cache_size")
	assert.Contains(t, err.Error(), "at least one extension")
}
