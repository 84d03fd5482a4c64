package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runWith executes the root command with args in an empty working directory
// and returns the configuration handed to the run function.
func runWith(t *testing.T, args ...string) (*Config, error) {
	t.Helper()
	chdir(t, t.TempDir())

	var got *Config
	cmd := NewRootCommand("test", func(cfg *Config) error {
		got = cfg
		return nil
	})
	cmd.SetArgs(args)
	cmd.SetOut(new(nopWriter))
	cmd.SetErr(new(nopWriter))
	err := cmd.Execute()
	return got, err
}

type nopWriter struct{}

func (*nopWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestDefaults(t *testing.T) {
	cfg, err := runWith(t)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.False(t, cfg.Debug)
	assert.True(t, cfg.Thumbnails)
	assert.True(t, cfg.AltScreen)
	assert.Equal(t, DefaultLogDir(), cfg.LogDir)
}

func TestFlagsOverride(t *testing.T) {
	logDir := t.TempDir()
	cfg, err := runWith(t, "--debug", "--log-dir", logDir, "--no-thumbnails", "--inline")
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.Equal(t, logDir, cfg.LogDir)
	assert.False(t, cfg.Thumbnails)
	assert.False(t, cfg.AltScreen)
}

func TestEnvOverridesConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("debug: false\nthumbnails: false\nlog_dir: /from/file\n"), 0o600))
	t.Setenv("BISTRO_DEBUG", "true")

	cfg, err := runWith(t, "--config", path)
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.False(t, cfg.Thumbnails)
	assert.Equal(t, "/from/file", cfg.LogDir)
	assert.Equal(t, path, cfg.ConfigFile)
}

func TestExplicitConfigMustExist(t *testing.T) {
	_, err := runWith(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read config")
}

func TestDotEnvLoaded(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("BISTRO_ALT_SCREEN=false\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("BISTRO_ALT_SCREEN") })

	var got *Config
	chdir(t, dir)
	cmd := NewRootCommand("test", func(cfg *Config) error {
		got = cfg
		return nil
	})
	cmd.SetArgs(nil)
	require.NoError(t, cmd.Execute())

	assert.False(t, got.AltScreen)
}

func TestRejectsArgs(t *testing.T) {
	_, err := runWith(t, "extra")
	assert.Error(t, err)
}

// chdir changes the working directory for the duration of the test, like
// testing.T.Chdir (Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
