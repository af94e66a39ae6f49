package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir moves into an empty directory so no stray rtadmin.yaml or .env is
// picked up.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("HOME", dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdir(t)

	cfg, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Empty(t, cfg.Module)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := chdir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rtadmin.yaml"), []byte(
		"module: /usr/lib/librtpkcs11ecp.so\ntoken_label: Rutoken\nlog:\n  level: debug\n"), 0o600))
	t.Setenv("RTADMIN_SLOT", "2")
	t.Setenv("RTADMIN_LOG_FORMAT", "json")

	cfg, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, "/usr/lib/librtpkcs11ecp.so", cfg.Module)
	assert.Equal(t, "Rutoken", cfg.TokenLabel)
	assert.Equal(t, "2", cfg.Slot)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadDotEnv(t *testing.T) {
	dir := chdir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("RTADMIN_PIN_POOL=pins.txt\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("RTADMIN_PIN_POOL") })

	cfg, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, "pins.txt", cfg.PINPool)
}

func TestLoadExplicitFileMustExist(t *testing.T) {
	dir := chdir(t)
	_, err := Load(New(), filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadRejectsBadLogSettings(t *testing.T) {
	chdir(t)
	t.Setenv("RTADMIN_LOG_LEVEL", "loud")
	_, err := Load(New(), "")
	assert.ErrorContains(t, err, "log.level")

	t.Setenv("RTADMIN_LOG_LEVEL", "warn")
	t.Setenv("RTADMIN_LOG_FORMAT", "xml")
	_, err = Load(New(), "")
	assert.ErrorContains(t, err, "log.format")
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := Log{Level: "warn", Format: "json"}.Logger(&buf)
	require.NoError(t, err)

	logger.Info("dropped")
	logger.Warn("kept", "op", "format")
	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), `"op":"format"`)
}
