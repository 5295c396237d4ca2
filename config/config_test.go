package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "modinput.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: DEBUG
  watch: true
metrics:
  textfile: /var/lib/node_exporter/modinput.prom
checkpoint:
  filename: state.db
splunkd:
  timeout: 5s
  verify_tls: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Watch)
	assert.Equal(t, "/var/lib/node_exporter/modinput.prom", cfg.Metrics.Textfile)
	assert.Equal(t, "state.db", cfg.Checkpoint.Filename)
	assert.False(t, cfg.Checkpoint.Disabled)
	assert.Equal(t, 5*time.Second, cfg.Splunkd.Timeout)
	assert.True(t, cfg.Splunkd.VerifyTLS)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "{}\n"))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "checkpoints.db", cfg.Checkpoint.Filename)
	assert.Equal(t, 30*time.Second, cfg.Splunkd.Timeout)
	assert.Empty(t, cfg.Metrics.Textfile)
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("PROM_DIR", "/tmp/prom")
	cfg, err := Load(writeConfig(t, "metrics:\n  textfile: ${PROM_DIR}/m.prom\n"))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/prom/m.prom", cfg.Metrics.Textfile)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("bad yaml", func(t *testing.T) {
		_, err := Load(writeConfig(t, "logging: [unclosed\n"))
		assert.ErrorContains(t, err, "parse config")
	})

	t.Run("bad level", func(t *testing.T) {
		_, err := Load(writeConfig(t, "logging:\n  level: loud\n"))
		assert.ErrorContains(t, err, "logging.level")
	})

	t.Run("filename with path", func(t *testing.T) {
		_, err := Load(writeConfig(t, "checkpoint:\n  filename: ../escape.db\n"))
		assert.ErrorContains(t, err, "checkpoint.filename")
	})
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("MODINPUT_LOG_LEVEL", "warn")
	t.Setenv("MODINPUT_CHECKPOINT_DISABLED", "yes")
	t.Setenv("MODINPUT_SPLUNKD_TIMEOUT", "2s")
	t.Setenv("MODINPUT_SPLUNKD_VERIFY_TLS", "1")

	cfg, err := Load(writeConfig(t, "logging:\n  level: debug\n"))
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Logging.Level, "env overrides file")
	assert.True(t, cfg.Checkpoint.Disabled)
	assert.Equal(t, 2*time.Second, cfg.Splunkd.Timeout)
	assert.True(t, cfg.Splunkd.VerifyTLS)
}

func TestEnvOverrides_IgnoresBadDuration(t *testing.T) {
	t.Setenv("MODINPUT_SPLUNKD_TIMEOUT", "soon")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.Splunkd.Timeout)
}

func TestLoadWithFallback(t *testing.T) {
	t.Run("file from env var", func(t *testing.T) {
		t.Setenv(EnvConfigPath, writeConfig(t, "logging:\n  level: error\n"))
		cfg, err := LoadWithFallback("")
		require.NoError(t, err)
		assert.Equal(t, "error", cfg.Logging.Level)
	})

	t.Run("missing file falls back to env", func(t *testing.T) {
		t.Setenv(EnvConfigPath, "")
		t.Setenv("MODINPUT_LOG_LEVEL", "debug")
		cfg, err := LoadWithFallback(filepath.Join(t.TempDir(), "missing.yaml"))
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.Logging.Level)
	})
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()

	// Missing file is fine.
	require.NoError(t, LoadDotEnv(dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("MODINPUT_TEST_DOTENV=from-file\n"), 0o644))
	t.Setenv("MODINPUT_TEST_DOTENV", "")
	os.Unsetenv("MODINPUT_TEST_DOTENV")

	require.NoError(t, LoadDotEnv(dir))
	assert.Equal(t, "from-file", os.Getenv("MODINPUT_TEST_DOTENV"))
}

func TestLoadDotEnv_DoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("MODINPUT_TEST_KEEP=from-file\n"), 0o644))
	t.Setenv("MODINPUT_TEST_KEEP", "from-host")

	require.NoError(t, LoadDotEnv(dir))
	assert.Equal(t, "from-host", os.Getenv("MODINPUT_TEST_KEEP"))
}
