package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"API_KEY", "GEMINI_API_KEY", "OPSDESK_MODEL", "OPSDESK_DATA_DIR",
		"MCP_TRANSPORT", "PORT", "MCP_BEARER_TOKEN", "GOOGLE_APPLICATION_CREDENTIALS", "OPSDESK_CALENDAR_ID"} {
		t.Setenv(k, "")
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultModel, cfg.Gemini.Model)
	assert.Equal(t, TransportStdio, cfg.Server.Transport)
	assert.Equal(t, DefaultPort, cfg.Server.Port)
	assert.Empty(t, cfg.Gemini.APIKey)
	assert.False(t, cfg.Calendar.Enabled())
}

func TestLoadParsesFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `data_dir: /srv/opsdesk
gemini:
  api_key: file-key
  model: gemini-2.5-pro
server:
  transport: http
  port: "9000"
calendar:
  credentials_file: /etc/sa.json
  calendar_id: team@example.com
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/opsdesk", cfg.DataDir)
	assert.Equal(t, "file-key", cfg.Gemini.APIKey)
	assert.Equal(t, "gemini-2.5-pro", cfg.Gemini.Model)
	assert.Equal(t, TransportHTTP, cfg.Server.Transport)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.True(t, cfg.Calendar.Enabled())
	// Fields the file leaves out keep their defaults.
	assert.Equal(t, DefaultTimezone, cfg.Calendar.Timezone)
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("gemini:\n  api_key: file-key\n"), 0644))

	t.Setenv("API_KEY", "generic")
	t.Setenv("GEMINI_API_KEY", "gemini")
	t.Setenv("OPSDESK_DATA_DIR", "/tmp/desk")
	t.Setenv("MCP_BEARER_TOKEN", "s3cret")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.Gemini.APIKey)
	assert.Equal(t, "/tmp/desk", cfg.DataDir)
	assert.Equal(t, "s3cret", cfg.Server.BearerToken)
}

func TestAPIKeyFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_KEY", "generic")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "generic", cfg.Gemini.APIKey)
}

func TestLoadRejectsBadInput(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("gemini: [unterminated"), 0644))
	_, err := Load(bad)
	assert.Error(t, err)

	t.Setenv("MCP_TRANSPORT", "carrier-pigeon")
	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, "carrier-pigeon")
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	want := DefaultConfig()
	want.DataDir = "/data"
	want.Server.BearerToken = "tok"
	want.Logging.Verbose = true
	require.NoError(t, want.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSaveLeavesEnvSecretsOut(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	src := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(src, []byte("gemini:\n  api_key: file-key\n"), 0644))
	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("MCP_BEARER_TOKEN", "env-token")

	cfg, err := Load(src)
	require.NoError(t, err)
	require.Equal(t, "env-key", cfg.Gemini.APIKey)
	cfg.DataDir = "/data"

	dst := filepath.Join(dir, "saved.yaml")
	require.NoError(t, cfg.Save(dst))
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "env-key")
	assert.NotContains(t, string(data), "env-token")

	clearEnv(t)
	got, err := Load(dst)
	require.NoError(t, err)
	assert.Equal(t, "file-key", got.Gemini.APIKey)
	assert.Empty(t, got.Server.BearerToken)
	assert.Equal(t, "/data", got.DataDir)
	assert.Equal(t, "env-key", cfg.Gemini.APIKey, "saving does not change the loaded config")
}
