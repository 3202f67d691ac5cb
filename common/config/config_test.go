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
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "api:\n  email: dev@example.com\n"))
	require.NoError(t, err)

	assert.Equal(t, "https://members-ng.iracing.com", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.API.LoginTimeout)
	assert.Equal(t, 30*time.Second, cfg.API.RequestTimeout)
	assert.Equal(t, "info", cfg.General.LogLevel)
	assert.Equal(t, "json", cfg.Export.Folder)
	assert.Equal(t, 8780, cfg.MockAPI.Port)
}

func TestLoad_FileValues(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
general:
  log_level: debug
  log_format: json
api:
  base_url: http://localhost:8780
  email: dev@example.com
  password: racer
  cust_id: 100001
  cookie_file: /tmp/cookies.json
export:
  root: /tmp/exports
  folder: racing
`))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8780", cfg.API.BaseURL)
	assert.Equal(t, 100001, cfg.API.CustID)
	assert.Equal(t, "/tmp/cookies.json", cfg.API.CookieFile)
	assert.Equal(t, "racing", cfg.Export.Folder)
	assert.Equal(t, "debug", cfg.General.LogLevel)
}

func TestLoad_InvalidBaseURL(t *testing.T) {
	_, err := Load(writeConfig(t, "api:\n  base_url: not-a-url\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base_url")
}

func TestLoad_InvalidLoginTimeout(t *testing.T) {
	_, err := Load(writeConfig(t, "api:\n  login_timeout: -5s\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "login_timeout")
}

func TestLoad_MissingFileExplicitPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
