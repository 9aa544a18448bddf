package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	raw := `
env: test
storage_dir: /tmp/recipe-street
http_server:
  address: "127.0.0.1:9090"
  timeout: 4s
  idle_timeout: 30s
jwttoken:
  jwt_secret_key: "secret"
  token_ttl: 1h
auth:
  login_delay: 250ms
  admin_key: "admin-key"
webhook:
  url: "https://hooks.example.com/events"
  timeout: 3s
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.Env)
	assert.Equal(t, "/tmp/recipe-street", cfg.StorageDir)
	assert.Equal(t, "127.0.0.1:9090", cfg.Address)
	assert.Equal(t, 4*time.Second, cfg.Timeout)
	assert.Equal(t, "secret", cfg.JWTSecretKey)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, 250*time.Millisecond, cfg.LoginDelay)
	assert.Equal(t, "admin-key", cfg.AdminKey)
	assert.Equal(t, "https://hooks.example.com/events", cfg.URL)
	assert.Equal(t, 3*time.Second, cfg.TimeoutWebhook)
}

func TestLoad_Defaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("env: local\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "localhost:8080", cfg.Address)
	assert.Equal(t, time.Second, cfg.LoginDelay)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
