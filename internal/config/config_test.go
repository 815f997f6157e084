package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp keeps stray .env files in the working tree out of the test.
func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, AuthDisabled, cfg.Auth.Mode)
	assert.Equal(t, 40.7128, cfg.Weather.Lat)
	assert.Equal(t, -74.0060, cfg.Weather.Lon)
	assert.False(t, cfg.RabbitMQ.Enabled())
}

func TestLoadYAMLThenEnv(t *testing.T) {
	chdirTemp(t)
	path := writeYAML(t, `
database:
  host: db.local
  user: cafe
  password: secret
  database: cafesync
rabbitmq:
  host: mq.local
  user: guest
  password: guest
`)
	t.Setenv("DB_HOST", "db.override")
	t.Setenv("PORT", "8081")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "db.override", cfg.Database.Host)
	assert.Equal(t, "cafe", cfg.Database.User)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, StoragePostgres, cfg.Storage)
	assert.Equal(t, 8081, cfg.Port)
	assert.True(t, cfg.RabbitMQ.Enabled())
	assert.Equal(t, "/", cfg.RabbitMQ.VHost)
}

func TestLoadFirebaseSelectsFirestoreAndAuth(t *testing.T) {
	chdirTemp(t)
	t.Setenv("FIREBASE_PROJECT_ID", "cafe-sync")
	t.Setenv("FIREBASE_PRIVATE_KEY", `-----BEGIN KEY-----\nabc\n-----END KEY-----`)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, StorageFirestore, cfg.Storage)
	assert.Equal(t, AuthFirebase, cfg.Auth.Mode)
	assert.Contains(t, cfg.Firebase.PrivateKey, "\nabc\n")
}

func TestLoadRejectsUnsafeCombos(t *testing.T) {
	chdirTemp(t)
	t.Setenv("APP_ENV", "production")
	_, err := Load("")
	assert.ErrorContains(t, err, "AUTH_MODE=disabled")

	t.Setenv("APP_ENV", "development")
	t.Setenv("AUTH_MODE", "dev")
	_, err = Load("")
	assert.ErrorContains(t, err, "AUTH_JWT_SECRET")

	t.Setenv("AUTH_MODE", "disabled")
	t.Setenv("STORAGE", "cassandra")
	_, err = Load("")
	assert.Error(t, err)
}
