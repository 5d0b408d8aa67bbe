package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir moves into an empty directory so no stray .env is picked up.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t)
	t.Setenv("CONFIG_PATH", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", cfg.HTTP.Address)
	assert.Equal(t, 60*time.Second, cfg.HTTP.WriteTimeout)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, "carlog.db", cfg.Storage.SQLitePath)
	assert.Equal(t, "memory", cfg.Session.Backend)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenExpiry)
	assert.Equal(t, "gemini-2.5-flash", cfg.AI.Model)
	assert.Empty(t, cfg.MQTT.Broker)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_Environment(t *testing.T) {
	chdir(t)
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("STORAGE_BACKEND", "memory")
	t.Setenv("SESSION_BACKEND", "redis")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("GEMINI_API_KEY", "key-123")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.Equal(t, "redis", cfg.Session.Backend)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "key-123", cfg.AI.APIKey)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := chdir(t)
	t.Setenv("CONFIG_PATH", "")
	// godotenv never overrides a variable that is already set.
	t.Setenv("LOG_FORMAT", "")
	require.NoError(t, os.Unsetenv("LOG_FORMAT"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LOG_FORMAT=json\n"), 0o600))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_YAML(t *testing.T) {
	dir := chdir(t)
	path := filepath.Join(dir, "config.yaml")
	yaml := "storage:\n  backend: mongo\n  mongo_uri: mongodb://localhost:27017\nmqtt:\n  broker: tcp://localhost:1883\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "mongo", cfg.Storage.Backend)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Storage.MongoURI)
	assert.Equal(t, "tcp://localhost:1883", cfg.MQTT.Broker)
	assert.Equal(t, "car_logbook", cfg.Storage.MongoDatabase, "defaults still apply")
}

func TestValidate(t *testing.T) {
	cfg := Config{
		Storage: Storage{Backend: "sqlite"},
		Session: Session{Backend: "memory"},
	}
	assert.NoError(t, cfg.Validate())

	bad := cfg
	bad.Storage.Backend = "postgres"
	assert.ErrorContains(t, bad.Validate(), "storage backend")

	bad = cfg
	bad.Session.Backend = "cookie"
	assert.ErrorContains(t, bad.Validate(), "session backend")

	bad = cfg
	bad.MQTT.QoS = 3
	assert.Error(t, bad.Validate())
}
