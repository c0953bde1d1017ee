package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfig(t, "http:\n  address: \":9090\"\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTP.Address)
	assert.Equal(t, StorageMemory, cfg.Storage.Backend)
	assert.Equal(t, "skytrack_saved_trips", cfg.Storage.Key)
	assert.Equal(t, "02GHUY", cfg.Lookup.ValidReference)
	assert.Equal(t, 1500*time.Millisecond, cfg.Lookup.Delay())
	assert.Equal(t, 30*time.Minute, cfg.Lookup.SessionIdleTTL())
	assert.False(t, cfg.Kafka.Enabled())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
storage:
  backend: memory
kafka:
  notifications_topic: reminders
redis:
  addr: localhost:6379
`)
	t.Setenv("STORAGE_BACKEND", "redis")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("LOOKUP_DELAY_MS", "10")
	t.Setenv("HTTP_ALLOWED_ORIGINS", "http://localhost:5173")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, StorageRedis, cfg.Storage.Backend)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Kafka.Enabled())
	assert.Equal(t, 10*time.Millisecond, cfg.Lookup.Delay())
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.HTTP.AllowedOrigins)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config")

	_, err = LoadConfig(writeConfig(t, "http: [\n"))
	assert.ErrorContains(t, err, "failed to parse config")

	_, err = LoadConfig(writeConfig(t, "storage:\n  backend: sqlite\n"))
	assert.ErrorContains(t, err, "unknown storage backend")

	_, err = LoadConfig(writeConfig(t, "worker:\n  reminder_sweep_seconds: 0\n"))
	assert.ErrorContains(t, err, "reminder sweep interval")

	_, err = LoadConfig(writeConfig(t, "lookup:\n  session_idle_minutes: 0\n"))
	assert.ErrorContains(t, err, "session idle timeout")
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "skytrack", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=skytrack sslmode=disable", d.DSN())
}
