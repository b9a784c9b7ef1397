package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Setenv("DB_HOST", "test-host")
	t.Setenv("DB_MAX_OPEN_CONNS", "20")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("APP_HOST", "http://host.docker.internal:8080/")
	t.Setenv("EDITOR_READY_GRACE", "1s")

	cfg := Load()

	assert.Equal(t, "test-host", cfg.Database.Host)
	assert.True(t, cfg.Database.Enabled())
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.MinIO.UseSSL)
	assert.Equal(t, "http://host.docker.internal:8080", cfg.AppHost)
	assert.Equal(t, time.Second, cfg.Editor.ReadyGrace)
}

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"STORAGE_DRIVER", "UPLOAD_DIR", "WOPI_USER_ID", "WOPI_USER_NAME", "EDITOR_URL", "GEMINI_MODEL"} {
		t.Setenv(k, "")
	}

	cfg := Load()

	assert.Equal(t, "local", cfg.Storage.Driver)
	assert.Equal(t, "uploads", cfg.Storage.UploadDir)
	assert.Equal(t, "user123", cfg.Identity.UserID)
	assert.Equal(t, "John Doe", cfg.Identity.UserName)
	assert.True(t, cfg.Identity.UserCanWrite)
	assert.Equal(t, "http://localhost:9980", cfg.Editor.URL)
	assert.Equal(t, 700*time.Millisecond, cfg.Editor.ReadyGrace)
	assert.Equal(t, "gemini-2.0-flash", cfg.Gemini.Model)
}

func TestLocation(t *testing.T) {
	cfg := &AppConfig{Timezone: "Not/AZone"}
	assert.Equal(t, time.UTC, cfg.Location())

	cfg.Timezone = "UTC"
	assert.Equal(t, "UTC", cfg.Location().String())
}

func TestGetEnv(t *testing.T) {
	key := "TEST_ENV_VAR"
	os.Setenv(key, "value")
	defer os.Unsetenv(key)

	assert.Equal(t, "value", getEnv(key, "default"))
	assert.Equal(t, "default", getEnv("NON_EXISTENT", "default"))
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_BOOL_VAR"

	os.Setenv(key, "true")
	assert.True(t, getEnvBool(key, false))

	os.Setenv(key, "false")
	assert.False(t, getEnvBool(key, true))

	os.Setenv(key, "invalid")
	assert.True(t, getEnvBool(key, true))

	os.Unsetenv(key)
	assert.True(t, getEnvBool(key, true))
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_INT_VAR"

	os.Setenv(key, "123")
	assert.Equal(t, 123, getEnvInt(key, 0))

	os.Setenv(key, "invalid")
	assert.Equal(t, 10, getEnvInt(key, 10))

	os.Unsetenv(key)
	assert.Equal(t, 10, getEnvInt(key, 10))
}

func TestGetEnvDuration(t *testing.T) {
	key := "TEST_DURATION_VAR"

	os.Setenv(key, "250ms")
	assert.Equal(t, 250*time.Millisecond, getEnvDuration(key, time.Second))

	os.Setenv(key, "-1s")
	assert.Equal(t, time.Second, getEnvDuration(key, time.Second))

	os.Setenv(key, "soon")
	assert.Equal(t, time.Second, getEnvDuration(key, time.Second))

	os.Unsetenv(key)
	assert.Equal(t, time.Second, getEnvDuration(key, time.Second))
}

func TestDatabaseEnabled(t *testing.T) {
	assert.False(t, DatabaseConfig{}.Enabled())
	assert.True(t, DatabaseConfig{URL: "postgres://db/journal"}.Enabled())

	t.Setenv("DB_HOST", "")
	t.Setenv("DATABASE_URL", "postgres://u@db:5432/journal")
	cfg := Load()
	assert.True(t, cfg.Database.Enabled())
	assert.Equal(t, 3, cfg.Database.ConnectAttempts)
}
