package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Setenv("DB_HOST", "test-host")
	t.Setenv("DB_MAX_OPEN_CONNS", "20")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("ARCHIVE_PREFIX", "files")
	t.Setenv("PRESIGN_EXPIRY_SEC", "60")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()

	assert.Equal(t, "test-host", cfg.Database.Host)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.MinIO.UseSSL)
	assert.Equal(t, "files", cfg.Archive.Prefix)
	assert.Equal(t, time.Minute, cfg.Archive.PresignExpiry())
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ARCHIVE_PREFIX", "")
	t.Setenv("PRESIGN_EXPIRY_SEC", "")
	t.Setenv("APP_TIMEZONE", "")

	cfg := Load()

	assert.Equal(t, "archive", cfg.Archive.Prefix)
	assert.Equal(t, 15*time.Minute, cfg.Archive.PresignExpiry())
	assert.Equal(t, "UTC", cfg.Log.Timezone)
}

func validConfig() *AppConfig {
	return &AppConfig{
		Port:          "8080",
		UploadLimitMB: 64,
		Database:      DatabaseConfig{Host: "db", User: "docstore", Name: "documents"},
		MinIO:         MinIOConfig{Endpoint: "minio:9000", Bucket: "documents"},
		Archive:       ArchiveConfig{Prefix: "archive", PresignExpirySec: 900},
	}
}

func TestAppConfig_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, validConfig().Validate())
	})

	t.Run("reports every problem", func(t *testing.T) {
		cfg := validConfig()
		cfg.Port = "http"
		cfg.Database.Host = ""
		cfg.MinIO.Bucket = ""
		cfg.Archive.PresignExpirySec = 8 * 24 * 3600

		err := cfg.Validate()

		assert.ErrorContains(t, err, "PORT must be numeric")
		assert.ErrorContains(t, err, "DB_HOST is required")
		assert.ErrorContains(t, err, "MINIO_BUCKET is required")
		assert.ErrorContains(t, err, "PRESIGN_EXPIRY_SEC")
	})

	t.Run("missing settings listed in a stable order", func(t *testing.T) {
		cfg := validConfig()
		cfg.Database.Host = ""
		cfg.Database.User = ""
		cfg.Database.Name = ""
		cfg.MinIO.Endpoint = ""
		cfg.MinIO.Bucket = ""

		want := "DB_HOST is required\nDB_USER is required\nDB_NAME is required\nMINIO_ENDPOINT is required\nMINIO_BUCKET is required"
		for i := 0; i < 5; i++ {
			assert.EqualError(t, cfg.Validate(), want)
		}
	})

	t.Run("upload limit", func(t *testing.T) {
		cfg := validConfig()
		assert.Equal(t, 64<<20, cfg.UploadLimitBytes())

		cfg.UploadLimitMB = 0
		assert.ErrorContains(t, cfg.Validate(), "UPLOAD_LIMIT_MB")
	})
}

func TestLogConfig_Location(t *testing.T) {
	assert.Equal(t, time.UTC, LogConfig{Timezone: "UTC"}.Location())
	assert.Equal(t, time.UTC, LogConfig{Timezone: "Not/AZone"}.Location())
}

func TestGetEnv(t *testing.T) {
	key := "TEST_ENV_VAR"
	t.Setenv(key, "value")

	assert.Equal(t, "value", getEnv(key, "default"))
	assert.Equal(t, "default", getEnv("NON_EXISTENT", "default"))
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_BOOL_VAR"

	t.Setenv(key, "true")
	assert.True(t, getEnvBool(key, false))

	t.Setenv(key, "false")
	assert.False(t, getEnvBool(key, true))

	t.Setenv(key, "invalid")
	assert.True(t, getEnvBool(key, true))

	t.Setenv(key, "")
	assert.True(t, getEnvBool(key, true))
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_INT_VAR"

	t.Setenv(key, "123")
	assert.Equal(t, 123, getEnvInt(key, 0))

	t.Setenv(key, "invalid")
	assert.Equal(t, 10, getEnvInt(key, 10))

	t.Setenv(key, "")
	assert.Equal(t, 10, getEnvInt(key, 10))
}
