package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// maxPresignExpiry is the longest lifetime S3 accepts for a presigned URL.
const maxPresignExpiry = 7 * 24 * time.Hour

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds settings for the S3-compatible file archive.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

// ArchiveConfig controls how archived files are laid out and served.
type ArchiveConfig struct {
	// Prefix is the object key prefix under which files are stored by content hash.
	Prefix           string
	PresignExpirySec int
}

// PresignExpiry returns the lifetime of presigned download URLs.
func (a ArchiveConfig) PresignExpiry() time.Duration {
	return time.Duration(a.PresignExpirySec) * time.Second
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level    string
	Timezone string
}

// Location resolves the configured time zone, falling back to UTC.
func (l LogConfig) Location() *time.Location {
	loc, err := time.LoadLocation(l.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	Port string
	// UploadLimitMB caps the request body size of uploads.
	UploadLimitMB int
	Database DatabaseConfig
	MinIO    MinIOConfig
	Archive  ArchiveConfig
	Log      LogConfig
}

// Load reads configuration from environment variables.
// A .env file is picked up by importing _ "github.com/joho/godotenv/autoload"
// in main; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		Port:          getEnv("PORT", "8080"),
		UploadLimitMB: getEnvInt("UPLOAD_LIMIT_MB", 64),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			Region:    getEnv("MINIO_REGION", "us-east-1"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Archive: ArchiveConfig{
			Prefix:           getEnv("ARCHIVE_PREFIX", "archive"),
			PresignExpirySec: getEnvInt("PRESIGN_EXPIRY_SEC", 900),
		},
		Log: LogConfig{
			Level:    getEnv("LOG_LEVEL", "info"),
			Timezone: getEnv("APP_TIMEZONE", "UTC"),
		},
	}
}

// UploadLimitBytes returns UploadLimitMB in bytes.
func (c *AppConfig) UploadLimitBytes() int {
	return c.UploadLimitMB << 20
}

// Validate reports every setting the server cannot start without.
func (c *AppConfig) Validate() error {
	var errs []error
	if _, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Errorf("PORT must be numeric, got %q", c.Port))
	}
	if c.UploadLimitMB <= 0 {
		errs = append(errs, errors.New("UPLOAD_LIMIT_MB must be positive"))
	}
	required := []struct{ env, value string }{
		{"DB_HOST", c.Database.Host},
		{"DB_USER", c.Database.User},
		{"DB_NAME", c.Database.Name},
		{"MINIO_ENDPOINT", c.MinIO.Endpoint},
		{"MINIO_BUCKET", c.MinIO.Bucket},
	}
	for _, r := range required {
		if r.value == "" {
			errs = append(errs, fmt.Errorf("%s is required", r.env))
		}
	}
	if exp := c.Archive.PresignExpiry(); exp <= 0 || exp > maxPresignExpiry {
		errs = append(errs, fmt.Errorf("PRESIGN_EXPIRY_SEC must be between 1 and %d", int(maxPresignExpiry.Seconds())))
	}
	return errors.Join(errs...)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
