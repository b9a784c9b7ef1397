package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// DatabaseConfig holds PostgreSQL database connection settings.
// The revision journal falls back to memory when neither URL nor Host is set.
type DatabaseConfig struct {
	// URL, when set, is used as the DSN verbatim and the discrete fields are ignored.
	URL                string
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
	ConnectAttempts    int
}

// Enabled reports whether a database was configured.
func (d DatabaseConfig) Enabled() bool {
	return d.URL != "" || d.Host != ""
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// StorageConfig selects the byte storage backend for uploaded files.
type StorageConfig struct {
	Driver    string // "local" or "minio"
	UploadDir string
}

// EditorConfig describes the embedded WOPI client (Collabora Online).
type EditorConfig struct {
	URL        string
	Lang       string
	Permission string
	ReadyGrace time.Duration
}

// IdentityConfig holds the fixed identity reported in CheckFileInfo.
type IdentityConfig struct {
	OwnerID       string
	UserID        string
	UserName      string
	UserCanWrite  bool
	DisablePrint  bool
	DisableExport bool
	DisableCopy   bool
}

// GeminiConfig configures the generative-text collaborator.
type GeminiConfig struct {
	APIKey     string
	Model      string
	Timeout    time.Duration
	MaxRetries int
}

// AssistConfig bounds the /assist endpoints.
type AssistConfig struct {
	RatePerMin int
	Burst      int
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost        string
	Port           string
	Timezone       string
	LogLevel       string
	BodyLimitMB    int
	AllowOrigins   string
	RequestTimeout time.Duration
	Storage        StorageConfig
	Editor         EditorConfig
	Identity       IdentityConfig
	Database       DatabaseConfig
	MinIO          MinIOConfig
	Gemini         GeminiConfig
	Assist         AssistConfig
}

// Location resolves Timezone, falling back to UTC.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:        strings.TrimRight(getEnv("APP_HOST", "http://localhost:8080"), "/"),
		Port:           getEnv("PORT", "8080"),
		Timezone:       getEnv("APP_TIMEZONE", "UTC"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		BodyLimitMB:    getEnvInt("BODY_LIMIT_MB", 50),
		AllowOrigins:   getEnv("CORS_ALLOW_ORIGINS", "*"),
		RequestTimeout: getEnvDuration("WOPI_REQUEST_TIMEOUT", 30*time.Second),
		Storage: StorageConfig{
			Driver:    getEnv("STORAGE_DRIVER", "local"),
			UploadDir: getEnv("UPLOAD_DIR", "uploads"),
		},
		Editor: EditorConfig{
			URL:        strings.TrimRight(getEnv("EDITOR_URL", "http://localhost:9980"), "/"),
			Lang:       getEnv("EDITOR_LANG", "en"),
			Permission: getEnv("EDITOR_PERMISSION", "edit"),
			ReadyGrace: getEnvDuration("EDITOR_READY_GRACE", 700*time.Millisecond),
		},
		Identity: IdentityConfig{
			OwnerID:       getEnv("WOPI_OWNER_ID", "user123"),
			UserID:        getEnv("WOPI_USER_ID", "user123"),
			UserName:      getEnv("WOPI_USER_NAME", "John Doe"),
			UserCanWrite:  getEnvBool("WOPI_USER_CAN_WRITE", true),
			DisablePrint:  getEnvBool("WOPI_DISABLE_PRINT", false),
			DisableExport: getEnvBool("WOPI_DISABLE_EXPORT", false),
			DisableCopy:   getEnvBool("WOPI_DISABLE_COPY", false),
		},
		Database: DatabaseConfig{
			URL:                getEnv("DATABASE_URL", ""),
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
			ConnectAttempts:    getEnvInt("DB_CONNECT_ATTEMPTS", 3),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Gemini: GeminiConfig{
			APIKey:     getEnv("GEMINI_API_KEY", ""),
			Model:      getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
			Timeout:    getEnvDuration("GEMINI_TIMEOUT", 60*time.Second),
			MaxRetries: getEnvInt("GEMINI_MAX_RETRIES", 2),
		},
		Assist: AssistConfig{
			RatePerMin: getEnvInt("ASSIST_RATE_PER_MIN", 30),
			Burst:      getEnvInt("ASSIST_BURST", 5),
		},
	}
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

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil && d > 0 {
			return d
		}
	}
	return def
}
