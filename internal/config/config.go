package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Storage  StorageConfig
	Auth     AuthConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	FeedLogFilePath    string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	SessionStore       string // "memory" or "redis"
	SessionCookieName  string
	SessionTTL         time.Duration
	StrictFilters      bool
	TracingEnabled     bool
}

type DatabaseConfig struct {
	Driver      string // "sqlite" or "postgres"
	Connection  string
	AutoMigrate bool
	LogLevel    string // "silent", "error", "warn", "info"
}

type StorageConfig struct {
	Driver            string // "local" or "s3"
	UploadDir         string
	ProcessedDir      string
	MaxUploadBytes    int64
	AllowedExtensions []string
	JPEGQuality       int
	S3                S3Config
}

type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKey       string
	SecretKey       string
	UploadPrefix    string
	ProcessedPrefix string
}

type AuthConfig struct {
	// AdminJWTSecret guards history clearing when non-empty.
	AdminJWTSecret string
}

const DefaultMaxUploadBytes = 16 * 1024 * 1024

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "5000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			FeedLogFilePath:    getEnv("FEED_LOG_FILE_PATH", "logs/feed.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
			SessionStore:       getEnv("SESSION_STORE", "memory"),
			SessionCookieName:  getEnv("SESSION_COOKIE_NAME", "image_session"),
			SessionTTL:         getEnvAsDuration("SESSION_TTL", 31*24*time.Hour),
			StrictFilters:      getEnvAsBool("STRICT_FILTERS", false),
			TracingEnabled:     getEnvAsBool("OTEL_ENABLED", false),
		},
		Database: DatabaseConfig{
			Driver:      getEnv("DB_DRIVER", "sqlite"),
			Connection:  getEnv("DB_CONNECTION_STRING", "image_processing.db"),
			AutoMigrate: getEnvAsBool("DB_AUTO_MIGRATE", true),
			LogLevel:    getEnv("DB_LOG_LEVEL", "warn"),
		},
		Storage: StorageConfig{
			Driver:            getEnv("STORAGE_DRIVER", "local"),
			UploadDir:         getEnv("UPLOAD_FOLDER", "static/uploads"),
			ProcessedDir:      getEnv("PROCESSED_FOLDER", "static/processed"),
			MaxUploadBytes:    getEnvAsInt64("MAX_CONTENT_LENGTH", DefaultMaxUploadBytes),
			AllowedExtensions: getEnvAsList("ALLOWED_EXTENSIONS", []string{"png", "jpg", "jpeg", "gif", "bmp"}),
			JPEGQuality:       getEnvAsInt("JPEG_QUALITY", 95),
			S3: S3Config{
				Bucket:          getEnv("S3_BUCKET", ""),
				Region:          getEnv("S3_REGION", "us-east-1"),
				Endpoint:        getEnv("S3_BASE_ENDPOINT", ""),
				AccessKey:       getEnv("S3_ACCESS_KEY", ""),
				SecretKey:       getEnv("S3_SECRET_KEY", ""),
				UploadPrefix:    getEnv("S3_UPLOAD_PREFIX", "uploads/"),
				ProcessedPrefix: getEnv("S3_PROCESSED_PREFIX", "processed/"),
			},
		},
		Auth: AuthConfig{
			AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),
		},
	}
}

// IsAllowedExtension reports whether filename carries one of the configured
// extensions, compared case-insensitively.
func (s StorageConfig) IsAllowedExtension(filename string) bool {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 {
		return false
	}
	ext := strings.ToLower(filename[idx+1:])
	for _, allowed := range s.AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsInt64(key string, fallback int64) int64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseInt(strValue, 10, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsList(key string, fallback []string) []string {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(strValue, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
