package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the client and the local stub.
type Config struct {
	App     AppConfig
	API     APIConfig
	Storage StorageConfig
	Redis   RedisConfig
	Logger  LoggerConfig
	Stub    StubConfig
}

// AppConfig identifies the running binary.
type AppConfig struct {
	Name string
	Env  string
}

// APIConfig points the client at the remote API.
type APIConfig struct {
	BaseURL               string
	RequestTimeoutSeconds int
}

// StorageConfig selects the session store backend.
type StorageConfig struct {
	Backend string // file | memory | redis
	Path    string
}

// RedisConfig holds Redis connection values for the redis backend.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// StubConfig controls the local stub API server.
type StubConfig struct {
	Host                   string
	Port                   string
	JWTSecret              string
	AccessTokenTTLSeconds  int
	RefreshTokenTTLMinutes int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name: getEnv("APP_NAME", "tutorhub"),
			Env:  getEnv("APP_ENV", "development"),
		},
		API: APIConfig{
			BaseURL:               getEnv("TUTORHUB_API_BASE_URL", "http://127.0.0.1:8080/api"),
			RequestTimeoutSeconds: getEnvAsInt("TUTORHUB_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Storage: StorageConfig{
			Backend: getEnv("TUTORHUB_STORAGE", "file"),
			Path:    getEnv("TUTORHUB_STORAGE_PATH", defaultStoragePath()),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Stub: StubConfig{
			Host:                   getEnv("STUB_HOST", "0.0.0.0"),
			Port:                   getEnv("STUB_PORT", "8080"),
			JWTSecret:              getEnv("STUB_JWT_SECRET", "dev-secret"),
			AccessTokenTTLSeconds:  getEnvAsInt("STUB_ACCESS_TTL_SECONDS", 900),
			RefreshTokenTTLMinutes: getEnvAsInt("STUB_REFRESH_TTL_MINUTES", 10080),
		},
	}

	return cfg, nil
}

// RequestTimeout returns the configured HTTP timeout duration.
func (a APIConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Addr returns the stub's bind address.
func (s StubConfig) Addr() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

// AccessTokenTTL returns the stub access-token lifetime.
func (s StubConfig) AccessTokenTTL() time.Duration {
	return time.Duration(s.AccessTokenTTLSeconds) * time.Second
}

// RefreshTokenTTL returns the stub refresh-token lifetime.
func (s StubConfig) RefreshTokenTTL() time.Duration {
	return time.Duration(s.RefreshTokenTTLMinutes) * time.Minute
}

func defaultStoragePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "tutorhub-session.json"
	}
	return filepath.Join(dir, "tutorhub", "session.json")
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
