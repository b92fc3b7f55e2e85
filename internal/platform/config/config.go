package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr                     string
	DatabaseURL              string
	Environment              string
	RunMigrations            bool
	MigrationsDir            string
	RunSeed                  bool
	SeedDepartments          []string
	DataEncryptionKey        string
	AuthEnabled              bool
	JWTSecret                string
	OperatorEmail            string
	OperatorPassword         string
	TokenTTL                 time.Duration
	MaxBodyBytes             int64
	MaxUploadBytes           int64
	RateLimitPerMinute       int
	ImportRateLimitPerMinute int
	ImportErrorLimit         int
	MetricsEnabled           bool
	LogLevel                 string
	WorkdayStart             string
	RequestTimeout           time.Duration
	PDFFontPath              string
}

// Load reads the environment, merging a .env file from the working directory when present.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("dotenv load failed", "err", err)
	}

	return Config{
		Addr:                     getEnv("APP_ADDR", ":8080"),
		DatabaseURL:              getEnv("DATABASE_URL", ""),
		Environment:              getEnv("APP_ENV", "development"),
		RunMigrations:            getEnvBool("RUN_MIGRATIONS", true),
		MigrationsDir:            getEnv("MIGRATIONS_DIR", "migrations"),
		RunSeed:                  getEnvBool("RUN_SEED", true),
		SeedDepartments:          getEnvList("SEED_DEPARTMENTS"),
		DataEncryptionKey:        getEnv("DATA_ENCRYPTION_KEY", ""),
		AuthEnabled:              getEnvBool("AUTH_ENABLED", false),
		JWTSecret:                getEnv("JWT_SECRET", ""),
		OperatorEmail:            getEnv("OPERATOR_EMAIL", ""),
		OperatorPassword:         getEnv("OPERATOR_PASSWORD", ""),
		TokenTTL:                 getEnvDuration("TOKEN_TTL", 12*time.Hour),
		MaxBodyBytes:             int64(getEnvInt("MAX_BODY_BYTES", 1048576)),
		MaxUploadBytes:           int64(getEnvInt("MAX_UPLOAD_BYTES", 20*1048576)),
		RateLimitPerMinute:       getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		ImportRateLimitPerMinute: getEnvInt("IMPORT_RATE_LIMIT_PER_MINUTE", 6),
		ImportErrorLimit:         getEnvInt("IMPORT_ERROR_LIMIT", 10),
		MetricsEnabled:           getEnvBool("METRICS_ENABLED", true),
		LogLevel:                 getEnv("LOG_LEVEL", "info"),
		WorkdayStart:             getEnv("WORKDAY_START", "08:00"),
		RequestTimeout:           getEnvDuration("REQUEST_TIMEOUT", 60*time.Second),
		PDFFontPath:              getEnv("PDF_FONT_PATH", ""),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.AuthEnabled {
		if strings.TrimSpace(c.JWTSecret) == "" {
			return fmt.Errorf("JWT_SECRET is required when AUTH_ENABLED is true")
		}
		if strings.TrimSpace(c.OperatorEmail) == "" || c.OperatorPassword == "" {
			return fmt.Errorf("OPERATOR_EMAIL and OPERATOR_PASSWORD are required when AUTH_ENABLED is true")
		}
	}
	if c.Environment == "production" {
		if !c.AuthEnabled {
			return fmt.Errorf("AUTH_ENABLED must be true in production")
		}
		if strings.TrimSpace(c.DataEncryptionKey) == "" {
			return fmt.Errorf("DATA_ENCRYPTION_KEY must be set in production for encryption at rest")
		}
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.MaxUploadBytes < c.MaxBodyBytes {
		return fmt.Errorf("MAX_UPLOAD_BYTES must not be smaller than MAX_BODY_BYTES")
	}
	if c.RateLimitPerMinute <= 0 || c.ImportRateLimitPerMinute <= 0 {
		return fmt.Errorf("rate limits must be positive")
	}
	if c.ImportErrorLimit <= 0 {
		return fmt.Errorf("IMPORT_ERROR_LIMIT must be positive")
	}
	if _, err := time.Parse("15:04", c.WorkdayStart); err != nil {
		return fmt.Errorf("WORKDAY_START must be HH:MM: %w", err)
	}
	if c.PDFFontPath != "" {
		if _, err := os.Stat(c.PDFFontPath); err != nil {
			return fmt.Errorf("PDF_FONT_PATH is not readable: %w", err)
		}
	}
	return nil
}
