package infra

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// maxWindowDays keeps the dashboard window short enough that no two days in
// it share a "D/M" label.
const maxWindowDays = 300

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv              string
	Port                string
	DatabaseURL         string
	JWTSecret           string
	TokenTTL            time.Duration
	ResetTokenTTL       time.Duration
	StoragePath         string
	StorageBaseURL      string
	MaxUploadBytes      int64
	GeoIPDBPath         string
	CORSAllowedOrigins  []string
	HTTPReadTimeout     time.Duration
	HTTPWriteTimeout    time.Duration
	HTTPIdleTimeout     time.Duration
	RateLimitPerMin     int
	DashboardPastDays   int
	DashboardFutureDays int
	MQTTBroker          string
	MQTTUsername        string
	MQTTPassword        string
	MQTTTopicPrefix     string
	WorkerPollInterval  time.Duration
	WorkerMetricsAddr   string
	DBMaxConns          int32
	DBMinConns          int32
	SQLSlowThreshold    time.Duration
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	port := getEnv("PORT", "8080")
	cfg := &Config{
		AppEnv:              getEnv("APP_ENV", "development"),
		Port:                port,
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		TokenTTL:            time.Hour * time.Duration(getEnvInt("TOKEN_TTL_HOURS", 24)),
		ResetTokenTTL:       time.Minute * time.Duration(getEnvInt("RESET_TOKEN_TTL_MINUTES", 30)),
		StoragePath:         getEnv("STORAGE_PATH", "./storage"),
		StorageBaseURL:      getEnv("STORAGE_BASE_URL", "http://localhost:"+port+"/static"),
		MaxUploadBytes:      int64(getEnvInt("MAX_UPLOAD_BYTES", 5<<20)),
		GeoIPDBPath:         os.Getenv("GEOIP_DB_PATH"),
		CORSAllowedOrigins:  getEnvList("CORS_ALLOWED_ORIGINS"),
		HTTPReadTimeout:     time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:    time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:     time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:     getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
		DashboardPastDays:   getEnvInt("DASHBOARD_PAST_DAYS", 4),
		DashboardFutureDays: getEnvInt("DASHBOARD_FUTURE_DAYS", 2),
		MQTTBroker:          os.Getenv("MQTT_BROKER"),
		MQTTUsername:        os.Getenv("MQTT_USERNAME"),
		MQTTPassword:        os.Getenv("MQTT_PASSWORD"),
		MQTTTopicPrefix:     getEnv("MQTT_TOPIC_PREFIX", "rakta"),
		WorkerPollInterval:  time.Second * time.Duration(getEnvInt("WORKER_POLL_SECONDS", 5)),
		WorkerMetricsAddr:   getEnv("WORKER_METRICS_ADDR", ":9091"),
		DBMaxConns:          int32(getEnvInt("DB_MAX_CONNS", 10)),
		DBMinConns:          int32(getEnvInt("DB_MIN_CONNS", 0)),
		SQLSlowThreshold:    time.Millisecond * time.Duration(getEnvInt("SQL_SLOW_MS", 250)),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	if cfg.DashboardPastDays < 0 || cfg.DashboardFutureDays < 0 {
		return nil, fmt.Errorf("dashboard window days must not be negative")
	}
	if cfg.DashboardPastDays+cfg.DashboardFutureDays+1 > maxWindowDays {
		return nil, fmt.Errorf("dashboard window exceeds %d days", maxWindowDays)
	}

	if cfg.DBMaxConns < 1 || cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
		return nil, fmt.Errorf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS (%d)", cfg.DBMaxConns)
	}

	if _, err := url.Parse(cfg.StorageBaseURL); err != nil {
		return nil, fmt.Errorf("STORAGE_BASE_URL is invalid: %w", err)
	}
	cfg.StorageBaseURL = strings.TrimRight(cfg.StorageBaseURL, "/")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvList(key string) []string {
	raw := os.Getenv(key)
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
