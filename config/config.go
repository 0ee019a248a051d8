package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreDriverMemory = "memory"
	StoreDriverMySQL  = "mysql"
)

type Config struct {
	App    AppConfig
	HTTP   ServerConfig
	Store  StoreConfig
	MySQL  MySQLConfig
	Log    LogConfig
	Client ClientConfig
	Jobs   JobsConfig
}

type AppConfig struct {
	ServiceName string
}

type ServerConfig struct {
	Host string
	Port string
}

type StoreConfig struct {
	Driver string
}

type MySQLConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type LogConfig struct {
	Level string
}

// ClientConfig points the CLI client commands at a running instance.
type ClientConfig struct {
	APIBaseURL string
	Timeout    time.Duration
}

type JobsConfig struct {
	ExpiryReportInterval time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			ServiceName: getEnv("APP_SERVICE_NAME", "subscription-service"),
		},
		HTTP: ServerConfig{
			Host: getEnv("HTTP_HOST", "0.0.0.0"),
			Port: getEnv("HTTP_PORT", "8080"),
		},
		Store: StoreConfig{
			Driver: getEnv("STORE_DRIVER", StoreDriverMemory),
		},
		MySQL: MySQLConfig{
			DSN:             os.Getenv("MYSQL_DSN"),
			MaxOpenConns:    getIntEnv("MYSQL_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getIntEnv("MYSQL_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getDurationEnv("MYSQL_CONN_MAX_LIFETIME_MINUTES", 30*time.Minute),
		},
		Log: LogConfig{Level: getEnv("LOG_LEVEL", "info")},
		Client: ClientConfig{
			APIBaseURL: getEnv("SUBSCRIPTIONS_API_URL", "http://localhost:8080"),
			Timeout:    getDurationEnv("SUBSCRIPTIONS_API_TIMEOUT_MINUTES", time.Minute),
		},
		Jobs: JobsConfig{
			ExpiryReportInterval: getDurationEnv("EXPIRY_REPORT_INTERVAL_MINUTES", time.Hour),
		},
	}

	switch cfg.Store.Driver {
	case StoreDriverMemory:
	case StoreDriverMySQL:
		if cfg.MySQL.DSN == "" {
			return nil, fmt.Errorf("MYSQL_DSN environment variable is required when STORE_DRIVER=%s", StoreDriverMySQL)
		}
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.Store.Driver)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if minutes, err := strconv.Atoi(value); err == nil {
			return time.Duration(minutes) * time.Minute
		}
	}
	return defaultValue
}
