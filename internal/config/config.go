package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Store backends.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Slack    SlackConfig
	View     ViewConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CORSOrigins  []string
}

// StoreConfig selects and tunes the task repository backend.
type StoreConfig struct {
	Backend string
	Seed    bool          // load the demo data set on startup (memory backend only)
	Latency time.Duration // simulated latency for the memory backend
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string //nolint:gosec // G117: DB connection config
	DBName   string
	SSLMode  string
	MaxConns int
}

// RedisConfig holds Redis connection settings. An empty Addr disables
// the event fan-out and the WebSocket stream.
type RedisConfig struct {
	Addr     string
	Password string //nolint:gosec // G117: Redis connection config
	DB       int
}

// SlackConfig holds Slack notification settings. An empty BotToken
// disables Slack notifications.
type SlackConfig struct {
	BotToken string
	Channel  string
}

// ViewConfig holds collection view defaults.
type ViewConfig struct {
	ItemsPerPage int
}

// Load reads configuration from environment variables.
// Defaults are safe for local development only.
func Load() (*Config, error) {
	dbPort, err := getEnvInt("TASKHUB_DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	dbMaxConns, err := getEnvInt("TASKHUB_DB_MAX_CONNS", 25)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	redisDB, err := getEnvInt("TASKHUB_REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	readTimeout, err := getEnvDuration("TASKHUB_SERVER_READ_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	writeTimeout, err := getEnvDuration("TASKHUB_SERVER_WRITE_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	seed, err := getEnvBool("TASKHUB_STORE_SEED", true)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	latency, err := getEnvDuration("TASKHUB_STORE_LATENCY", 0)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	itemsPerPage, err := getEnvInt("TASKHUB_ITEMS_PER_PAGE", 10)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	corsOrigins := getEnvList("TASKHUB_CORS_ORIGINS", []string{"http://localhost:5173"})

	cfg := &Config{
		Server: ServerConfig{
			Addr:         getEnv("TASKHUB_SERVER_ADDR", ":8080"),
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			CORSOrigins:  corsOrigins,
		},
		Store: StoreConfig{
			Backend: getEnv("TASKHUB_STORE_BACKEND", BackendMemory),
			Seed:    seed,
			Latency: latency,
		},
		Database: DatabaseConfig{
			Host:     getEnv("TASKHUB_DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("TASKHUB_DB_USER", "taskhub"),
			Password: getEnv("TASKHUB_DB_PASSWORD", ""),
			DBName:   getEnv("TASKHUB_DB_NAME", "taskhub_dev"),
			SSLMode:  getEnv("TASKHUB_DB_SSLMODE", "disable"),
			MaxConns: dbMaxConns,
		},
		Redis: RedisConfig{
			Addr:     getEnv("TASKHUB_REDIS_ADDR", ""),
			Password: getEnv("TASKHUB_REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Slack: SlackConfig{
			BotToken: getEnv("TASKHUB_SLACK_BOT_TOKEN", ""),
			Channel:  getEnv("TASKHUB_SLACK_CHANNEL", "#tasks"),
		},
		View: ViewConfig{
			ItemsPerPage: itemsPerPage,
		},
	}

	err = cfg.validate()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	return cfg, nil
}

// validate checks required fields and value bounds.
func (c *Config) validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendPostgres:
	default:
		return fmt.Errorf("TASKHUB_STORE_BACKEND must be %q or %q, got %q",
			BackendMemory, BackendPostgres, c.Store.Backend)
	}

	if c.Store.Backend == BackendPostgres && c.Database.SSLMode == "disable" {
		log.Warn().Msg("TASKHUB_DB_SSLMODE=disable is insecure for production; set to 'require' or 'verify-full'")
	}

	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("TASKHUB_DB_PORT must be 1-65535, got %d", c.Database.Port)
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("TASKHUB_DB_MAX_CONNS must be >= 1, got %d", c.Database.MaxConns)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("TASKHUB_SERVER_READ_TIMEOUT must be positive, got %s", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("TASKHUB_SERVER_WRITE_TIMEOUT must be positive, got %s", c.Server.WriteTimeout)
	}
	if c.Store.Latency < 0 {
		return fmt.Errorf("TASKHUB_STORE_LATENCY must not be negative, got %s", c.Store.Latency)
	}
	if c.View.ItemsPerPage < 1 {
		return fmt.Errorf("TASKHUB_ITEMS_PER_PAGE must be >= 1, got %d", c.View.ItemsPerPage)
	}
	if c.Slack.BotToken != "" && c.Slack.Channel == "" {
		return errors.New("TASKHUB_SLACK_CHANNEL is required when a bot token is set")
	}

	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as int: %w", key, v, err)
	}
	return n, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("parsing %s=%q as bool: %w", key, v, err)
	}
	return b, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as duration: %w", key, v, err)
	}
	return d, nil
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
