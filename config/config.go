package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"betledger/database"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// HTTP API configuration
	HTTPAddr           string
	MetricsAddr        string
	JWTSecret          string
	RateLimitRPS       float64
	RateLimitBurst     int
	CORSAllowedOrigins []string

	// Ledger defaults
	DefaultCurrency string

	// Logging
	LogLevel      string
	LogFormat     string // "text" or "json"
	LogFile       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int

	// Event sinks; each is disabled when its address is empty
	RedisAddr        string
	RedisChannel     string
	KafkaBrokers     string
	KafkaTopic       string
	DiscordToken     string
	DiscordChannelID string

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	if instance != nil {
		return instance
	}

	once.Do(func() {
		// .env is optional and never overrides variables already set
		_ = godotenv.Load()

		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// SetTestConfig replaces the global configuration, for tests only
func SetTestConfig(cfg *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = cfg
}

// ResetConfig clears the global configuration so the next Get reloads it
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig returns a configuration suitable for tests
func NewTestConfig() *Config {
	return &Config{
		HTTPAddr:        ":0",
		MetricsAddr:     ":0",
		JWTSecret:       "test-secret",
		RateLimitRPS:    1000,
		RateLimitBurst:  1000,
		DefaultCurrency: "BRL",
		LogLevel:        "debug",
		LogFormat:       "text",
		RedisChannel:    "betledger.events",
		KafkaTopic:      "betledger.events",
		Environment:     "test",
	}
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		HTTPAddr:           getEnvWithDefault("HTTP_ADDR", ":8080"),
		MetricsAddr:        getEnvWithDefault("METRICS_ADDR", ":9095"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		RateLimitRPS:       20,
		RateLimitBurst:     40,
		CORSAllowedOrigins: splitList(getEnvWithDefault("CORS_ALLOWED_ORIGINS", "*")),

		DefaultCurrency: strings.ToUpper(getEnvWithDefault("DEFAULT_CURRENCY", "BRL")),

		LogLevel:      getEnvWithDefault("LOG_LEVEL", "info"),
		LogFormat:     getEnvWithDefault("LOG_FORMAT", "text"),
		LogFile:       os.Getenv("LOG_FILE"),
		LogMaxSizeMB:  100,
		LogMaxBackups: 5,
		LogMaxAgeDays: 30,

		RedisAddr:        os.Getenv("REDIS_ADDR"),
		RedisChannel:     getEnvWithDefault("REDIS_CHANNEL", "betledger.events"),
		KafkaBrokers:     os.Getenv("KAFKA_BROKERS"),
		KafkaTopic:       getEnvWithDefault("KAFKA_TOPIC", "betledger.events"),
		DiscordToken:     os.Getenv("DISCORD_TOKEN"),
		DiscordChannelID: os.Getenv("DISCORD_CHANNEL_ID"),

		Environment: getEnvWithDefault("ENVIRONMENT", "development"),
	}

	if rps := os.Getenv("RATE_LIMIT_RPS"); rps != "" {
		parsed, err := strconv.ParseFloat(rps, 64)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("RATE_LIMIT_RPS must be a positive number, got %q", rps)
		}
		config.RateLimitRPS = parsed
	}
	if burst := os.Getenv("RATE_LIMIT_BURST"); burst != "" {
		parsed, err := strconv.Atoi(burst)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("RATE_LIMIT_BURST must be a positive integer, got %q", burst)
		}
		config.RateLimitBurst = parsed
	}
	if size := os.Getenv("LOG_MAX_SIZE_MB"); size != "" {
		if parsed, err := strconv.Atoi(size); err == nil && parsed > 0 {
			config.LogMaxSizeMB = parsed
		}
	}
	if backups := os.Getenv("LOG_MAX_BACKUPS"); backups != "" {
		if parsed, err := strconv.Atoi(backups); err == nil && parsed >= 0 {
			config.LogMaxBackups = parsed
		}
	}
	if age := os.Getenv("LOG_MAX_AGE_DAYS"); age != "" {
		if parsed, err := strconv.Atoi(age); err == nil && parsed >= 0 {
			config.LogMaxAgeDays = parsed
		}
	}

	if config.Environment != "test" {
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		if config.JWTSecret == "" {
			return nil, fmt.Errorf("JWT_SECRET is required")
		}
	}

	if config.DiscordToken != "" && config.DiscordChannelID == "" {
		return nil, fmt.Errorf("DISCORD_CHANNEL_ID is required when DISCORD_TOKEN is set")
	}

	return config, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
