package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"

	"huay/database"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// Store selects the persistence backend: "postgres" or "memory"
	Store string

	// NATS configuration; empty disables event publishing
	NATSServers string

	// Account configuration
	StartingBalance int64

	// Betting configuration
	MinStake int64

	// Market schedule
	Timezone     string // IANA timezone of the market's civil clock
	MorningClose string // "15:04"
	EveningClose string // "15:04"

	// ReconcileIntervalMinutes is how often unpaid win credits are retried
	ReconcileIntervalMinutes int

	// Environment is "development", "production" or "test"
	Environment string
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
		var err error
		instance, err = load()
		if err != nil {
			if os.Getenv("GO_TEST") == "1" || os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
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

		Store: getEnvWithDefault("STORE", "postgres"),

		NATSServers: os.Getenv("NATS_SERVERS"),

		StartingBalance: 0,
		MinStake:        1,

		Timezone:     getEnvWithDefault("MARKET_TIMEZONE", "Asia/Bangkok"),
		MorningClose: getEnvWithDefault("MORNING_CLOSE", "12:00"),
		EveningClose: getEnvWithDefault("EVENING_CLOSE", "16:30"),

		ReconcileIntervalMinutes: 5,

		Environment: os.Getenv("ENVIRONMENT"),
	}

	if balance := os.Getenv("STARTING_BALANCE"); balance != "" {
		if parsed, err := strconv.ParseInt(balance, 10, 64); err == nil {
			config.StartingBalance = parsed
		}
	}
	if stake := os.Getenv("MIN_STAKE"); stake != "" {
		if parsed, err := strconv.ParseInt(stake, 10, 64); err == nil {
			config.MinStake = parsed
		}
	}
	if interval := os.Getenv("RECONCILE_INTERVAL_MINUTES"); interval != "" {
		if parsed, err := strconv.Atoi(interval); err == nil {
			config.ReconcileIntervalMinutes = parsed
		}
	}

	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		if config.Store != "postgres" && config.Store != "memory" {
			return nil, fmt.Errorf("STORE must be postgres or memory, got %q", config.Store)
		}
		if config.Store == "postgres" && config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for the postgres store")
		}
	}

	return config, nil
}

// getEnvWithDefault returns the environment variable value or a default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:              "test",
		Store:                    "memory",
		StartingBalance:          0,
		MinStake:                 1,
		Timezone:                 "Asia/Bangkok",
		MorningClose:             "12:00",
		EveningClose:             "16:30",
		ReconcileIntervalMinutes: 5,
	}
}
