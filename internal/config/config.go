package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds application configuration
type Config struct {
	DatabaseURL      string `yaml:"database_url"`
	ServerPort       string `yaml:"server_port"`
	BaseURL          string `yaml:"base_url"`
	FrontendURL      string `yaml:"frontend_url"`
	PlannerAppURL    string `yaml:"planner_app_url"`
	PlannerRemoteURL string `yaml:"planner_remote_url"`
	EnableHSTS       bool   `yaml:"enable_hsts"`
	RedisURL         string `yaml:"redis_url"`
	RateLimit        string `yaml:"rate_limit"`
	RabbitMQURL      string `yaml:"rabbitmq_url"`
	RabbitMQPrefetch int    `yaml:"rabbitmq_prefetch"`
	WorkerDebugMode  bool   `yaml:"worker_debug_mode"`
	ServerDebugMode  bool   `yaml:"server_debug_mode"`
	OTELEnabled      bool   `yaml:"otel_enabled"`
	OTELEndpoint     string `yaml:"otel_endpoint"`
}

// Load loads configuration from environment variables. When CONFIG_FILE
// points at a YAML file, its values are read first and the environment
// overrides them.
func Load() (*Config, error) {
	cfg := &Config{
		ServerPort:       "8080",
		BaseURL:          "http://localhost:8080",
		FrontendURL:      "http://localhost:3000",
		PlannerAppURL:    "http://localhost:3000/planner",
		RedisURL:         "redis://localhost:6379/0",
		RateLimit:        "60-M",
		RabbitMQPrefetch: 1,
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.ServerPort = getEnv("SERVER_PORT", cfg.ServerPort)
	cfg.BaseURL = getEnv("BASE_URL", cfg.BaseURL)
	cfg.FrontendURL = getEnv("FRONTEND_URL", cfg.FrontendURL)
	cfg.PlannerAppURL = getEnv("PLANNER_APP_URL", cfg.PlannerAppURL)
	cfg.PlannerRemoteURL = getEnv("PLANNER_REMOTE_URL", cfg.PlannerRemoteURL)
	cfg.EnableHSTS = getEnvBool("ENABLE_HSTS", cfg.EnableHSTS)
	cfg.RedisURL = getEnv("REDIS_URL", cfg.RedisURL)
	cfg.RateLimit = getEnv("RATE_LIMIT", cfg.RateLimit)
	cfg.RabbitMQURL = getEnv("RABBITMQ_URL", cfg.RabbitMQURL)
	cfg.RabbitMQPrefetch = getEnvInt("RABBITMQ_PREFETCH", cfg.RabbitMQPrefetch)
	cfg.WorkerDebugMode = getEnvBool("WORKER_DEBUG_MODE", cfg.WorkerDebugMode)
	cfg.ServerDebugMode = getEnvBool("SERVER_DEBUG_MODE", cfg.ServerDebugMode)
	cfg.OTELEnabled = getEnvBool("OTEL_ENABLED", cfg.OTELEnabled)
	cfg.OTELEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.OTELEndpoint)

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.RabbitMQURL == "" {
		return nil, fmt.Errorf("RABBITMQ_URL is required for job queueing (reward notifications require RabbitMQ)")
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
