package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	Enhance   EnhanceConfig
	Image     ImageConfig
	Readiness ReadinessConfig
	Queue     QueueConfig
	App       AppConfig
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// EnhanceConfig configures the prompt enhancement (LLM completion) client.
type EnhanceConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	// RPS caps outbound enhancement calls; 0 disables the limiter.
	RPS float64
}

// ImageConfig configures image-service URL construction.
type ImageConfig struct {
	BaseURL string
	Width   int
	Height  int
	Model   string
	Enhance bool
}

// ReadinessConfig configures the image readiness poller.
type ReadinessConfig struct {
	MaxAttempts  int
	Interval     time.Duration
	MinDimension int
}

// QueueConfig configures how long queue items linger after a terminal state.
type QueueConfig struct {
	Retention time.Duration
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "promptpix"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			TokenTTL:  time.Duration(getEnvAsInt("TOKEN_TTL_HOURS", 72)) * time.Hour,
		},
		Enhance: EnhanceConfig{
			BaseURL: getEnv("ENHANCE_BASE_URL", "https://api.groq.com/openai/v1"),
			APIKey:  getEnv("ENHANCE_API_KEY", ""),
			Model:   getEnv("ENHANCE_MODEL", "llama-3.1-8b-instant"),
			RPS:     getEnvAsFloat("ENHANCE_RPS", 5),
		},
		Image: ImageConfig{
			BaseURL: getEnv("IMAGE_BASE_URL", "https://image.pollinations.ai"),
			Width:   getEnvAsInt("IMAGE_WIDTH", 1920),
			Height:  getEnvAsInt("IMAGE_HEIGHT", 1920),
			Model:   getEnv("IMAGE_MODEL", "flux"),
			Enhance: getEnvAsBool("IMAGE_ENHANCE", true),
		},
		Readiness: ReadinessConfig{
			MaxAttempts:  getEnvAsInt("READY_MAX_ATTEMPTS", 40),
			Interval:     time.Duration(getEnvAsInt("READY_INTERVAL_SECONDS", 3)) * time.Second,
			MinDimension: getEnvAsInt("READY_MIN_DIMENSION", 1000),
		},
		Queue: QueueConfig{
			Retention: time.Duration(getEnvAsInt("QUEUE_RETENTION_SECONDS", 8)) * time.Second,
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if c.Enhance.APIKey == "" {
		return fmt.Errorf("ENHANCE_API_KEY is required")
	}

	return nil
}

func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid float for %s, using default: %v", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean for %s, using default: %v", key, defaultValue)
		return defaultValue
	}

	return value
}
