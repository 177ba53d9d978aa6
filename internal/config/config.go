package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Bank     BankConfig
	Renderer RendererConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

// BankConfig identifies the originating company on remittance files.
type BankConfig struct {
	// Code is the 3-digit compensation code of the originating bank.
	Code string
	// CompanyName appears in the file header, max 30 characters.
	CompanyName string
	// CompanyDocument is the 14-digit CNPJ, digits only.
	CompanyDocument string
}

// RendererConfig points at the Gotenberg PDF service.
type RendererConfig struct {
	BaseURL string
	Timeout time.Duration
}

func Load() (*Config, error) {
	// .env is optional outside development; real deployments set env vars.
	_ = godotenv.Load()

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "folhacerta"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Remittance file header identification
	config.Bank = BankConfig{
		Code:            getEnv("BANK_CODE", "341"),
		CompanyName:     getEnv("BANK_COMPANY_NAME", ""),
		CompanyDocument: getEnv("BANK_COMPANY_DOCUMENT", ""),
	}

	// Gotenberg renderer
	rendererTimeout, err := time.ParseDuration(getEnv("RENDERER_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid RENDERER_TIMEOUT: %w", err)
	}
	config.Renderer = RendererConfig{
		BaseURL: getEnv("RENDERER_URL", "http://localhost:3000"),
		Timeout: rendererTimeout,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if len(c.Bank.Code) != 3 {
		return fmt.Errorf("BANK_CODE must be a 3-digit compensation code")
	}
	if c.Bank.CompanyName == "" {
		return fmt.Errorf("BANK_COMPANY_NAME is required")
	}
	if len(c.Bank.CompanyDocument) != 14 {
		return fmt.Errorf("BANK_COMPANY_DOCUMENT must be a 14-digit CNPJ")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
