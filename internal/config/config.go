package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Storage providers.
const (
	StorageLocal    = "local"
	StorageS3       = "s3"
	StorageSupabase = "supabase"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Logger     LoggerConfig
	Auth       AuthConfig
	Storage    StorageConfig
	Upstream   UpstreamConfig
	Generation GenerationConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host         string        `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Port         int           `env:"SERVER_PORT" envDefault:"8080"`
	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"10m"`
	IdleTimeout  time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"120s"`
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	Host            string `env:"DB_HOST" envDefault:"localhost"`
	Port            int    `env:"DB_PORT" envDefault:"5432"`
	User            string `env:"DB_USER" envDefault:"postgres"`
	Password        string `env:"DB_PASSWORD"`
	Database        string `env:"DB_NAME" envDefault:"kvstudio"`
	MaxConnections  int    `env:"DB_MAX_CONNECTIONS" envDefault:"25"`
	MinConnections  int    `env:"DB_MIN_CONNECTIONS" envDefault:"5"`
	MaxConnLifetime int    `env:"DB_MAX_CONN_LIFETIME" envDefault:"300"` // seconds
	AutoMigrate     bool   `env:"DB_AUTO_MIGRATE" envDefault:"true"`
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"` // "json" or "console"
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	APIKey string `env:"API_KEY"`
}

// StorageConfig selects and configures the object store.
type StorageConfig struct {
	Provider        string `env:"STORAGE_PROVIDER" envDefault:"local"`
	LocalDir        string `env:"STORAGE_LOCAL_DIR" envDefault:"./data/storage"`
	PublicBaseURL   string `env:"STORAGE_PUBLIC_BASE_URL" envDefault:"http://localhost:8080"`
	S3Bucket        string `env:"S3_BUCKET"`
	S3Region        string `env:"S3_REGION" envDefault:"us-east-1"`
	S3Endpoint      string `env:"S3_ENDPOINT"`
	S3PublicBaseURL string `env:"S3_PUBLIC_BASE_URL"`
	SupabaseURL     string `env:"SUPABASE_URL"`
	SupabaseKey     string `env:"SUPABASE_SERVICE_KEY"`
	PurgeOnDelete   bool   `env:"STORAGE_PURGE_ON_DELETE" envDefault:"false"`
	UploadMaxBytes  int64  `env:"UPLOAD_MAX_BYTES" envDefault:"16777216"`
}

// UpstreamConfig holds the external service endpoints.
type UpstreamConfig struct {
	GenerationURL  string        `env:"GENERATION_URL" envDefault:"http://localhost:8000"`
	CaptionURL     string        `env:"CAPTION_URL" envDefault:"http://localhost:8001"`
	CaptionTimeout time.Duration `env:"CAPTION_TIMEOUT" envDefault:"60s"`
	FetchTimeout   time.Duration `env:"IMAGE_FETCH_TIMEOUT" envDefault:"30s"`
}

// GenerationConfig holds generation forwarding settings.
type GenerationConfig struct {
	BaseModel          string `env:"GENERATION_BASE_MODEL" envDefault:"flux1-dev-Q4_0.gguf"`
	EnforceLoraAllowed bool   `env:"GENERATION_ENFORCE_LORA_ALLOWLIST" envDefault:"true"`
	LoraAllowlistFile  string `env:"LORA_ALLOWLIST_FILE"`
}

// Load loads configuration from an optional .env file and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Database.Port)
	}

	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.Database.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	if c.Database.MinConnections < 1 {
		return fmt.Errorf("database min connections must be at least 1")
	}

	if c.Database.MinConnections > c.Database.MaxConnections {
		return fmt.Errorf("database min connections cannot exceed max connections")
	}

	if c.Auth.APIKey == "" {
		return fmt.Errorf("API key is required")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	if err := c.Storage.validate(); err != nil {
		return err
	}

	if err := validateURL("generation", c.Upstream.GenerationURL); err != nil {
		return err
	}

	if err := validateURL("caption", c.Upstream.CaptionURL); err != nil {
		return err
	}

	if c.Upstream.CaptionTimeout <= 0 {
		return fmt.Errorf("caption timeout must be positive")
	}

	if c.Generation.BaseModel == "" {
		return fmt.Errorf("generation base model is required")
	}

	return nil
}

func (s *StorageConfig) validate() error {
	if s.UploadMaxBytes < 1 {
		return fmt.Errorf("upload max bytes must be at least 1")
	}

	switch s.Provider {
	case StorageLocal:
		if s.LocalDir == "" {
			return fmt.Errorf("local storage directory is required")
		}
		return validateURL("storage public base", s.PublicBaseURL)
	case StorageS3:
		if s.S3Bucket == "" {
			return fmt.Errorf("S3 bucket is required when storage provider is s3")
		}
		if s.S3Region == "" {
			return fmt.Errorf("S3 region is required when storage provider is s3")
		}
	case StorageSupabase:
		if s.SupabaseURL == "" {
			return fmt.Errorf("supabase URL is required when storage provider is supabase")
		}
		if s.SupabaseKey == "" {
			return fmt.Errorf("supabase service key is required when storage provider is supabase")
		}
	default:
		return fmt.Errorf("invalid storage provider: %s (must be local, s3, or supabase)", s.Provider)
	}

	return nil
}

func validateURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid %s URL: %q", name, raw)
	}
	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
