package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Config holds all agency service configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Registry RegistryConfig `yaml:"registry"`
	Redis    RedisConfig    `yaml:"redis"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type HTTPConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
}

type DatabaseConfig struct {
	Driver          string        `yaml:"driver"` // mysql or sqlite
	DSN             string        `yaml:"dsn"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	AutoMigrate     bool          `yaml:"auto_migrate"`
}

// RegistryConfig configures the external breed registry client.
type RegistryConfig struct {
	URL        string        `yaml:"url"`
	APIKey     string        `yaml:"api_key"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
	RetryDelay time.Duration `yaml:"retry_delay"`
}

// RedisConfig enables domain event publishing when URL is set.
type RedisConfig struct {
	URL    string `yaml:"url"`
	Stream string `yaml:"stream"`
}

type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:          DriverMySQL,
			DSN:             "user:password@tcp(127.0.0.1:3306)/spycatagency",
			MaxOpenConns:    10,
			MaxIdleConns:    10,
			ConnMaxLifetime: 3 * time.Minute,
			AutoMigrate:     true,
		},
		Registry: RegistryConfig{
			URL:        "https://api.thecatapi.com/v1/breeds",
			Timeout:    5 * time.Second,
			MaxRetries: 0,
			RetryDelay: time.Second,
		},
		Redis: RedisConfig{
			Stream: "agency.events",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads the YAML file at path on top of the defaults, applies
// environment overrides and validates the result. An empty path skips the
// file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() error {
	if port := os.Getenv("PORT"); port != "" {
		c.HTTP.Addr = ":" + port
	}
	if addr := os.Getenv("AGENCY_HTTP_ADDR"); addr != "" {
		c.HTTP.Addr = addr
	}
	if origins := os.Getenv("AGENCY_ALLOWED_ORIGINS"); origins != "" {
		c.HTTP.AllowedOrigins = splitList(origins)
	}

	if driver := os.Getenv("DB_DRIVER"); driver != "" {
		c.Database.Driver = driver
	}
	if dsn := os.Getenv("MYSQL_DSN"); dsn != "" {
		c.Database.DSN = dsn
	}
	// DB_DSN wins over MYSQL_DSN so a sqlite path can be given alongside DB_DRIVER.
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		c.Database.DSN = dsn
	}

	if url := os.Getenv("CAT_API_URL"); url != "" {
		c.Registry.URL = url
	}
	if key := os.Getenv("CAT_API_KEY"); key != "" {
		c.Registry.APIKey = key
	}
	if retries := os.Getenv("CAT_API_MAX_RETRIES"); retries != "" {
		n, err := strconv.Atoi(retries)
		if err != nil {
			return fmt.Errorf("invalid CAT_API_MAX_RETRIES %q: %w", retries, err)
		}
		c.Registry.MaxRetries = n
	}
	if timeout := os.Getenv("CAT_API_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("invalid CAT_API_TIMEOUT %q: %w", timeout, err)
		}
		c.Registry.Timeout = d
	}

	if url := os.Getenv("REDIS_URL"); url != "" {
		c.Redis.URL = url
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	return nil
}

// Validate checks the settings that would otherwise fail late at startup.
func (c *Config) Validate() error {
	var errs []error
	if c.HTTP.Addr == "" {
		errs = append(errs, errors.New("http.addr must not be empty"))
	}
	switch c.Database.Driver {
	case DriverMySQL, DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("database.driver must be %q or %q, got %q", DriverMySQL, DriverSQLite, c.Database.Driver))
	}
	if c.Database.DSN == "" {
		errs = append(errs, errors.New("database.dsn must not be empty"))
	}
	if c.Registry.URL == "" {
		errs = append(errs, errors.New("registry.url must not be empty"))
	}
	if c.Registry.MaxRetries < 0 {
		errs = append(errs, errors.New("registry.max_retries must not be negative"))
	}
	if c.Redis.URL != "" && c.Redis.Stream == "" {
		errs = append(errs, errors.New("redis.stream must be set when redis.url is"))
	}
	return errors.Join(errs...)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
