package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every environment variable name
const Prefix = "HOCKEYSCORER"

// Config holds the process settings. Each field can be set from the
// environment as HOCKEYSCORER_<SPLIT_NAME>, e.g. HOCKEYSCORER_DATA_DIR.
type Config struct {
	Port                int           `split_words:"true" default:"8082"`
	DataDir             string        `split_words:"true" default:"data"`
	LogLevel            string        `split_words:"true" default:"info"`
	BaseURL             string        `envconfig:"BASE_URL"`
	MaintenanceInterval time.Duration `split_words:"true" default:"6h"`
	PersistSettle       time.Duration `split_words:"true" default:"0s"`
	StorageQuotaBytes   int           `split_words:"true" default:"5242880"`
	CORSOrigins         []string      `envconfig:"CORS_ORIGINS" default:"*"`
}

// Load reads an optional .env file and then the environment.
// A missing .env file is not an error.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && len(envFiles) > 0 {
		return nil, fmt.Errorf("load env file: %w", err)
	}
	return New()
}

// New builds a Config from the environment alone
func New() (*Config, error) {
	var c Config
	if err := envconfig.Process(Prefix, &c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate rejects settings the server cannot run with
func (c *Config) Validate() error {
	var errs []error
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.DataDir == "" {
		errs = append(errs, errors.New("data dir is required"))
	}
	if c.MaintenanceInterval < 0 {
		errs = append(errs, fmt.Errorf("maintenance interval %s is negative", c.MaintenanceInterval))
	}
	if c.PersistSettle < 0 {
		errs = append(errs, fmt.Errorf("persist settle %s is negative", c.PersistSettle))
	}
	if c.StorageQuotaBytes <= 0 {
		errs = append(errs, fmt.Errorf("storage quota %d must be positive", c.StorageQuotaBytes))
	}
	return errors.Join(errs...)
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
