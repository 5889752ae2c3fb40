package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up in the working directory.
const DefaultPath = "checkbook.yaml"

// EnvPrefix prefixes every environment override. Keys follow the struct
// path, e.g. CHECKBOOK_DATABASE_DSN or CHECKBOOK_LOG_TIME_FORMAT.
const EnvPrefix = "CHECKBOOK"

// Config represents the top-level checkbook.yaml configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Import   ImportConfig   `yaml:"import"`
	Log      LogConfig      `yaml:"log"`
}

// DatabaseConfig selects the ledger store.
type DatabaseConfig struct {
	Driver string `yaml:"driver" validate:"required,oneof=sqlite postgres"`
	DSN    string `yaml:"dsn" validate:"required"`
}

// ImportConfig controls the import pipeline and its inbox.
type ImportConfig struct {
	Format    string `yaml:"format" validate:"required"`
	Inbox     string `yaml:"inbox" validate:"required"`
	Processed string `yaml:"processed" validate:"required"`
	Log       string `yaml:"log" validate:"required"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	Level      string `yaml:"level" validate:"required,oneof=debug info warn error"`
	Format     string `yaml:"format" validate:"required,oneof=text json logfmt"`
	Prefix     string `yaml:"prefix"`
	TimeFormat string `yaml:"time_format" split_words:"true"`
}

// Default returns a Config with sensible defaults for a new ledger.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    "checkbook.db",
		},
		Import: ImportConfig{
			Format:    "semicolon",
			Inbox:     "import",
			Processed: "import/processed",
			Log:       "logs/import-log.csv",
		},
		Log: LogConfig{
			Level:      "warn",
			Format:     "text",
			TimeFormat: "15:04:05",
		},
	}
}

// Load reads a checkbook.yaml file from disk. Keys absent from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Resolve builds the effective configuration: the file at path (or defaults
// when it does not exist), then environment overrides, then validation.
func Resolve(path string, envFiles ...string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg = Default()
	} else if err != nil {
		return nil, err
	}

	if err := ApplyEnv(cfg, envFiles...); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv loads the given .env files (".env" when none are given) into the
// process environment without overriding variables already set, then applies
// CHECKBOOK_* overrides to cfg. Missing .env files are skipped.
func ApplyEnv(cfg *Config, envFiles ...string) error {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return fmt.Errorf("reading environment: %w", err)
	}
	return nil
}

// Validate checks the struct constraints on every section.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
