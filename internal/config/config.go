package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the process configuration.
type Config struct {
	Title       string            `yaml:"title" validate:"required"`
	Catalog     CatalogConfig     `yaml:"catalog"`
	Storage     StorageConfig     `yaml:"storage"`
	Server      ServerConfig      `yaml:"server"`
	Logging     LoggingConfig     `yaml:"logging"`
	Game        GameConfig        `yaml:"game"`
	Preferences PreferencesConfig `yaml:"preferences"`
}

type CatalogConfig struct {
	Path string `yaml:"path" validate:"required"`
}

type StorageConfig struct {
	Backend string `yaml:"backend" validate:"oneof=fs badger memory"`
	Dir     string `yaml:"dir" validate:"required_unless=Backend memory"`
}

type ServerConfig struct {
	Addr string `yaml:"addr" validate:"required"`
}

type LoggingConfig struct {
	Mode  string `yaml:"mode" validate:"oneof=development production"`
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
}

type GameConfig struct {
	SearchLimit     int    `yaml:"search_limit" validate:"gte=0"`
	MinSearchLength int    `yaml:"min_search_length" validate:"gte=0"`
	ShareBaseURL    string `yaml:"share_base_url" validate:"required,url"`
	// FindDayWindow bounds how many days find-day walks back.
	FindDayWindow int `yaml:"find_day_window" validate:"gt=0"`
}

type PreferencesConfig struct {
	Path string `yaml:"path" validate:"required"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Title:   "Marvel Champions Cardle",
		Catalog: CatalogConfig{Path: "data/cards.json"},
		Storage: StorageConfig{Backend: "fs", Dir: "data/progress"},
		Server:  ServerConfig{Addr: "127.0.0.1:8080"},
		Logging: LoggingConfig{Mode: "development", Level: "info"},
		Game: GameConfig{
			SearchLimit:     25,
			MinSearchLength: 1,
			ShareBaseURL:    "https://cardle.svw.info/",
			FindDayWindow:   3650,
		},
		Preferences: PreferencesConfig{Path: "data/preferences.yaml"},
	}
}

// Load reads path over the defaults and applies CARDLE_* environment
// overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		case !errors.Is(err, os.ErrNotExist):
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("CARDLE_CATALOG"); v != "" {
		c.Catalog.Path = v
	}
	if v := os.Getenv("CARDLE_STORAGE_BACKEND"); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv("CARDLE_STORAGE_DIR"); v != "" {
		c.Storage.Dir = v
	}
	if v := os.Getenv("CARDLE_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("CARDLE_LOG_MODE"); v != "" {
		c.Logging.Mode = v
	}
	if v := os.Getenv("CARDLE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("CARDLE_SHARE_BASE_URL"); v != "" {
		c.Game.ShareBaseURL = v
	}
	if v := os.Getenv("CARDLE_PREFERENCES"); v != "" {
		c.Preferences.Path = v
	}
	if v := os.Getenv("CARDLE_SEARCH_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CARDLE_SEARCH_LIMIT: %w", err)
		}
		c.Game.SearchLimit = n
	}
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints and reports every violation.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}
	errs := make([]error, 0, len(ves))
	for _, fe := range ves {
		errs = append(errs, fmt.Errorf("config %s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return errors.Join(errs...)
}
