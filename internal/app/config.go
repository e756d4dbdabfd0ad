package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/Matte762/polygon-helper/internal/provider/polygon"
)

// Config holds application configuration from an optional YAML file and the environment.
type Config struct {
	PolygonAPIKey string        `yaml:"api_key"`
	BaseURL       string        `yaml:"base_url"`
	Timeout       time.Duration `yaml:"timeout"`
	MaxPages      int           `yaml:"max_pages"` // 0 = default cap, negative = no cap
	DataDir       string        `yaml:"data_dir"`  // empty = do not save series
	SaveFormat    string        `yaml:"save_format"`
	LogLevel      string        `yaml:"log_level"` // debug | info | warn | error
	LogFile       string        `yaml:"log_file"`
}

// LoadConfig reads .env (when present), then the YAML file at path (or CONFIG_FILE),
// then environment overrides, and applies defaults.
func LoadConfig(path string) (*Config, error) {
	// A missing .env is the normal case.
	_ = godotenv.Load()

	cfg := &Config{}
	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

// loadFile reads a YAML config file and expands ${VAR} environment variables.
func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return fmt.Errorf("parse config yaml: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setIfEnv(&cfg.PolygonAPIKey, "POLYGON_API_KEY")
	setIfEnv(&cfg.BaseURL, "POLYGON_BASE_URL")
	setIfEnv(&cfg.DataDir, "DATA_DIR")
	setIfEnv(&cfg.SaveFormat, "SAVE_FORMAT")
	setIfEnv(&cfg.LogLevel, "LOG_LEVEL")
	setIfEnv(&cfg.LogFile, "LOG_FILE")
	if s := os.Getenv("MAX_PAGES"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("MAX_PAGES: %w", err)
		}
		cfg.MaxPages = v
	}
	if s := os.Getenv("POLYGON_TIMEOUT"); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("POLYGON_TIMEOUT: %w", err)
		}
		cfg.Timeout = d
	}
	return nil
}

func setIfEnv(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = polygon.DefaultBaseURL
	}
	if c.Timeout == 0 {
		c.Timeout = polygon.DefaultTimeout
	}
	if c.SaveFormat == "" {
		c.SaveFormat = "parquet"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Validate checks values that cannot be defaulted. The API key is checked by the caller
// so it can print its own message.
func (c *Config) Validate() error {
	switch strings.ToLower(c.SaveFormat) {
	case "csv", "json", "parquet":
	default:
		return fmt.Errorf("unsupported save_format %q (use: csv, parquet, json)", c.SaveFormat)
	}
	if c.Timeout < 0 {
		return errors.New("timeout must be >= 0")
	}
	return nil
}
