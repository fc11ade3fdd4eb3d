// Package config loads HeartShare settings from a YAML file with
// environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds settings for both the server and the terminal client.
type Config struct {
	// Server
	Addr     string `yaml:"addr"`
	Database string `yaml:"database"`
	LogFile  string `yaml:"log_file"`

	// Images
	ImageMaxDimension int `yaml:"image_max_dimension"`
	ImageQuality      int `yaml:"image_quality"`

	// Client
	Server    string `yaml:"server"`
	StateFile string `yaml:"state_file"`
}

const (
	defaultAddr              = ":8080"
	defaultDatabase          = "heartshare.sqlite3"
	defaultServer            = "http://localhost:8080"
	defaultImageMaxDimension = 1024
	defaultImageQuality      = 85
)

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Addr:              defaultAddr,
		Database:          defaultDatabase,
		ImageMaxDimension: defaultImageMaxDimension,
		ImageQuality:      defaultImageQuality,
		Server:            defaultServer,
		StateFile:         DefaultStatePath(),
	}
}

// Dir is the per-user configuration directory.
func Dir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = "."
	}
	return filepath.Join(base, "heartshare")
}

// DefaultPath is the config file used when none is given.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// DefaultStatePath is where the terminal client keeps its claimed placeholders.
func DefaultStatePath() string {
	return filepath.Join(Dir(), "state.yaml")
}

// Load reads configuration from path, then applies environment overrides.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnv(cfg, os.Getenv)

	if cfg.Addr == "" {
		cfg.Addr = defaultAddr
	}
	if cfg.Database == "" {
		cfg.Database = defaultDatabase
	}
	if cfg.Server == "" {
		cfg.Server = defaultServer
	}
	if cfg.StateFile == "" {
		cfg.StateFile = DefaultStatePath()
	}
	if cfg.ImageMaxDimension <= 0 {
		cfg.ImageMaxDimension = defaultImageMaxDimension
	}
	if cfg.ImageQuality <= 0 || cfg.ImageQuality > 100 {
		cfg.ImageQuality = defaultImageQuality
	}

	return cfg, nil
}

func applyEnv(cfg *Config, getenv func(string) string) {
	strs := map[string]*string{
		"HEARTSHARE_ADDR":   &cfg.Addr,
		"HEARTSHARE_DB":     &cfg.Database,
		"HEARTSHARE_LOG":    &cfg.LogFile,
		"HEARTSHARE_SERVER": &cfg.Server,
		"HEARTSHARE_STATE":  &cfg.StateFile,
	}
	for key, dst := range strs {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	if v, err := strconv.Atoi(getenv("HEARTSHARE_IMAGE_MAX_DIMENSION")); err == nil {
		cfg.ImageMaxDimension = v
	}
	if v, err := strconv.Atoi(getenv("HEARTSHARE_IMAGE_QUALITY")); err == nil {
		cfg.ImageQuality = v
	}
}

// Save writes the configuration to path, creating the directory if needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
