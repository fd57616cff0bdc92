package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ConfigPath is the default config file location.
const ConfigPath = "config.yaml"

// FileConfig represents configuration loaded from YAML with environment
// overrides. Limits are injected into the file store and extractor at
// construction so tests can set bounds without touching process state.
type FileConfig struct {
	Port        string `yaml:"port"`
	LogLevel    string `yaml:"logLevel"`
	DatabaseURL string `yaml:"databaseURL"`
	StorageDir  string `yaml:"storageDir"`
	MaxUploadMB int64  `yaml:"maxUploadMB"`
	MaxPDFPages int    `yaml:"maxPdfPages"`
}

// Load reads config from path (defaults to config.yaml) and applies
// environment overrides.
func Load(path string) (FileConfig, error) {
	cfg := FileConfig{}
	if path == "" {
		path = ConfigPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("PDF_STORAGE_PATH"); v != "" {
		cfg.StorageDir = v
	}
	if v := os.Getenv("MAX_PDF_SIZE_MB"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.MaxUploadMB = n
		}
	}
	if v := os.Getenv("MAX_PDF_PAGES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxPDFPages = n
		}
	}
	if err := validateConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// MaxUploadBytes converts the configured megabyte limit.
func (c FileConfig) MaxUploadBytes() int64 {
	return c.MaxUploadMB * 1024 * 1024
}

func validateConfig(cfg FileConfig) error {
	if cfg.Port == "" {
		return errors.New("config: port is required (set in config.yaml or PORT)")
	}
	if cfg.DatabaseURL == "" {
		return errors.New("config: databaseURL is required (set in config.yaml or DATABASE_URL)")
	}
	if cfg.StorageDir == "" {
		return errors.New("config: storageDir is required (set in config.yaml or PDF_STORAGE_PATH)")
	}
	if cfg.MaxUploadMB <= 0 {
		return errors.New("config: maxUploadMB must be > 0 (set in config.yaml or MAX_PDF_SIZE_MB)")
	}
	if cfg.MaxPDFPages <= 0 {
		return errors.New("config: maxPdfPages must be > 0 (set in config.yaml or MAX_PDF_PAGES)")
	}
	return nil
}
