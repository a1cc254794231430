package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LocalConfig holds configuration for local daemon mode
type LocalConfig struct {
	Daemon  DaemonConfig  `yaml:"daemon"`
	Storage StorageConfig `yaml:"storage"`
	Events  EventsConfig  `yaml:"events"`
}

// DaemonConfig holds daemon server settings
type DaemonConfig struct {
	Port     int    `yaml:"port"`
	Bind     string `yaml:"bind"`
	LogLevel string `yaml:"log_level"`
}

// StorageConfig selects and tunes the persistence backend
type StorageConfig struct {
	Backend     string `yaml:"backend"` // local, sqlite, postgres
	DataDir     string `yaml:"data_dir,omitempty"`
	DatabaseURL string `yaml:"database_url,omitempty"`
	Retries     int    `yaml:"retries"`
}

// EventsConfig holds event publishing settings
type EventsConfig struct {
	RabbitMQURL string `yaml:"rabbitmq_url,omitempty"`
}

// LernpfadDir returns the path to ~/.lernpfad
func LernpfadDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".lernpfad"), nil
}

// EnsureLernpfadDir creates ~/.lernpfad and subdirectories if they don't exist
func EnsureLernpfadDir() (string, error) {
	dir, err := LernpfadDir()
	if err != nil {
		return "", err
	}

	subdirs := []string{
		"",
		"logs",
		"data",
	}

	for _, subdir := range subdirs {
		path := filepath.Join(dir, subdir)
		if err := os.MkdirAll(path, 0755); err != nil {
			return "", fmt.Errorf("create dir %s: %w", path, err)
		}
	}

	return dir, nil
}

// DefaultLocalConfig returns sensible defaults for local mode
func DefaultLocalConfig() *LocalConfig {
	return &LocalConfig{
		Daemon: DaemonConfig{
			Port:     7431,
			Bind:     "127.0.0.1",
			LogLevel: "info",
		},
		Storage: StorageConfig{
			Backend: "local",
			Retries: 3,
		},
	}
}

// LoadLocalConfig loads configuration from ~/.lernpfad/config.yaml
func LoadLocalConfig() (*LocalConfig, error) {
	dir, err := LernpfadDir()
	if err != nil {
		return nil, err
	}

	configPath := filepath.Join(dir, "config.yaml")

	// If config doesn't exist, return defaults
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return DefaultLocalConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultLocalConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}

// SaveLocalConfig saves configuration to ~/.lernpfad/config.yaml
func SaveLocalConfig(cfg *LocalConfig) error {
	dir, err := EnsureLernpfadDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(dir, "config.yaml")

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}
