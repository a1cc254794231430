package config

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestLernpfadDir(t *testing.T) {
	dir, err := LernpfadDir()
	if err != nil {
		t.Fatalf("LernpfadDir() error = %v", err)
	}

	if filepath.Base(dir) != ".lernpfad" {
		t.Errorf("LernpfadDir() = %q, want ending with .lernpfad", dir)
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("LernpfadDir() = %q, want absolute path", dir)
	}
}

func TestEnsureLernpfadDir(t *testing.T) {
	originalHome := os.Getenv("HOME")
	defer os.Setenv("HOME", originalHome)

	tmpHome := t.TempDir()
	os.Setenv("HOME", tmpHome)

	dir, err := EnsureLernpfadDir()
	if err != nil {
		t.Fatalf("EnsureLernpfadDir() error = %v", err)
	}

	expectedDir := filepath.Join(tmpHome, ".lernpfad")
	if dir != expectedDir {
		t.Errorf("EnsureLernpfadDir() = %q, want %q", dir, expectedDir)
	}

	for _, subdir := range []string{"logs", "data"} {
		path := filepath.Join(dir, subdir)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			t.Errorf("EnsureLernpfadDir() should create %s", subdir)
		}
	}
}

func TestDefaultLocalConfig(t *testing.T) {
	cfg := DefaultLocalConfig()
	if cfg == nil {
		t.Fatal("DefaultLocalConfig() returned nil")
	}

	if cfg.Daemon.Port != 7431 {
		t.Errorf("Daemon.Port = %d, want 7431", cfg.Daemon.Port)
	}
	if cfg.Daemon.Bind != "127.0.0.1" {
		t.Errorf("Daemon.Bind = %q, want 127.0.0.1", cfg.Daemon.Bind)
	}
	if cfg.Daemon.LogLevel != "info" {
		t.Errorf("Daemon.LogLevel = %q, want info", cfg.Daemon.LogLevel)
	}
	if cfg.Storage.Backend != "local" {
		t.Errorf("Storage.Backend = %q, want local", cfg.Storage.Backend)
	}
	if cfg.Storage.Retries != 3 {
		t.Errorf("Storage.Retries = %d, want 3", cfg.Storage.Retries)
	}
}

func TestLoadLocalConfig_DefaultsWhenNoFile(t *testing.T) {
	originalHome := os.Getenv("HOME")
	defer os.Setenv("HOME", originalHome)

	tmpHome := t.TempDir()
	os.Setenv("HOME", tmpHome)

	if err := os.MkdirAll(filepath.Join(tmpHome, ".lernpfad"), 0755); err != nil {
		t.Fatalf("Failed to create .lernpfad dir: %v", err)
	}

	cfg, err := LoadLocalConfig()
	if err != nil {
		t.Fatalf("LoadLocalConfig() error = %v", err)
	}

	if cfg.Daemon.Port != 7431 {
		t.Errorf("Daemon.Port = %d, want 7431 (default)", cfg.Daemon.Port)
	}
}

func TestLoadLocalConfig_WithConfigFile(t *testing.T) {
	originalHome := os.Getenv("HOME")
	defer os.Setenv("HOME", originalHome)

	tmpHome := t.TempDir()
	os.Setenv("HOME", tmpHome)

	configDir := filepath.Join(tmpHome, ".lernpfad")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("Failed to create .lernpfad dir: %v", err)
	}

	configContent := `daemon:
  port: 9999
  bind: "0.0.0.0"
  log_level: debug
storage:
  backend: sqlite
events:
  rabbitmq_url: amqp://localhost:5672/
`
	configPath := filepath.Join(configDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadLocalConfig()
	if err != nil {
		t.Fatalf("LoadLocalConfig() error = %v", err)
	}

	if cfg.Daemon.Port != 9999 {
		t.Errorf("Daemon.Port = %d, want 9999", cfg.Daemon.Port)
	}
	if cfg.Daemon.Bind != "0.0.0.0" {
		t.Errorf("Daemon.Bind = %q, want 0.0.0.0", cfg.Daemon.Bind)
	}
	if cfg.Storage.Backend != "sqlite" {
		t.Errorf("Storage.Backend = %q, want sqlite", cfg.Storage.Backend)
	}
	if cfg.Events.RabbitMQURL == "" {
		t.Error("Events.RabbitMQURL should be set")
	}
}

func TestLoadLocalConfig_InvalidConfigYAML(t *testing.T) {
	originalHome := os.Getenv("HOME")
	defer os.Setenv("HOME", originalHome)

	tmpHome := t.TempDir()
	os.Setenv("HOME", tmpHome)

	configDir := filepath.Join(tmpHome, ".lernpfad")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("Failed to create .lernpfad dir: %v", err)
	}

	configPath := filepath.Join(configDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("invalid: yaml: [broken"), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	if _, err := LoadLocalConfig(); err == nil {
		t.Error("LoadLocalConfig() should error on invalid YAML")
	}
}

func TestSaveLocalConfig_RoundTrip(t *testing.T) {
	originalHome := os.Getenv("HOME")
	defer os.Setenv("HOME", originalHome)

	tmpHome := t.TempDir()
	os.Setenv("HOME", tmpHome)

	cfg := DefaultLocalConfig()
	cfg.Daemon.Port = 8888
	cfg.Storage.Backend = "postgres"
	cfg.Storage.DatabaseURL = "postgres://localhost:5432/lernpfad"

	if err := SaveLocalConfig(cfg); err != nil {
		t.Fatalf("SaveLocalConfig() error = %v", err)
	}

	configPath := filepath.Join(tmpHome, ".lernpfad", "config.yaml")
	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("Failed to read saved config: %v", err)
	}

	var saved LocalConfig
	if err := yaml.Unmarshal(data, &saved); err != nil {
		t.Fatalf("Failed to parse saved config: %v", err)
	}
	if saved.Daemon.Port != 8888 {
		t.Errorf("Saved Daemon.Port = %d, want 8888", saved.Daemon.Port)
	}

	loaded, err := LoadLocalConfig()
	if err != nil {
		t.Fatalf("LoadLocalConfig() error = %v", err)
	}
	if loaded.Storage.Backend != "postgres" {
		t.Errorf("Round-trip Storage.Backend = %q, want postgres", loaded.Storage.Backend)
	}
	if loaded.Storage.DatabaseURL != cfg.Storage.DatabaseURL {
		t.Errorf("Round-trip DatabaseURL = %q", loaded.Storage.DatabaseURL)
	}
}
