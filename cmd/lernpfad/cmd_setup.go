package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/felixgeelhaar/lernpfad/internal/config"
)

// cmdInit performs first-time setup
func cmdInit() error {
	fmt.Println("Initializing Lernpfad...")

	dir, err := config.EnsureLernpfadDir()
	if err != nil {
		return fmt.Errorf("create lernpfad directory: %w", err)
	}
	fmt.Printf("✓ Created %s\n", dir)

	configPath := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := config.SaveLocalConfig(config.DefaultLocalConfig()); err != nil {
			return fmt.Errorf("write default config: %w", err)
		}
		fmt.Printf("✓ Wrote default config to %s\n", configPath)
	} else {
		fmt.Printf("✓ Config already exists at %s\n", configPath)
	}

	fmt.Println("\nNext steps:")
	fmt.Println("  lernpfad start               # Start the daemon")
	fmt.Println("  lernpfad import course.json  # Import a course")
	return nil
}

// cmdConfig shows the current configuration
func cmdConfig() error {
	cfg, err := config.LoadLocalConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	fmt.Println("Configuration")
	fmt.Println("=============")
	fmt.Printf("Daemon:   %s:%d (log level %s)\n", cfg.Daemon.Bind, cfg.Daemon.Port, cfg.Daemon.LogLevel)
	fmt.Printf("Storage:  %s", cfg.Storage.Backend)
	switch cfg.Storage.Backend {
	case "postgres":
		fmt.Printf(" (%s)", cfg.Storage.DatabaseURL)
	default:
		if cfg.Storage.DataDir != "" {
			fmt.Printf(" (%s)", cfg.Storage.DataDir)
		}
	}
	fmt.Println()
	fmt.Printf("Retries:  %d\n", cfg.Storage.Retries)
	if cfg.Events.RabbitMQURL != "" {
		fmt.Println("Events:   rabbitmq enabled")
	} else {
		fmt.Println("Events:   disabled")
	}
	return nil
}
