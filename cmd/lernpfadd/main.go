package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/felixgeelhaar/lernpfad/internal/config"
	"github.com/felixgeelhaar/lernpfad/internal/daemon"
	"github.com/felixgeelhaar/lernpfad/internal/queue"
	"github.com/felixgeelhaar/lernpfad/internal/storage/local"
	"github.com/felixgeelhaar/lernpfad/internal/storage/postgres"
	"github.com/felixgeelhaar/lernpfad/internal/storage/resilient"
	"github.com/felixgeelhaar/lernpfad/internal/storage/sqlite"
	"github.com/felixgeelhaar/lernpfad/internal/study"
)

const pidFileName = "lernpfadd.pid"

func main() {
	if err := run(); err != nil {
		slog.Error("daemon error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	lernpfadDir, err := config.EnsureLernpfadDir()
	if err != nil {
		return fmt.Errorf("ensure lernpfad dir: %w", err)
	}

	cfg, err := config.LoadLocalConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logLevel := parseLogLevel(cfg.Daemon.LogLevel)
	logFile, err := setupLogging(lernpfadDir, logLevel)
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	pidPath := filepath.Join(lernpfadDir, pidFileName)
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(pidPath)

	ctx := context.Background()

	gateway, cleanup, err := buildGateway(ctx, cfg, lernpfadDir)
	if err != nil {
		return fmt.Errorf("setup storage: %w", err)
	}
	defer cleanup()

	gateway = resilient.New(gateway, resilient.Config{
		MaxAttempts: cfg.Storage.Retries,
		Logger:      slog.Default(),
	})

	controller := study.NewController(gateway, slog.Default())

	// Optional event publishing to RabbitMQ
	if cfg.Events.RabbitMQURL != "" {
		conn, err := queue.NewConnection(cfg.Events.RabbitMQURL)
		if err != nil {
			slog.Warn("rabbitmq unavailable, events disabled", "error", err)
		} else {
			defer conn.Close()
			queue.NewPublisher(conn, slog.Default()).Attach(controller.Dispatcher())
			slog.Info("event publishing enabled", "queue", queue.EventQueueName)
		}
	}

	server := daemon.NewServer(cfg, controller)

	done := make(chan struct{})
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh

		slog.Info("received signal, shutting down", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
		close(done)
	}()

	if err := server.Start(); err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	<-done
	slog.Info("daemon stopped")
	return nil
}

// buildGateway constructs the configured persistence backend
func buildGateway(ctx context.Context, cfg *config.LocalConfig, lernpfadDir string) (study.Gateway, func(), error) {
	dataDir := cfg.Storage.DataDir
	if dataDir == "" {
		dataDir = filepath.Join(lernpfadDir, "data")
	}

	switch cfg.Storage.Backend {
	case "sqlite":
		db, err := sqlite.Open(filepath.Join(dataDir, "lernpfad.db"))
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		if err := db.Migrate(); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("migrate sqlite: %w", err)
		}
		slog.Info("storage ready", "backend", "sqlite", "path", dataDir)
		return sqlite.NewStore(db), func() { db.Close() }, nil

	case "postgres":
		pool, err := postgres.Connect(ctx, cfg.Storage.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		store := postgres.NewStore(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("ensure postgres schema: %w", err)
		}
		slog.Info("storage ready", "backend", "postgres")
		return store, func() { pool.Close() }, nil

	default:
		store, err := local.NewStore(dataDir)
		if err != nil {
			return nil, nil, fmt.Errorf("open local store: %w", err)
		}
		slog.Info("storage ready", "backend", "local", "path", dataDir)
		return store, func() {}, nil
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func setupLogging(lernpfadDir string, level slog.Level) (*os.File, error) {
	logPath := filepath.Join(lernpfadDir, "logs", "lernpfadd.log")

	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	handler := slog.NewJSONHandler(logFile, &slog.HandlerOptions{
		Level: level,
	})

	// Also log to stderr for foreground mode
	multiHandler := &multiHandler{
		handlers: []slog.Handler{
			handler,
			slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			}),
		},
	}

	slog.SetDefault(slog.New(multiHandler))

	return logFile, nil
}

func writePIDFile(path string) error {
	pid := os.Getpid()
	return os.WriteFile(path, []byte(fmt.Sprintf("%d\n", pid)), 0644)
}

// multiHandler logs to multiple handlers
type multiHandler struct {
	handlers []slog.Handler
}

func (h *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, r.Level) {
			if err := handler.Handle(ctx, r); err != nil {
				return err
			}
		}
	}
	return nil
}

func (h *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithAttrs(attrs)
	}
	return &multiHandler{handlers: handlers}
}

func (h *multiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithGroup(name)
	}
	return &multiHandler{handlers: handlers}
}
