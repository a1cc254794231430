package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/felixgeelhaar/lernpfad/internal/config"
	mcpserver "github.com/felixgeelhaar/lernpfad/internal/mcp"
	"github.com/felixgeelhaar/lernpfad/internal/storage/local"
	"github.com/felixgeelhaar/lernpfad/internal/study"
)

// cmdMCP starts the MCP server on stdio for agent clients. It runs
// against the local JSON store directly, without the daemon.
func cmdMCP() error {
	cfg, err := config.LoadLocalConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	lernpfadDir, err := config.EnsureLernpfadDir()
	if err != nil {
		return fmt.Errorf("get lernpfad dir: %w", err)
	}

	dataDir := cfg.Storage.DataDir
	if dataDir == "" {
		dataDir = filepath.Join(lernpfadDir, "data")
	}

	store, err := local.NewStore(dataDir)
	if err != nil {
		return fmt.Errorf("open local store: %w", err)
	}

	// stdio carries the protocol, so logs must stay off stdout
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	controller := study.NewController(store, logger)

	mcpSrv := mcpserver.NewServer(controller)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	return mcpSrv.ServeStdio(ctx)
}
