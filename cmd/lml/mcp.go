package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/lml/internal/debug"
	"github.com/standardbeagle/lml/internal/mcp"
)

func mcpCommand(c *cli.Context) error {
	// Stdio carries the protocol, so debug output must stay off it.
	debug.SetMCPMode(true)

	dirArg := c.Args().Get(0)
	if dirArg == "" {
		dirArg = "."
	}
	root, err := filepath.Abs(dirArg)
	if err != nil {
		return fmt.Errorf("failed to resolve directory %q: %w", dirArg, err)
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return cli.Exit(fmt.Sprintf("Error: %s is not a directory", dirArg), 1)
	}

	cfg, err := loadConfigWithOverrides(c, root)
	if err != nil {
		return err
	}

	server := mcp.NewServer(cfg, root)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		debug.LogMCP("Starting MCP server with stdio transport...\n")
		errChan <- server.Start(ctx)
	}()

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("MCP server error: %w", err)
		}
		return nil
	case sig := <-sigChan:
		debug.LogMCP("Received signal %v, shutting down gracefully...\n", sig)
		cancel()

		shutdownTimer := time.NewTimer(2 * time.Second)
		defer shutdownTimer.Stop()

		select {
		case err := <-errChan:
			debug.LogMCP("Server shutdown completed\n")
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		case <-shutdownTimer.C:
			debug.LogMCP("Graceful shutdown timeout, forcing exit\n")
			return nil
		}
	}
}
