// pipefy-mcp: Pipefy MCP Server
//
// Exposes Pipefy pipes, cards and comments as MCP tools over stdio so any
// MCP host can read and update a Pipefy workspace.
//
// Usage:
//
//	pipefy-mcp serve      # Start MCP server (stdio transport)
//	pipefy-mcp version    # Print the version
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/pipefy/pipefy-mcp/internal/config"
	pipefyserver "github.com/pipefy/pipefy-mcp/internal/server"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pipefy-mcp",
		Short:         "Pipefy MCP Server",
		Long:          "An MCP server that lets AI hosts manage Pipefy pipes, cards and comments.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.Version = pipefyserver.Version

	rootCmd.AddCommand(newServeCmd(), newVersionCmd())
	return rootCmd
}

func newServeCmd() *cobra.Command {
	var opts config.Options

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.ConfigFile, "config", "", "YAML config file")
	cmd.Flags().StringVar(&opts.EnvFile, "env-file", ".env", "dotenv file with PIPEFY_* variables")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pipefy-mcp v%s\n", pipefyserver.Version)
		},
	}
}

func run(ctx context.Context, opts config.Options) error {
	cfg, err := config.Load(opts)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	level, _ := config.ParseLevel(cfg.LogLevel)

	// Logs go to stderr so they don't interfere with MCP's stdio
	// transport on stdout.
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	logger := slog.New(handler)

	s, err := pipefyserver.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	// Graceful shutdown on interrupt.
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	stdio := server.NewStdioServer(s)
	stdio.SetErrorLogger(slog.NewLogLogger(handler, slog.LevelError))

	logger.Info("pipefy mcp server started", "version", pipefyserver.Version, "endpoint", cfg.Pipefy.GraphQLURL)
	if err := stdio.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("pipefy mcp server stopped")
	return nil
}
