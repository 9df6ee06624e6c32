package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/freenet/devskills/pkg/logger"
	"github.com/freenet/devskills/pkg/presenter"
	"github.com/freenet/devskills/pkg/server"
)

// ServeConfig holds configuration for the serve command
type ServeConfig struct {
	Host string
	Port int
}

// NewServeConfig creates a new ServeConfig with default values
func NewServeConfig() *ServeConfig {
	return &ServeConfig{
		Host: "localhost",
		Port: 8080,
	}
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the skill registry over HTTP",
	Long: `Start a local HTTP server exposing the skill registry read-only, so editor
integrations and assistant runtimes can query skills and plugins without
linking the library.

The server will be available at http://localhost:8080 by default.`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()
		config := getServeConfigFromFlags(cmd)
		runServeCommand(ctx, cmd, config)
	},
}

func init() {
	defaults := NewServeConfig()
	serveCmd.Flags().String("host", defaults.Host, "Host to bind the server to")
	serveCmd.Flags().Int("port", defaults.Port, "Port to bind the server to")
	addRegistryFlags(serveCmd)
}

// getServeConfigFromFlags extracts serve configuration from command flags
func getServeConfigFromFlags(cmd *cobra.Command) *ServeConfig {
	config := NewServeConfig()

	if host, err := cmd.Flags().GetString("host"); err == nil {
		config.Host = host
	}
	if port, err := cmd.Flags().GetInt("port"); err == nil {
		config.Port = port
	}

	return config
}

// runServeCommand starts the registry HTTP server
func runServeCommand(ctx context.Context, cmd *cobra.Command, config *ServeConfig) {
	reg, err := loadRegistry(ctx, cmd)
	if err != nil {
		presenter.Error(err, "Failed to load skill registry")
		os.Exit(1)
	}

	srv, err := server.New(reg, &server.Config{
		Host: config.Host,
		Port: config.Port,
	})
	if err != nil {
		presenter.Error(err, "Failed to create registry server")
		os.Exit(1)
	}
	defer func() {
		if closeErr := srv.Stop(); closeErr != nil {
			logger.G(ctx).WithError(closeErr).Error("failed to stop registry server")
		}
	}()

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	presenter.Success(fmt.Sprintf("Registry server starting on http://%s:%d", config.Host, config.Port))
	presenter.Info("Press Ctrl+C to stop the server")

	if err := srv.Start(ctx); err != nil {
		logger.G(ctx).WithError(err).Error("registry server error")
		presenter.Error(err, "registry server failed")
		os.Exit(1)
	}

	presenter.Info("Registry server stopped")
}
