package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/iwvelando/eugene-roi/internal/server"
	"github.com/iwvelando/eugene-roi/pkg/constants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	serverConfigLocation string
	listenAddress        string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web calculator",
	RunE:  runServe,
}

func init() {
	f := serveCmd.Flags()
	f.StringVar(&serverConfigLocation, "config", constants.DefaultServerConfigFile, "path to server configuration file")
	f.StringVar(&listenAddress, "address", "", "listen address override")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := server.LoadConfig(serverConfigLocation)
	if err != nil {
		return fmt.Errorf("failed to load server configuration at %s: %w", serverConfigLocation, err)
	}
	if listenAddress != "" {
		cfg.Address = listenAddress
	}

	logger, err := initializeLogger(cfg.Logging, logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	serverVersion := version
	if cfg.Version != "" {
		serverVersion = cfg.Version
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting web calculator",
		zap.String("op", "main"),
		zap.String("address", cfg.Address),
		zap.Int64("maxBodySize", cfg.BodySizeBytes()),
		zap.Duration("sessionTTL", cfg.SessionTTLDuration()),
		zap.String("version", serverVersion),
	)
	return server.Serve(ctx, logger, cfg, serverVersion)
}
