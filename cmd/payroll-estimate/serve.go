package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/iwvelando/payroll-estimate/internal/config"
	"github.com/iwvelando/payroll-estimate/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCommand(configFile *string) *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the estimator over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := config.LoadConfiguration(*configFile, cmd.Flags())
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			logger, err := initializeLogger(conf.Logging)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer func() {
				_ = logger.Sync()
			}()

			opts, err := server.OptionsFromConfig(conf, version)
			if err != nil {
				return fmt.Errorf("invalid server configuration: %w", err)
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			logger.Info("starting estimate API",
				zap.String("op", "serve"),
				zap.String("address", opts.Address),
				zap.String("version", opts.Version),
				zap.Bool("strict", opts.Strict),
			)
			return server.Run(ctx, logger, opts, server.NewHandler(logger, opts))
		},
	}

	serveCmd.Flags().String("address", "", "HTTP listen address (default \":8080\")")
	return serveCmd
}
