package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
)

// NewRootCmd creates the root command of the gophauth server.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "gophauth",
		Short:        "gophauth - account signup and login service",
		SilenceUsage: true,
	}

	config.RegisterFlags(cmd.PersistentFlags())

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP and gRPC endpoints",
		Long: `Connect to the credential store, apply migrations, warm the email
filter and serve the HTTP and gRPC APIs until interrupted.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(cmd.Flags())
			if err != nil {
				return err
			}

			logger := newLogger()
			ctx := cmd.Context()

			app, err := server.NewApp(ctx, cfg, logger)
			if err != nil {
				logger.Error(ctx, "startup failed", logging.ErrorAttrs(err)...)
				return err
			}

			return app.Run(ctx)
		},
	}
}

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long:  `Run all pending database migrations against the PostgreSQL database.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(cmd.Flags())
			if err != nil {
				return err
			}

			logger := newLogger()
			if err := server.Migrate(cmd.Context(), cfg, logger); err != nil {
				logger.Error(cmd.Context(), "migration failed", logging.ErrorAttrs(err)...)
				return err
			}
			return nil
		},
	}
}

func newLogger() logging.Logger {
	return logging.NewJSONLogger(os.Stdout, slog.LevelInfo)
}
