package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Freeeeeet/employability_booking/internal/app"
	"github.com/Freeeeeet/employability_booking/internal/auth"
	"github.com/Freeeeeet/employability_booking/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func rootCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:           "server",
		Short:         "Employability office appointment booking service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to .env file (ignored if missing)")

	cmd.AddCommand(
		serveCmd(&envFile),
		migrateCmd(&envFile),
		seedCmd(&envFile),
		hashPasswordCmd(),
		setAdminPasswordCmd(&envFile),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
			},
		},
	)
	return cmd
}

// bootstrap загружает конфигурацию и создаёт логгер
func bootstrap(envFile string) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, app.NewLogger(cfg.Environment, appName, Version), nil
}

func serveCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := bootstrap(*envFile)
			if err != nil {
				return err
			}
			defer logger.Sync()

			logger.Info("Starting employability booking service",
				zap.String("environment", cfg.Environment),
				zap.String("version", Version),
				zap.String("db_driver", cfg.DBDriver),
				zap.Bool("allow_overlapping_slots", cfg.AllowOverlappingSlots),
			)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			application, err := app.New(ctx, cfg, logger)
			if err != nil {
				logger.Error("Failed to start", zap.Error(err))
				return err
			}
			defer application.Close()

			return application.Run(ctx)
		},
	}
}

func migrateCmd(envFile *string) *cobra.Command {
	var (
		down        bool
		versionOnly bool
	)

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := bootstrap(*envFile)
			if err != nil {
				return err
			}
			defer logger.Sync()

			cfg.AutoMigrate = false
			ctx := cmd.Context()
			store, err := app.OpenStore(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			migrator := store.Migrator()
			switch {
			case versionOnly:
				version, err := migrator.Version(ctx)
				if err != nil {
					return err
				}
				fmt.Printf("schema version: %d\n", version)
				return nil
			case down:
				return migrator.Down(ctx)
			default:
				return migrator.Run(ctx)
			}
		},
	}

	cmd.Flags().BoolVar(&down, "down", false, "Roll back the latest migration")
	cmd.Flags().BoolVar(&versionOnly, "version", false, "Print the current schema version")
	return cmd
}

func seedCmd(envFile *string) *cobra.Command {
	var seedFile string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill an empty database with demo expositors and time slots",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := bootstrap(*envFile)
			if err != nil {
				return err
			}
			defer logger.Sync()

			var raw []byte
			if seedFile != "" {
				raw, err = os.ReadFile(seedFile)
				if err != nil {
					return fmt.Errorf("read seed file: %w", err)
				}
			}
			data, err := app.ParseSeed(raw)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			application, err := app.New(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer application.Close()

			result, err := application.Seeder().Run(ctx, data)
			if err != nil {
				return err
			}
			if result.Skipped {
				fmt.Println("database already contains data, nothing to do")
				return nil
			}
			fmt.Printf("created %d expositors and %d time slots\n", result.Expositors, result.Slots)
			return nil
		},
	}

	cmd.Flags().StringVar(&seedFile, "file", "", "YAML seed file (defaults to the built-in data)")
	return cmd
}

func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print a bcrypt hash for an admin password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := auth.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

func setAdminPasswordCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "set-admin-password <username> <password>",
		Short: "Change the password of an existing admin",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := bootstrap(*envFile)
			if err != nil {
				return err
			}
			defer logger.Sync()

			application, err := app.New(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer application.Close()

			return application.Services().Auth.ResetPassword(cmd.Context(), args[0], args[1])
		},
	}
}
