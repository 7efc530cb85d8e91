package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	rootdb "quiz-seeder/database"
	"quiz-seeder/internal/config"
	"quiz-seeder/internal/database"
	"quiz-seeder/internal/logger"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:          "migrate",
	Short:        "Apply schema changes and data backfills to the question database",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUp(cmd.Context())
	},
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUp(cmd.Context())
	},
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		steps, _ := cmd.Flags().GetInt("steps")
		if !all && steps <= 0 {
			return fmt.Errorf("pass --all or --steps N (N > 0)")
		}
		if all {
			steps = 0
		}
		return withMigrator(cmd.Context(), func(m *database.Migrator) error {
			if err := m.Down(steps); err != nil {
				return err
			}
			if all {
				logger.Get().Info("Successfully rolled back all migrations")
			} else {
				logger.Get().Info(fmt.Sprintf("Successfully rolled back %d migration(s)", steps))
			}
			return nil
		})
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the applied migration version",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(cmd.Context(), func(m *database.Migrator) error {
			version, dirty, ok, err := m.Version()
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("No migrations applied.")
				return nil
			}
			fmt.Printf("Version %d (dirty: %t)\n", version, dirty)
			return nil
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to config file (default: config.yaml in . or ./configs)")
	downCmd.Flags().Bool("all", false, "Roll back every migration")
	downCmd.Flags().Int("steps", 0, "Number of migrations to roll back")
	downCmd.MarkFlagsMutuallyExclusive("all", "steps")

	rootCmd.AddCommand(upCmd, downCmd, versionCmd)
}

func runUp(ctx context.Context) error {
	return withMigrator(ctx, func(m *database.Migrator) error {
		if err := m.Up(); err != nil {
			return err
		}
		logger.Get().Info("Migrations applied successfully!")
		return nil
	})
}

// withMigrator loads configuration, connects and hands fn a ready Migrator.
func withMigrator(ctx context.Context, fn func(*database.Migrator) error) error {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()
	l := logger.Get()

	db, err := database.NewSQLXPostgresDB(ctx, cfg.GetDSN(), l)
	if err != nil {
		l.Error("Failed to connect to database", zap.Error(err))
		return err
	}

	m, err := database.NewMigrator(db.DB, rootdb.Migrations, rootdb.MigrationsDir, l)
	if err != nil {
		db.Close()
		l.Error("Failed to prepare migrations", zap.Error(err))
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			l.Warn("Failed to close migrator", zap.Error(err))
		}
	}()

	if err := fn(m); err != nil {
		l.Error("Migration failed", zap.Error(err))
		return err
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
