package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"quiz-seeder/internal/adapter"
	"quiz-seeder/internal/adapter/quizgen"
	"quiz-seeder/internal/adapter/textgen"
	"quiz-seeder/internal/cache"
	"quiz-seeder/internal/config"
	"quiz-seeder/internal/database"
	"quiz-seeder/internal/domain"
	"quiz-seeder/internal/logger"
	"quiz-seeder/internal/repository"
	"quiz-seeder/internal/service"
	"quiz-seeder/internal/util"
)

var (
	configFile string
	tierFlags  []string
)

var rootCmd = &cobra.Command{
	Use:          "seed_questions",
	Short:        "Generate multiple-choice questions with a language model and insert them per difficulty tier",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func init() {
	rootCmd.Flags().StringVar(&configFile, "config", "", "Path to config file (default: config.yaml in . or ./configs)")
	rootCmd.Flags().StringSliceVar(&tierFlags, "tier", nil, "Only seed this difficulty (easy, medium, hard); repeatable")
}

func run(ctx context.Context) error {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()
	l := logger.Get()

	if err := cfg.LLM.RequireAPIKey(); err != nil {
		l.Error("Generation API key missing", zap.Error(err))
		return err
	}

	tiers, err := cfg.Seed.TierConfigs(tierFlags...)
	if err != nil {
		l.Error("Invalid tier selection", zap.Strings("tier", tierFlags), zap.Error(err))
		return err
	}

	llm, err := textgen.New(ctx, cfg.LLM)
	if err != nil {
		l.Error("Failed to initialize text generator", zap.Error(err))
		return err
	}
	l.Info("Initialized text generator", zap.String("provider", cfg.LLM.Provider), zap.String("model", llm.ModelID()))

	db, err := database.NewSQLXPostgresDB(ctx, cfg.GetDSN(), l)
	if err != nil {
		l.Error("Failed to connect to database", zap.Error(err))
		return err
	}
	defer db.Close()

	var progress domain.ProgressReporter = adapter.NopProgressReporter{}
	if cfg.Redis.Enabled() {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			l.Error("Invalid Redis configuration", zap.Error(err))
			return err
		}
		defer redisClient.Close()

		reporter, err := adapter.ConnectProgressReporter(ctx, adapter.NewRedisRunStore(redisClient), cfg.Redis.ProgressTTL)
		if err != nil {
			l.Warn("Redis unavailable, progress will not be recorded", zap.Error(err))
		} else {
			progress = reporter
			l.Info("Recording seeding progress in Redis", zap.String("address", cfg.Redis.Address))
		}
	}

	questionRepo := repository.NewQuestionDatabaseAdapter(db)
	generator, err := quizgen.NewChunkedQuizGenerator(llm, cfg.Seed, cfg.LLM.Timeout, l)
	if err != nil {
		l.Error("Failed to initialize question generator", zap.Error(err))
		return err
	}
	inserter := service.NewQuestionInserter(questionRepo, cfg.Seed, cfg.DB.QueryTimeout, l)
	seedSvc := service.NewSeedService(llm, generator, inserter, questionRepo, progress, cfg.LLM.Timeout, cfg.DB.QueryTimeout, l)

	report, err := seedSvc.Run(ctx, tiers)
	if report != nil {
		logSummary(context.WithoutCancel(ctx), l, report, progress)
	}
	if err != nil {
		l.Error("Seeding failed", zap.Error(err))
		return err
	}

	l.Info("Seeding completed", zap.String("run_id", report.RunID), zap.Int("inserted", report.Inserted))
	return nil
}

// logSummary prints each tier's outcome and, when progress is stored, where to find it.
func logSummary(ctx context.Context, l *zap.Logger, report *domain.SeedReport, progress domain.ProgressReporter) {
	if started, err := util.ULIDTime(report.RunID); err == nil {
		l = l.With(zap.String("run_id", report.RunID), zap.Duration("elapsed", time.Since(started).Round(time.Second)))
	}
	for _, tier := range report.Tiers {
		l.Info("Tier summary",
			zap.String("difficulty", tier.Difficulty.String()),
			zap.String("phase", string(tier.Phase)),
			zap.Int("target", tier.Target),
			zap.Int("generated", tier.Generated),
			zap.Int("inserted", tier.Inserted))
	}

	stored, err := progress.Snapshot(ctx, report.RunID)
	if err != nil {
		l.Warn("Failed to read back recorded progress", zap.Error(err))
		return
	}
	if len(stored) > 0 {
		l.Info("Progress recorded",
			zap.String("key", cache.SeedRunKey(report.RunID)),
			zap.Int("tiers", len(stored)))
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
