package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"quiz-seeder/internal/adapter/textgen"
	"quiz-seeder/internal/config"
	"quiz-seeder/internal/logger"
	"quiz-seeder/internal/service"
)

var (
	configFile string
	provider   string
	models     []string
)

var rootCmd = &cobra.Command{
	Use:          "probe_models",
	Short:        "Find a model name that answers a trivial prompt",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func init() {
	rootCmd.Flags().StringVar(&configFile, "config", "", "Path to config file (default: config.yaml in . or ./configs)")
	rootCmd.Flags().StringVar(&provider, "provider", "gemini", "Provider whose models are probed")
	rootCmd.Flags().StringSliceVar(&models, "model", nil, "Candidate model name; repeatable (default: probe.models)")
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

	cfg.LLM.Provider = provider
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.LLM.RequireAPIKey(); err != nil {
		l.Error("API key missing", zap.Error(err))
		return err
	}

	candidates := cfg.Probe.Models
	if len(models) > 0 {
		candidates = models
	}

	probe := service.NewProbeService(textgen.Factory(cfg.LLM), cfg.Probe.Prompt, cfg.LLM.Timeout, l)
	result, err := probe.Probe(ctx, candidates)
	if err != nil {
		l.Error("No working model found", zap.Strings("tried", candidates), zap.Error(err))
		return err
	}

	fmt.Printf("Working model: %s\n", result.Working)
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
