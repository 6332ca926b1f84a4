package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	service "github.com/okian/qualitydash/internal/app"
	"github.com/okian/qualitydash/internal/config"
	"github.com/okian/qualitydash/internal/dataset"
	"github.com/okian/qualitydash/internal/domain/scoring"
	"github.com/okian/qualitydash/internal/report"
	"github.com/okian/qualitydash/pkg/logger"
)

// Global flag values.
var (
	verbose    bool
	quiet      bool
	noColor    bool
	jsonLogs   bool
	configPath string
)

// cfg is loaded once in PersistentPreRunE.
var cfg *config.Config

// rootCmd is the base command for qualitydash.
var rootCmd = &cobra.Command{
	Use:   "qualitydash",
	Short: "Hospital quality measures against national benchmarks",
	Long: `qualitydash classifies hospital quality measures against their national
benchmarks, labels slope trends under each measure's polarity and ranks
improvement priorities by gap, weight and trend.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "log errors only")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "write logs as JSON")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file (overrides QDASH_CONFIG)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)
}

func setup(cmd *cobra.Command, _ []string) error {
	if err := logger.Init(logger.WithOutput(cmd.ErrOrStderr()), logger.WithJSON(jsonLogs)); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	report.SetColor(!noColor)

	if configPath != "" {
		if err := os.Setenv("QDASH_CONFIG", configPath); err != nil {
			return fmt.Errorf("set config path: %w", err)
		}
	}
	loaded, err := config.Load(cmd.Context())
	if err != nil {
		return err
	}
	cfg = loaded

	level := cfg.LogLevel
	switch {
	case verbose:
		level = "debug"
	case quiet:
		level = "error"
	}
	if err := logger.SetLevelString(level); err != nil {
		logger.Get().Warn(cmd.Context(), "invalid log_level; falling back to info",
			logger.String("log_level", level), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return nil
}

// newService builds and starts the dashboard service from cfg.
func newService(ctx context.Context, cfg *config.Config) (*service.Service, error) {
	polarity, err := cfg.Polarity()
	if err != nil {
		return nil, err
	}
	var dsOpts []dataset.Option
	if len(cfg.DatasetPaths) > 0 {
		dsOpts = append(dsOpts, dataset.WithFiles(cfg.DatasetPaths...))
	}
	if cfg.DisplayPath != "" {
		dsOpts = append(dsOpts, dataset.WithDisplayFile(cfg.DisplayPath))
	}

	svc := service.New(
		service.WithLogger(logger.Named("service")),
		service.WithClassifier(scoring.NewClassifier(
			scoring.WithSimilarityPercent(cfg.SimilarityPercent),
			scoring.WithSlopeThreshold(cfg.SlopeThreshold),
			scoring.WithTrendMultipliers(cfg.MultiplierWorsening, cfg.MultiplierImproving, cfg.MultiplierStable),
		)),
		service.WithDefaultPolarity(polarity),
		service.WithOutlierFactor(cfg.OutlierFactor),
		service.WithDatasetOptions(dsOpts...),
	)
	if err := svc.Start(ctx); err != nil {
		return nil, fmt.Errorf("start service: %w", err)
	}
	return svc, nil
}
