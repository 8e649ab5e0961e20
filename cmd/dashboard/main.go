// @title E-Commerce Dashboard API
// @version 1.0
// @description Aggregation and ranking of order data: product, city, state and delivery reports.
// @host localhost:8080
// @BasePath /api/v1
package main

import (
	"context"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"go-ecommerce-dashboard/internal/analytics"
	"go-ecommerce-dashboard/internal/config"
	"go-ecommerce-dashboard/internal/model"
	"go-ecommerce-dashboard/internal/pipeline"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "E-commerce order analytics",
	Long:  "Loads order line items and reports top and bottom products, top cities and states by revenue, and the on-time delivery split for a date range.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return eris.Wrap(err, "init logger")
		}

		pipeline.Configure(settingsFrom(cfg))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	SilenceUsage: true,
}

func settingsFrom(c *config.Config) pipeline.Settings {
	return pipeline.Settings{
		OutputDir:       c.Export.Dir,
		Timeout:         c.Job.Timeout,
		TopN:            c.Report.TopN,
		Parallel:        c.Report.Parallel,
		Transformations: c.Transformations,
		Validation: model.ValidationRules{
			SkipInvalid:     c.Validation.SkipInvalid,
			TimestampLayout: c.Source.TimestampLayout,
		},
		Retry: pipeline.RetryConfig{
			MaxAttempts:  c.Retry.MaxAttempts,
			InitialDelay: c.Retry.InitialDelay,
			MaxDelay:     c.Retry.MaxDelay,
			Multiplier:   c.Retry.Multiplier,
			Jitter:       true,
		},
	}
}

// configuredSource returns the source named by flags, falling back to config.
func configuredSource(cmd *cobra.Command) model.Source {
	src := model.Source{Type: cfg.Source.Type, URL: cfg.Source.URL}
	if v, _ := cmd.Flags().GetString("source"); v != "" {
		src.URL = v
	}
	if v, _ := cmd.Flags().GetString("type"); v != "" {
		src.Type = v
	}
	return src
}

// loadDataset reads every record of src with the configured options.
func loadDataset(ctx context.Context, src model.Source) ([]model.Record, error) {
	opts := pipeline.OptionsFor(model.ReportJobSpec{Sources: []model.Source{src}})
	records, err := pipeline.LoadSource(ctx, src, opts)
	if err != nil {
		return nil, eris.Wrapf(err, "load %s", src.URL)
	}
	zap.L().Info("dataset loaded", zap.String("source", src.URL), zap.Int("records", len(records)))
	return records, nil
}

func builderFrom(c *config.Config) analytics.Builder {
	return analytics.Builder{TopN: c.Report.TopN, Parallel: c.Report.Parallel}
}

func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().String("source", "", "order data file path or http(s) URL (default from config)")
	cmd.Flags().String("type", "", "source type: csv, json or xlsx (default from config)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
