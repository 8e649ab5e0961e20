package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"go-ecommerce-dashboard/internal/api"
	"go-ecommerce-dashboard/internal/api/handler"
	"go-ecommerce-dashboard/internal/pipeline"
	"go-ecommerce-dashboard/internal/store"
	"go-ecommerce-dashboard/pkg/router"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long:  "Loads the configured dataset once, then serves dashboard queries and asynchronous report jobs.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		port, _ := cmd.Flags().GetInt("port")
		if port == 0 {
			port = cfg.Server.Port
		}

		if err := store.InitDB(cfg.Store.Path); err != nil {
			return err
		}
		defer store.Close()

		records, err := loadDataset(ctx, configuredSource(cmd))
		if err != nil {
			return err
		}
		handler.UseDataset(records, builderFrom(cfg))

		r := router.New()
		api.RegisterRoutes(r)

		err = r.Start(ctx, fmt.Sprintf(":%d", port))
		zap.L().Info("waiting for running jobs")
		pipeline.Wait()
		return err
	},
}

func init() {
	addSourceFlags(serveCmd)
	serveCmd.Flags().Int("port", 0, "HTTP port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
