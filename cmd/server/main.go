package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/oilslickpad/storeops/internal/api"
	"github.com/oilslickpad/storeops/internal/api/middleware"
	"github.com/oilslickpad/storeops/internal/cli"
	"github.com/oilslickpad/storeops/internal/service"
)

func main() {
	root := &cobra.Command{
		Use:           "server",
		Short:         "Serve read-only collection and tag reports over HTTP",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
	root.AddCommand(&cobra.Command{
		Use:   "hash-key <api-key>",
		Short: "Print the bcrypt hash to put in REPORT_API_KEY_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := middleware.HashAPIKey(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	})
	cli.Main(root)
}

func serve(ctx context.Context) error {
	app, err := cli.Bootstrap(ctx)
	if err != nil {
		return err
	}
	defer app.Close()
	logger := app.Logger

	if app.Config.API.KeyHash == "" {
		logger.Warn("REPORT_API_KEY_HASH is not set, every /v1 request will be rejected")
	}

	reporters := api.Reporters{
		Collections: service.NewHealthMonitor(app.Shopify, app.Catalog, app.Config.Health, app.Repos.Audit, logger),
		Tags:        service.NewTagAuditor(app.Shopify, app.Classifier, app.Repos.Audit, logger),
	}
	router := api.NewRouter(app.Config, reporters, app.Repos, logger)

	srv := &http.Server{
		Addr:         ":" + app.Config.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute, // full store scans
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Starting storeops report server",
		zap.String("port", app.Config.Port),
		zap.String("environment", app.Config.Environment),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("Server exited")
	return nil
}
