package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lehigh-university-libraries/homelibrary/internal/handlers"
	"github.com/lehigh-university-libraries/homelibrary/internal/library"
	"github.com/lehigh-university-libraries/homelibrary/internal/storage"
	"github.com/lehigh-university-libraries/homelibrary/internal/tempstore"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the catalog HTTP API",
		Long: `Starts the homelibrary JSON API and its swagger UI.

The API manages rooms and bookshelves, imports books from shelf photos
and product URLs, and searches the catalog.`,
		Example: `  # Start server on default port 8888
  homelibrary serve

  # Start server on custom port with JSON logs
  homelibrary serve --port 3000 --log-format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			if port != "" {
				cfg.Server.Port = port
			}
			startTime := time.Now()

			store, closeStore, err := openStore(cmd.Context(), cfg.Database)
			if err != nil {
				return err
			}
			defer closeStore()

			lookuper := newLookuper(cfg)
			analyzer, err := newAnalyzer(cfg, lookuper)
			if err != nil {
				return err
			}
			uploads, err := tempstore.New(cfg.Uploads.Dir)
			if err != nil {
				return err
			}
			svc := library.NewService(
				store,
				analyzer,
				newURLResolver(cfg, lookuper),
				storage.NewPendingStore(cfg.Pending.TTL),
				uploads,
			)

			gin.SetMode(cfg.Server.GinMode)
			router := handlers.NewRouter(handlers.RouterDeps{
				Store:          store,
				Importer:       svc,
				URLs:           svc,
				MaxUploadBytes: cfg.Uploads.MaxBytes,
				StartTime:      startTime,
				Version:        cmd.Root().Version,
			})

			addr := ":" + cfg.Server.Port
			server := &http.Server{
				Addr:              addr,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Homelibrary API available",
					"addr", addr,
					"url", "http://localhost"+addr,
					"docs", "http://localhost"+addr+"/swagger/index.html",
					"vision_provider", cfg.Vision.Provider,
					"vision_model", cfg.Vision.Model,
					"db_driver", cfg.Database.Driver,
				)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides config)")

	return cmd
}
