package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"curbside-backend/config"
	"curbside-backend/internal/app"
	"curbside-backend/internal/db"
	"curbside-backend/internal/metrics"
)

type configLoader func(*log.Logger) (*config.Config, error)

func newServeCmd(loadConfig configLoader) *cobra.Command {
	var seed bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.New(os.Stdout, "curbside ", log.LstdFlags)

			cfg, err := loadConfig(logger)
			if err != nil {
				return err
			}

			gormDB, err := db.Init(&cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			logger.Println("database initialized successfully")

			if seed {
				if err := db.Seed(cmd.Context(), gormDB, cfg); err != nil {
					return err
				}
			}

			metrics.Init()
			application := app.New(cfg, gormDB)

			server := &http.Server{
				Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
				Handler: application.Router,
			}

			serveErr := make(chan error, 1)
			go func() {
				logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serveErr <- err
				}
				close(serveErr)
			}()

			// Setup signal handling for graceful shutdown
			stop := make(chan os.Signal, 1)
			signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

			select {
			case <-stop:
				logger.Println("Shutdown signal received, stopping services...")
			case err := <-serveErr:
				if err != nil {
					return fmt.Errorf("HTTP server ListenAndServe: %w", err)
				}
			}

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("HTTP server Shutdown: %w", err)
			}

			logger.Println("Server gracefully stopped")
			return nil
		},
	}

	cmd.Flags().BoolVar(&seed, "seed", false, "upsert tariff and privileged windows from the config on startup")
	return cmd
}
