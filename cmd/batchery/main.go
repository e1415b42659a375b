package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fedejm/icecream-new-feature-test/internal/app"
	"github.com/fedejm/icecream-new-feature-test/internal/domain/repositories"
	"github.com/fedejm/icecream-new-feature-test/internal/infrastructure/config"
	infrarepos "github.com/fedejm/icecream-new-feature-test/internal/infrastructure/repositories"
	"github.com/fedejm/icecream-new-feature-test/internal/infrastructure/storage"
	"github.com/fedejm/icecream-new-feature-test/internal/pkg/logger"
)

var (
	version   = "0.1.0"
	buildTime = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "batchery",
		Short: "Recipe batching and raw-ingredient inventory service",
		Long: `Batchery is the production dashboard for a small ice-cream shop. It
scales recipes to batch sizes, walks operators through a batch one
ingredient at a time, and tracks raw-ingredient stock against reorder
thresholds. All state lives in flat JSON documents on disk.`,
	}

	// Version command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("batchery version %s (built %s)\n", version, buildTime)
		},
	})

	// Serve command
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the batchery server",
		RunE:  runServe,
	}
	rootCmd.AddCommand(serveCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	log, err := logger.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.SetGlobal(log)
	defer log.Sync()

	log.Info("Starting batchery",
		zap.String("version", version),
		zap.String("environment", cfg.App.Env),
		zap.String("data_dir", cfg.Storage.DataDir),
	)

	// Open the JSON document store and verify the recipe document up front.
	// Every other document is optional and starts empty; the recipe document
	// is maintained externally and its absence is fatal.
	store := storage.New(cfg.Storage, log)
	recipeRepo := infrarepos.NewRecipeRepository(store, cfg.Storage.RecipesFile)
	if _, err := recipeRepo.LoadSet(cmd.Context()); err != nil {
		if errors.Is(err, repositories.ErrRecipesFileMissing) {
			return fmt.Errorf("recipe document %s not found in %s",
				cfg.Storage.RecipesFile, cfg.Storage.DataDir)
		}
		return fmt.Errorf("failed to load recipe document: %w", err)
	}

	// Create application
	application, err := app.New(cfg, log, store)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.GetAddress(),
		Handler:      application.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("HTTP server starting", zap.String("address", cfg.GetAddress()))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))
	}

	// Graceful shutdown
	log.Info("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server shutdown complete")
	return nil
}
