// syncctl drives a catalog sync run against a cartbridge server. It owns
// the cursor: the server stays stateless and syncctl feeds it one step at a
// time, resuming wherever the last response pointed.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cartbridge/backend/internal/infrastructure/logger"
	"github.com/cartbridge/backend/internal/orchestrator"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	serverURL    string
	startProduct int
	delay        time.Duration
	retryDelay   time.Duration
	logLevel     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "syncctl",
		Short: "Drive a chunked catalog sync against a cartbridge server",
	}

	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "Base URL of the sync server")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the sync from the given product until the catalog is exhausted",
		RunE:  runSync,
	}
	runCmd.Flags().IntVar(&startProduct, "start-product", 1, "1-based product position to start from")
	runCmd.Flags().DurationVar(&delay, "delay", orchestrator.DefaultPacing, "Pause between steps")
	runCmd.Flags().DurationVar(&retryDelay, "retry-delay", orchestrator.DefaultRetryDelay, "Wait before retrying a failed transport call")

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show how many source products are eligible for sync",
		RunE:  showStatus,
	}

	rootCmd.AddCommand(runCmd, statusCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() (*zap.Logger, error) {
	return logger.New(&logger.Config{
		Level:  logLevel,
		Format: "console",
		Output: "stdout",
	})
}

func runSync(cmd *cobra.Command, _ []string) error {
	if startProduct < 1 {
		return fmt.Errorf("--start-product must be >= 1")
	}

	log, err := newLogger()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	transport := orchestrator.NewHTTPTransport(serverURL)
	runner := orchestrator.NewRunner(transport, log,
		orchestrator.WithPacing(delay),
		orchestrator.WithRetryDelay(retryDelay),
	)

	log.Info("Starting sync run",
		zap.String("server", serverURL),
		zap.Int("start_product", startProduct),
		zap.Duration("delay", delay))

	stats, err := runner.Run(ctx, startProduct-1)
	if err != nil {
		log.Error("Sync halted",
			zap.Int("steps", stats.Steps),
			zap.Int("products", stats.Products),
			zap.Error(err))
		return err
	}

	log.Info("Sync complete",
		zap.Int("steps", stats.Steps),
		zap.Int("products", stats.Products),
		zap.String("last_message", stats.LastMessage))
	return nil
}

func showStatus(cmd *cobra.Command, _ []string) error {
	transport := orchestrator.NewHTTPTransport(serverURL)
	count, err := transport.ProductCount(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Printf("%d products with options awaiting sync\n", count)
	return nil
}
