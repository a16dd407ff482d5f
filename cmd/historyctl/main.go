// Command historyctl inspects and maintains the processing history from the
// terminal, using the same configuration as the REST server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"image-processing-be/internal/bootstrap"
	"image-processing-be/internal/config"
	"image-processing-be/internal/pkg/logger"
	"image-processing-be/internal/repository/unitofwork"
	"image-processing-be/internal/service"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "historyctl",
	Short: "Inspect and maintain the image processing history",
	Long: `historyctl reads the same environment (.env) as the REST server.

Available subcommands:
  list  - Print every history record, newest first
  stats - Print per-filter counts
  clear - Delete all history, users and stored files
  watch - Stream domain events from NATS`,
	SilenceUsage: true,
}

// openHistory builds a history service straight on the database and file
// stores. Tests replace it.
var openHistory = func(ctx context.Context) (service.IHistoryService, func(), error) {
	cfg := config.Load()

	db, err := bootstrap.OpenDatabase(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	uploads, processed, err := bootstrap.NewFileStores(ctx, cfg.Storage)
	if err != nil {
		return nil, nil, err
	}

	log := logger.NewNopLogger()
	publisher, closeEvents := bootstrap.NewEventPublisher(cfg.App.NatsURL, log)

	svc := service.NewHistoryService(unitofwork.NewRepositoryFactory(db), uploads, processed, publisher, nil, nil, log)
	cleanup := func() {
		closeEvents()
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}
	return svc, cleanup, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
