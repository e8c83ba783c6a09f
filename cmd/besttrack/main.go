// Command besttrack indexes and decodes tropical-cyclone best-track files.
//
// Usage:
//
//	besttrack index    -in bst_all.txt [-since 2015]
//	besttrack decode   -in bst_all.txt -id 1513
//	besttrack times    -in bst_all.txt -cutoff 2015 -out bt_time_after_2015.txt
//	besttrack export   -in bst_all.txt -cutoff 2015 -out tracks.parquet
//	besttrack validate -in bst_all.txt
//
// Settings come from the environment (optionally a .env file); flags override them.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/couchcryptid/storm-besttrack/internal/config"
	"github.com/couchcryptid/storm-besttrack/internal/observability"
)

func main() {
	_ = godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if cfg.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.RunTimeout)
		defer cancel()
	}

	app := &app{cfg: cfg, logger: logger, metrics: metrics, stdout: os.Stdout}
	runErr := app.run(ctx, os.Args[1:])

	if cfg.MetricsTextfile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsTextfile); err != nil {
			logger.Error("write metrics textfile", "path", cfg.MetricsTextfile, "error", err)
		}
	}

	if runErr != nil {
		if !errors.Is(runErr, flag.ErrHelp) {
			logger.Error("besttrack failed", "error", runErr)
		}
		stop()
		os.Exit(1)
	}
}

func usage() error {
	return fmt.Errorf("usage: besttrack <index|decode|times|export|validate> [flags]")
}
