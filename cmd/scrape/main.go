// Command scrape performs one fetch-extract-load pass: it downloads the
// Wikipedia city temperature page, extracts per-city records from the six
// continent tables, loads them into a SQLite database, and prints a summary.
//
// Usage:
//
//	scrape [-db city_temperatures.db]
//
// All other settings come from environment variables (see internal/config),
// optionally via a .env file.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/wikiclimate/city-temp-etl/internal/adapter/sqlite"
	"github.com/wikiclimate/city-temp-etl/internal/adapter/wikipedia"
	"github.com/wikiclimate/city-temp-etl/internal/config"
	"github.com/wikiclimate/city-temp-etl/internal/extract"
	"github.com/wikiclimate/city-temp-etl/internal/observability"
	"github.com/wikiclimate/city-temp-etl/internal/pipeline"
	"github.com/wikiclimate/city-temp-etl/internal/report"
)

func main() {
	if err := run(); err != nil {
		slog.Error("scrape failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(".env"); err != nil {
		// A .env file is optional; environment variables still apply.
		slog.Debug("no .env file loaded", "error", err)
	}

	dbPath := flag.String("db", "", "output SQLite database path (overrides DB_PATH)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := sqlite.Open(ctx, cfg.DBPath, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("store close error", "error", err)
		}
	}()

	client := wikipedia.NewClient(cfg, logger)
	extractor := extract.New(logger, metrics)
	p := pipeline.New(client, extractor, store, cfg.SourceURL, logger, metrics)

	count, err := p.Run(ctx)
	if err != nil {
		return err
	}

	if count == 0 {
		fmt.Println("No data found!")
	} else if err := report.Write(ctx, os.Stdout, cfg.DBPath, store); err != nil {
		return err
	}

	if cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			logger.Warn("write metrics textfile failed", "error", err)
		}
	}

	return nil
}
