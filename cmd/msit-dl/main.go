package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/kpress/msit-dl/internal/client"
	"github.com/kpress/msit-dl/internal/config"
	"github.com/kpress/msit-dl/internal/downloader"
	"github.com/kpress/msit-dl/internal/metrics"
	"github.com/kpress/msit-dl/internal/scan"
)

const version = "0.1.0"

func main() {
	pflag.Int("pages", 3, "number of listing pages to scan")
	pflag.String("outdir", "msit-docs", "output directory for downloaded documents")
	pflag.Float64("delay", 1.0, "delay between requests in seconds")
	showVersion := pflag.Bool("version", false, "print version and exit")
	pflag.Parse()

	if *showVersion {
		fmt.Printf("msit-dl %s\n", version)
		return
	}

	if err := viper.BindPFlags(pflag.CommandLine); err != nil {
		fmt.Fprintf(os.Stderr, "bind flags: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	logger := config.GetLogger()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load config")
	}

	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		logger.Fatal().Err(err).Str("outdir", cfg.OutDir).Msg("Failed to create output directory")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Optional Prometheus metrics endpoint for long scans
	if cfg.Metrics.Enabled {
		metricsServer := metrics.NewHTTPServer(cfg.Metrics.Address, cfg.Metrics.Port)
		go func() {
			logger.Info().Str("address", metricsServer.Addr).Msg("Starting Prometheus metrics HTTP server")
			if err := metricsServer.ListenAndServe(); err != nil && err.Error() != "http: Server closed" {
				logger.Fatal().Err(err).Msg("Failed to serve metrics")
			}
		}()
		defer func() {
			if err := metricsServer.Shutdown(context.Background()); err != nil {
				logger.Error().Err(err).Msg("Failed to shutdown metrics server")
			}
		}()
	}

	boardClient, err := client.NewClient(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create board client")
	}
	defer func() {
		if err := boardClient.Close(); err != nil {
			logger.Error().Err(err).Msg("Failed to close board client")
		}
	}()

	docDownloader, err := downloader.NewDownloader(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create downloader")
	}

	scanner := scan.New(boardClient, docDownloader, cfg)
	if _, err := scanner.Run(ctx); err != nil {
		logger.Warn().Err(err).Msg("Scan interrupted")
	}
}
