// Package main is the entry point for the homepage composer.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/traviworld/editorial/internal/composer"
	"github.com/traviworld/editorial/internal/config"
	"github.com/traviworld/editorial/internal/feed"
	"github.com/traviworld/editorial/internal/httpserver"
	"github.com/traviworld/editorial/internal/logger"
	"github.com/traviworld/editorial/internal/middleware"
)

var (
	// version can be set at build time via -ldflags
	version = "dev"
)

func main() {
	os.Exit(run())
}

// run returns the exit code instead of calling os.Exit directly so the
// deferred Sync runs on the error path and flushes buffered log output.
func run() int {
	var configPath string
	flag.StringVar(&configPath, "config", "configs/config.yml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	log, err := logger.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		return 1
	}
	defer func() {
		_ = log.Sync()
	}()

	log = log.With(
		logger.String("service", "composer"),
		logger.String("version", version),
	)

	feedClient := feed.NewClient(cfg.Composer.APIURL, cfg.Composer.APITimeout, cfg.Composer.CacheTTL, log)
	handler := composer.NewHandler(composer.NewComposer(feedClient, log), feedClient, log)

	server := httpserver.NewServer(&httpserver.Config{
		ServiceName:  "composer",
		Addr:         cfg.Composer.Address,
		Debug:        cfg.Debug,
		ReadTimeout:  cfg.API.ReadTimeout,
		WriteTimeout: cfg.API.WriteTimeout,
		IdleTimeout:  cfg.API.IdleTimeout,
		CORS: middleware.CORSConfig{
			Enabled:          true,
			AllowedOrigins:   cfg.Composer.CORSOrigins,
			AllowCredentials: true,
		},
	}, log, handler.RegisterRoutes)

	if runErr := server.RunWithGracefulShutdown(context.Background()); runErr != nil {
		log.Error("Composer server error", logger.Error(runErr))
		return 1
	}
	return 0
}
