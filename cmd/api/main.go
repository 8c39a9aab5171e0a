// Package main is the entry point for the editorial API server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/traviworld/editorial/internal/app"
	"github.com/traviworld/editorial/internal/logger"
)

var (
	// version can be set at build time via -ldflags
	version = "dev"
)

func main() {
	os.Exit(run())
}

// run returns the exit code instead of calling os.Exit directly so the
// deferred Close runs on the error path and flushes buffered log output.
func run() int {
	var configPath string
	flag.StringVar(&configPath, "config", "configs/config.yml", "Path to configuration file")
	flag.Parse()

	application, err := app.New(app.Options{
		ConfigPath: configPath,
		Version:    version,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize application: %v\n", err)
		return 1
	}
	defer func() {
		if closeErr := application.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Failed to close application: %v\n", closeErr)
		}
	}()

	if runErr := application.RunAPI(context.Background()); runErr != nil {
		application.Logger().Error("API server error", logger.Error(runErr))
		return 1
	}
	return 0
}
