// Package main implements travictl, the operator CLI for the editorial
// platform: inspect placements, flush zone caches and trigger curation
// jobs outside their schedule.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/traviworld/editorial/internal/app"
)

var (
	// version can be set at build time via -ldflags
	version = "dev"

	// configPath holds the path to the configuration file.
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "travictl",
	Short: "Operator CLI for the TRAVI World editorial platform",
	Long: `travictl talks to the editorial backing services directly:
list zone placements, flush the zone cache, and run curation jobs once.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "configs/config.yml", "Path to configuration file")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("travictl version %s\n", version)
		},
	})

	rootCmd.AddCommand(newPlacementsCommand())
	rootCmd.AddCommand(newCacheCommand())
	rootCmd.AddCommand(newTrendingCommand())
	rootCmd.AddCommand(newReindexCommand())
}

// newApp builds the application from the --config flag. The caller owns
// the returned app and must Close it.
func newApp() (*app.App, error) {
	application, err := app.New(app.Options{
		ConfigPath: configPath,
		Version:    version,
	})
	if err != nil {
		return nil, fmt.Errorf("initialize application: %w", err)
	}
	return application, nil
}
