package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

const (
	flushCacheTimeout = 30 * time.Second
	jobRunTimeout     = 10 * time.Minute
)

// newCacheCommand creates the cache command group.
func newCacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the zone placement cache",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "flush",
		Short: "Drop every cached zone payload",
		RunE: func(_ *cobra.Command, _ []string) error {
			application, err := newApp()
			if err != nil {
				return err
			}
			defer func() { _ = application.Close() }()

			ctx, cancel := context.WithTimeout(context.Background(), flushCacheTimeout)
			defer cancel()

			deleted, err := application.FlushCache(ctx)
			if err != nil {
				return fmt.Errorf("flush cache: %w", err)
			}

			fmt.Printf("Flushed %d cached zone payloads\n", deleted)
			return nil
		},
	})

	return cmd
}

// newTrendingCommand creates the trending command group.
func newTrendingCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trending",
		Short: "Manage the trending zone",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Refill auto-managed zones from view counts once",
		RunE: func(_ *cobra.Command, _ []string) error {
			application, err := newApp()
			if err != nil {
				return err
			}
			defer func() { _ = application.Close() }()

			ctx, cancel := context.WithTimeout(context.Background(), jobRunTimeout)
			defer cancel()

			placed, err := application.RunTrendingOnce(ctx)
			if err != nil {
				return fmt.Errorf("trending run: %w", err)
			}

			fmt.Printf("Placed %d content items\n", placed)
			return nil
		},
	})

	return cmd
}

// newReindexCommand creates the reindex command group.
func newReindexCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reindex",
		Short: "Manage the search index",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Rebuild the search index from published content once",
		RunE: func(_ *cobra.Command, _ []string) error {
			application, err := newApp()
			if err != nil {
				return err
			}
			defer func() { _ = application.Close() }()

			ctx, cancel := context.WithTimeout(context.Background(), jobRunTimeout)
			defer cancel()

			indexed, err := application.RunReindexOnce(ctx)
			if err != nil {
				return fmt.Errorf("reindex run: %w", err)
			}

			fmt.Printf("Indexed %d documents\n", indexed)
			return nil
		},
	})

	return cmd
}
