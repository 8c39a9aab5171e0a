package main

import (
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/traviworld/editorial/internal/models"
)

// newPlacementsCommand creates the placements command group.
func newPlacementsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "placements",
		Short: "Inspect zone placements",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newPlacementsListCommand())

	return cmd
}

// newPlacementsListCommand creates the placements list command.
func newPlacementsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list <zone>",
		Short: "List the placements of a zone in a formatted table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			zone := args[0]
			if !models.ValidZone(zone) {
				return fmt.Errorf("unknown zone %q (valid zones: %v)", zone, models.Zones)
			}

			application, err := newApp()
			if err != nil {
				return err
			}
			defer func() { _ = application.Close() }()

			placements, err := application.Repo().ListPlacementsByZone(cmd.Context(), zone)
			if err != nil {
				return fmt.Errorf("list placements: %w", err)
			}

			if len(placements) == 0 {
				fmt.Printf("No placements in zone %s\n", zone)
				return nil
			}

			renderPlacementsTable(placements)
			return nil
		},
	}
}

// renderPlacementsTable formats and displays placements in a table.
func renderPlacementsTable(placements []models.Placement) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"Position", "Content ID", "Priority", "Enabled", "Managed By", "Starts At", "Ends At"})

	for i := range placements {
		p := &placements[i]
		t.AppendRow(table.Row{
			p.Position,
			p.ContentID,
			p.Priority,
			p.Enabled,
			p.ManagedBy,
			formatWindowBound(p.StartsAt),
			formatWindowBound(p.EndsAt),
		})
	}

	t.Render()
}

// formatWindowBound renders an optional window bound for display.
func formatWindowBound(bound *time.Time) string {
	if bound == nil {
		return "-"
	}
	return bound.UTC().Format(time.RFC3339)
}
