package database

import (
	"context"
	"fmt"
)

// ====================
// Stats
// ====================

// GetZonePlacementCounts returns the number of placements per zone
func (r *Repository) GetZonePlacementCounts(ctx context.Context) (map[string]int, error) {
	query := `
		SELECT zone, COUNT(*) as count
		FROM placements
		GROUP BY zone
		ORDER BY zone ASC
	`

	return r.countsByKey(ctx, query, "zone placement counts")
}

// GetContentCountsByStatus returns the number of content items per status
func (r *Repository) GetContentCountsByStatus(ctx context.Context) (map[string]int, error) {
	query := `
		SELECT status, COUNT(*) as count
		FROM contents
		GROUP BY status
		ORDER BY status ASC
	`

	return r.countsByKey(ctx, query, "content status counts")
}

// GetPublishedCountsByType returns the number of published items per content type
func (r *Repository) GetPublishedCountsByType(ctx context.Context) (map[string]int, error) {
	query := `
		SELECT type, COUNT(*) as count
		FROM contents
		WHERE status = 'published'
		GROUP BY type
		ORDER BY count DESC
	`

	return r.countsByKey(ctx, query, "published type counts")
}

// GetSubscriberCounts returns the number of subscribers per status
func (r *Repository) GetSubscriberCounts(ctx context.Context) (map[string]int, error) {
	query := `
		SELECT status, COUNT(*) as count
		FROM newsletter_subscribers
		GROUP BY status
		ORDER BY status ASC
	`

	return r.countsByKey(ctx, query, "subscriber counts")
}

// countsByKey runs a two-column (key, count) aggregate query into a map
func (r *Repository) countsByKey(ctx context.Context, query, what string) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", what, err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var key string
		var count int
		if scanErr := rows.Scan(&key, &count); scanErr != nil {
			return nil, fmt.Errorf("failed to scan row: %w", scanErr)
		}
		counts[key] = count
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("row iteration error: %w", rowsErr)
	}

	return counts, nil
}
