package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/traviworld/editorial/internal/models"
)

const placementFields = `id, zone, content_id, position, priority, is_breaking, is_featured,
		headline, image, excerpt, enabled, starts_at, ends_at, managed_by,
		created_at, updated_at`

// zoneQuery joins active placements with their published content. Rows come
// back ordered; consumers never re-sort.
const zoneQuery = `
	SELECT p.id, p.zone, p.content_id, p.position, p.priority, p.is_breaking, p.is_featured,
		p.headline, p.image, p.excerpt, p.enabled, p.starts_at, p.ends_at, p.managed_by,
		p.created_at, p.updated_at,
		c.id AS "content.id", c.type AS "content.type", c.slug AS "content.slug",
		c.title AS "content.title", c.summary AS "content.summary", c.body AS "content.body",
		c.card_image AS "content.card_image", c.hero_image AS "content.hero_image",
		c.status AS "content.status", c.tags AS "content.tags",
		c.meta_title AS "content.meta_title", c.meta_description AS "content.meta_description",
		c.canonical_url AS "content.canonical_url", c.published_at AS "content.published_at",
		c.created_at AS "content.created_at", c.updated_at AS "content.updated_at"
	FROM placements p
	JOIN contents c ON c.id = p.content_id
	WHERE p.zone = $1
		AND p.enabled = true
		AND c.status = $2
		AND (p.starts_at IS NULL OR p.starts_at <= $3)
		AND (p.ends_at IS NULL OR p.ends_at > $3)
	ORDER BY p.position ASC, p.created_at DESC, p.id ASC
`

// ====================
// Placements
// ====================

// CreatePlacement creates a new placement. When no position is given the
// placement is appended after the zone's current maximum.
func (r *Repository) CreatePlacement(ctx context.Context, req *models.PlacementCreateRequest) (*models.Placement, error) {
	placement := &models.Placement{
		ID:         uuid.New(),
		Zone:       req.Zone,
		ContentID:  req.ContentID,
		Priority:   req.Priority,
		IsBreaking: req.IsBreaking,
		IsFeatured: req.IsFeatured,
		Headline:   req.Headline,
		Image:      req.Image,
		Excerpt:    req.Excerpt,
		Enabled:    true, // Default to true
		StartsAt:   req.StartsAt,
		EndsAt:     req.EndsAt,
		ManagedBy:  models.ManagedByEditor,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	if placement.Priority == "" {
		placement.Priority = models.PriorityNormal
	}
	if req.Enabled != nil {
		placement.Enabled = *req.Enabled
	}

	var query string
	var args []any
	if req.Position != nil {
		placement.Position = *req.Position
		query = `
			INSERT INTO placements (id, zone, content_id, position, priority, is_breaking, is_featured,
				headline, image, excerpt, enabled, starts_at, ends_at, managed_by, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
			RETURNING ` + placementFields
		args = []any{
			placement.ID, placement.Zone, placement.ContentID, placement.Position,
			placement.Priority, placement.IsBreaking, placement.IsFeatured,
			placement.Headline, placement.Image, placement.Excerpt, placement.Enabled,
			placement.StartsAt, placement.EndsAt, placement.ManagedBy,
			placement.CreatedAt, placement.UpdatedAt,
		}
	} else {
		query = `
			INSERT INTO placements (id, zone, content_id, position, priority, is_breaking, is_featured,
				headline, image, excerpt, enabled, starts_at, ends_at, managed_by, created_at, updated_at)
			SELECT $1, $2, $3, COALESCE(MAX(position) + 1, 0), $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
			FROM placements WHERE zone = $2
			RETURNING ` + placementFields
		args = []any{
			placement.ID, placement.Zone, placement.ContentID,
			placement.Priority, placement.IsBreaking, placement.IsFeatured,
			placement.Headline, placement.Image, placement.Excerpt, placement.Enabled,
			placement.StartsAt, placement.EndsAt, placement.ManagedBy,
			placement.CreatedAt, placement.UpdatedAt,
		}
	}

	err := r.db.QueryRowxContext(ctx, query, args...).StructScan(placement)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code {
			case "23505": // unique_violation: content already placed in this zone
				return nil, models.ErrAlreadyExists
			case "23503": // foreign_key_violation: content does not exist
				return nil, models.ErrNotFound
			}
		}
		return nil, fmt.Errorf("failed to create placement: %w", err)
	}

	return placement, nil
}

// GetPlacementByID retrieves a placement by ID
func (r *Repository) GetPlacementByID(ctx context.Context, id uuid.UUID) (*models.Placement, error) {
	placement := &models.Placement{}
	query := `SELECT ` + placementFields + ` FROM placements WHERE id = $1`

	err := r.db.GetContext(ctx, placement, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get placement: %w", err)
	}

	return placement, nil
}

// ListPlacementsByZone retrieves every placement in a zone for the back
// office, including disabled and out-of-window rows.
func (r *Repository) ListPlacementsByZone(ctx context.Context, zone string) ([]models.Placement, error) {
	placements := []models.Placement{}
	query := `SELECT ` + placementFields + `
		FROM placements
		WHERE zone = $1
		ORDER BY position ASC, created_at DESC`

	if err := r.db.SelectContext(ctx, &placements, query, zone); err != nil {
		return nil, fmt.Errorf("failed to list placements: %w", err)
	}

	return placements, nil
}

// GetZonePlacements retrieves the active placements of a zone joined with
// their published content, ordered for display.
func (r *Repository) GetZonePlacements(ctx context.Context, zone string, now time.Time) ([]models.PlacementWithContent, error) {
	rows := []models.PlacementWithContent{}
	err := r.db.SelectContext(ctx, &rows, zoneQuery, zone, models.ContentStatusPublished, now)
	if err != nil {
		return nil, fmt.Errorf("failed to get zone placements: %w", err)
	}

	return rows, nil
}

// UpdatePlacement updates a placement
func (r *Repository) UpdatePlacement(ctx context.Context, id uuid.UUID, req *models.PlacementUpdateRequest) (*models.Placement, error) {
	updates := make(map[string]any)

	if req.Position != nil {
		updates["position"] = *req.Position
	}
	if req.Priority != nil {
		updates["priority"] = *req.Priority
	}
	if req.IsBreaking != nil {
		updates["is_breaking"] = *req.IsBreaking
	}
	if req.IsFeatured != nil {
		updates["is_featured"] = *req.IsFeatured
	}
	if req.Headline != nil {
		updates["headline"] = *req.Headline
	}
	if req.Image != nil {
		updates["image"] = *req.Image
	}
	if req.Excerpt != nil {
		updates["excerpt"] = *req.Excerpt
	}
	if req.Enabled != nil {
		updates["enabled"] = *req.Enabled
	}
	if req.StartsAt != nil {
		updates["starts_at"] = *req.StartsAt
	}
	if req.EndsAt != nil {
		updates["ends_at"] = *req.EndsAt
	}

	query, args, err := buildUpdateQuery("placements", "id", id, updates, placementFields)
	if err != nil {
		return nil, err
	}

	placement := &models.Placement{}
	err = r.db.QueryRowxContext(ctx, query, args...).StructScan(placement)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update placement: %w", err)
	}

	return placement, nil
}

// DeletePlacement deletes a placement
func (r *Repository) DeletePlacement(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM placements WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete placement: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return models.ErrNotFound
	}

	return nil
}

// ReplaceAutoPlacements swaps a zone's auto-managed placements for the given
// content, appended after the editor-managed rows. Content already placed in
// the zone by an editor is skipped. Returns the number of rows inserted.
func (r *Repository) ReplaceAutoPlacements(ctx context.Context, zone string, contentIDs []uuid.UUID) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err = tx.ExecContext(ctx,
		`DELETE FROM placements WHERE zone = $1 AND managed_by = $2`,
		zone, models.ManagedByAuto,
	); err != nil {
		return 0, fmt.Errorf("failed to clear auto placements: %w", err)
	}

	var start int
	if err = tx.GetContext(ctx, &start,
		`SELECT COALESCE(MAX(position) + 1, 0) FROM placements WHERE zone = $1`,
		zone,
	); err != nil {
		return 0, fmt.Errorf("failed to find zone tail position: %w", err)
	}

	inserted := 0
	now := time.Now()
	for i, contentID := range contentIDs {
		result, insErr := tx.ExecContext(ctx, `
			INSERT INTO placements (id, zone, content_id, position, priority, is_breaking, is_featured,
				enabled, managed_by, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, false, false, true, $6, $7, $7)
			ON CONFLICT (zone, content_id) DO NOTHING`,
			uuid.New(), zone, contentID, start+i, models.PriorityNormal, models.ManagedByAuto, now,
		)
		if insErr != nil {
			return 0, fmt.Errorf("failed to insert auto placement: %w", insErr)
		}
		n, raErr := result.RowsAffected()
		if raErr != nil {
			return 0, fmt.Errorf("failed to get rows affected: %w", raErr)
		}
		inserted += int(n)
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit auto placements: %w", err)
	}

	return inserted, nil
}

// SwapPlacementPositions exchanges the positions of two placements in a
// single transaction. Both rows must exist.
func (r *Repository) SwapPlacementPositions(ctx context.Context, a, b uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	var posA, posB int
	if err = tx.GetContext(ctx, &posA, `SELECT position FROM placements WHERE id = $1`, a); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ErrNotFound
		}
		return fmt.Errorf("failed to read placement position: %w", err)
	}
	if err = tx.GetContext(ctx, &posB, `SELECT position FROM placements WHERE id = $1`, b); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ErrNotFound
		}
		return fmt.Errorf("failed to read placement position: %w", err)
	}

	now := time.Now()
	if _, err = tx.ExecContext(ctx,
		`UPDATE placements SET position = $2, updated_at = $3 WHERE id = $1`,
		a, posB, now,
	); err != nil {
		return fmt.Errorf("failed to move placement: %w", err)
	}
	if _, err = tx.ExecContext(ctx,
		`UPDATE placements SET position = $2, updated_at = $3 WHERE id = $1`,
		b, posA, now,
	); err != nil {
		return fmt.Errorf("failed to move placement: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit position swap: %w", err)
	}

	return nil
}

// ZonesWithWindowEvents returns the zones containing placements whose
// activation window opened or closed in (since, until]. The cache for those
// zones is stale and needs invalidating ahead of TTL expiry.
func (r *Repository) ZonesWithWindowEvents(ctx context.Context, since, until time.Time) ([]string, error) {
	zones := []string{}
	query := `
		SELECT DISTINCT zone FROM placements
		WHERE (starts_at > $1 AND starts_at <= $2)
			OR (ends_at > $1 AND ends_at <= $2)
	`

	if err := r.db.SelectContext(ctx, &zones, query, since, until); err != nil {
		return nil, fmt.Errorf("failed to find window events: %w", err)
	}

	return zones, nil
}
