package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/traviworld/editorial/internal/models"
)

const policyFields = `zone, mode, max_items, min_views, lookback_hours, updated_at`

// ====================
// Zone policies
// ====================

// ListZonePolicies retrieves every zone policy in registry order
func (r *Repository) ListZonePolicies(ctx context.Context) ([]models.ZonePolicy, error) {
	policies := []models.ZonePolicy{}
	query := `SELECT ` + policyFields + ` FROM zone_policies ORDER BY zone ASC`

	if err := r.db.SelectContext(ctx, &policies, query); err != nil {
		return nil, fmt.Errorf("failed to list zone policies: %w", err)
	}

	return policies, nil
}

// GetZonePolicy retrieves the policy for a zone
func (r *Repository) GetZonePolicy(ctx context.Context, zone string) (*models.ZonePolicy, error) {
	policy := &models.ZonePolicy{}
	query := `SELECT ` + policyFields + ` FROM zone_policies WHERE zone = $1`

	err := r.db.GetContext(ctx, policy, query, zone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get zone policy: %w", err)
	}

	return policy, nil
}

// ListAutoZonePolicies retrieves the policies of zones in auto mode
func (r *Repository) ListAutoZonePolicies(ctx context.Context) ([]models.ZonePolicy, error) {
	policies := []models.ZonePolicy{}
	query := `SELECT ` + policyFields + ` FROM zone_policies WHERE mode = $1 ORDER BY zone ASC`

	if err := r.db.SelectContext(ctx, &policies, query, models.ZoneModeAuto); err != nil {
		return nil, fmt.Errorf("failed to list auto zone policies: %w", err)
	}

	return policies, nil
}

// UpdateZonePolicy updates a zone's curation policy. Policies exist for every
// zone from the start; there is no create or delete.
func (r *Repository) UpdateZonePolicy(ctx context.Context, zone string, req *models.ZonePolicyUpdateRequest) (*models.ZonePolicy, error) {
	updates := make(map[string]any)

	if req.Mode != nil {
		updates["mode"] = *req.Mode
	}
	if req.MaxItems != nil {
		updates["max_items"] = *req.MaxItems
	}
	if req.MinViews != nil {
		updates["min_views"] = *req.MinViews
	}
	if req.LookbackHours != nil {
		updates["lookback_hours"] = *req.LookbackHours
	}

	query, args, err := buildUpdateQuery("zone_policies", "zone", zone, updates, policyFields)
	if err != nil {
		return nil, err
	}

	policy := &models.ZonePolicy{}
	err = r.db.QueryRowxContext(ctx, query, args...).StructScan(policy)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update zone policy: %w", err)
	}

	return policy, nil
}
