package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/traviworld/editorial/internal/models"
)

const auditFields = `id, content_id, url, status_code, issues, checked_at`

// ====================
// SEO audits
// ====================

// CreateSEOAudit records one auditor pass over a page
func (r *Repository) CreateSEOAudit(ctx context.Context, contentID uuid.UUID, url string, statusCode int, issues []string) (*models.SEOAudit, error) {
	audit := &models.SEOAudit{
		ID:         uuid.New(),
		ContentID:  contentID,
		URL:        url,
		StatusCode: statusCode,
		Issues:     pq.StringArray(issues),
		CheckedAt:  time.Now(),
	}
	if audit.Issues == nil {
		audit.Issues = pq.StringArray{}
	}

	query := `
		INSERT INTO seo_audits (id, content_id, url, status_code, issues, checked_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + auditFields

	err := r.db.QueryRowxContext(
		ctx, query,
		audit.ID, audit.ContentID, audit.URL, audit.StatusCode, audit.Issues, audit.CheckedAt,
	).StructScan(audit)
	if err != nil {
		return nil, fmt.Errorf("failed to create seo audit: %w", err)
	}

	return audit, nil
}

// ListSEOAuditsForContent retrieves the audit history of one content item,
// newest first.
func (r *Repository) ListSEOAuditsForContent(ctx context.Context, contentID uuid.UUID, limit int) ([]models.SEOAudit, error) {
	if limit <= 0 {
		limit = 20
	}

	audits := []models.SEOAudit{}
	query := `SELECT ` + auditFields + `
		FROM seo_audits
		WHERE content_id = $1
		ORDER BY checked_at DESC
		LIMIT $2`

	if err := r.db.SelectContext(ctx, &audits, query, contentID, limit); err != nil {
		return nil, fmt.Errorf("failed to list seo audits: %w", err)
	}

	return audits, nil
}

// ListLatestSEOAudits retrieves the most recent audit per content item.
func (r *Repository) ListLatestSEOAudits(ctx context.Context, limit int) ([]models.SEOAudit, error) {
	if limit <= 0 {
		limit = 100
	}

	audits := []models.SEOAudit{}
	query := `
		SELECT DISTINCT ON (content_id) ` + auditFields + `
		FROM seo_audits
		ORDER BY content_id, checked_at DESC
		LIMIT $1`

	if err := r.db.SelectContext(ctx, &audits, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list latest seo audits: %w", err)
	}

	return audits, nil
}

// PruneSEOAudits drops audit rows older than the retention window.
func (r *Repository) PruneSEOAudits(ctx context.Context, olderThan time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM seo_audits WHERE checked_at < $1`, olderThan)
	if err != nil {
		return 0, fmt.Errorf("failed to prune seo audits: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows, nil
}
