package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/traviworld/editorial/internal/models"
)

const contentFields = `id, type, slug, title, summary, body, card_image, hero_image,
		status, tags, meta_title, meta_description, canonical_url,
		published_at, created_at, updated_at`

// Repository provides database operations for all editorial entities
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a new repository instance
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Ping verifies the database connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// ====================
// Content
// ====================

// CreateContent creates a new content item in draft status
func (r *Repository) CreateContent(ctx context.Context, req *models.ContentCreateRequest) (*models.Content, error) {
	content := &models.Content{
		ID:              uuid.New(),
		Type:            req.Type,
		Slug:            req.Slug,
		Title:           req.Title,
		Summary:         req.Summary,
		Body:            req.Body,
		CardImage:       req.CardImage,
		HeroImage:       req.HeroImage,
		Status:          models.ContentStatusDraft,
		Tags:            pq.StringArray(req.Tags),
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
		CanonicalURL:    req.CanonicalURL,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
	if content.Tags == nil {
		content.Tags = pq.StringArray{}
	}

	query := `
		INSERT INTO contents (id, type, slug, title, summary, body, card_image, hero_image,
			status, tags, meta_title, meta_description, canonical_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING ` + contentFields

	err := r.db.QueryRowxContext(
		ctx, query,
		content.ID, content.Type, content.Slug, content.Title, content.Summary, content.Body,
		content.CardImage, content.HeroImage, content.Status, content.Tags,
		content.MetaTitle, content.MetaDescription, content.CanonicalURL,
		content.CreatedAt, content.UpdatedAt,
	).StructScan(content)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" { // unique_violation
			return nil, models.ErrAlreadyExists
		}
		return nil, fmt.Errorf("failed to create content: %w", err)
	}

	return content, nil
}

// GetContentByID retrieves a content item by ID
func (r *Repository) GetContentByID(ctx context.Context, id uuid.UUID) (*models.Content, error) {
	content := &models.Content{}
	query := `SELECT ` + contentFields + ` FROM contents WHERE id = $1`

	err := r.db.GetContext(ctx, content, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get content: %w", err)
	}

	return content, nil
}

// GetPublishedContentBySlug retrieves a published content item by its
// type/slug pair, the two components of its site URL.
func (r *Repository) GetPublishedContentBySlug(ctx context.Context, contentType, slug string) (*models.Content, error) {
	content := &models.Content{}
	query := `SELECT ` + contentFields + `
		FROM contents
		WHERE type = $1 AND slug = $2 AND status = $3`

	err := r.db.GetContext(ctx, content, query, contentType, slug, models.ContentStatusPublished)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get content by slug: %w", err)
	}

	return content, nil
}

// ListContent retrieves content items matching the filter, newest first
func (r *Repository) ListContent(ctx context.Context, filter *models.ContentFilter) ([]models.Content, error) {
	conditions := []string{}
	args := []any{}
	argPos := 1

	if filter.Type != "" {
		conditions = append(conditions, fmt.Sprintf("type = $%d", argPos))
		args = append(args, filter.Type)
		argPos++
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, filter.Status)
		argPos++
	}
	if filter.Tag != "" {
		conditions = append(conditions, fmt.Sprintf("$%d = ANY(tags)", argPos))
		args = append(args, filter.Tag)
		argPos++
	}

	query := `SELECT ` + contentFields + ` FROM contents`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	limit := filter.Limit
	if limit == 0 {
		limit = 50
	}
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, limit, filter.Offset)

	contents := []models.Content{}
	if err := r.db.SelectContext(ctx, &contents, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list content: %w", err)
	}

	return contents, nil
}

// ListPublishedContent retrieves every published item, newest first. Used by
// the sitemap builder, the search reindex and the SEO auditor.
func (r *Repository) ListPublishedContent(ctx context.Context) ([]models.Content, error) {
	contents := []models.Content{}
	query := `SELECT ` + contentFields + `
		FROM contents
		WHERE status = $1
		ORDER BY published_at DESC`

	if err := r.db.SelectContext(ctx, &contents, query, models.ContentStatusPublished); err != nil {
		return nil, fmt.Errorf("failed to list published content: %w", err)
	}

	return contents, nil
}

// UpdateContent updates a content item
func (r *Repository) UpdateContent(ctx context.Context, id uuid.UUID, req *models.ContentUpdateRequest) (*models.Content, error) {
	updates := make(map[string]any)

	if req.Slug != nil {
		updates["slug"] = *req.Slug
	}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Summary != nil {
		updates["summary"] = *req.Summary
	}
	if req.Body != nil {
		updates["body"] = *req.Body
	}
	if req.CardImage != nil {
		updates["card_image"] = *req.CardImage
	}
	if req.HeroImage != nil {
		updates["hero_image"] = *req.HeroImage
	}
	if req.Tags != nil {
		updates["tags"] = pq.StringArray(req.Tags)
	}
	if req.MetaTitle != nil {
		updates["meta_title"] = *req.MetaTitle
	}
	if req.MetaDescription != nil {
		updates["meta_description"] = *req.MetaDescription
	}
	if req.CanonicalURL != nil {
		updates["canonical_url"] = *req.CanonicalURL
	}

	query, args, err := buildUpdateQuery("contents", "id", id, updates, contentFields)
	if err != nil {
		return nil, err
	}

	content := &models.Content{}
	err = r.db.QueryRowxContext(ctx, query, args...).StructScan(content)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, models.ErrAlreadyExists
		}
		return nil, fmt.Errorf("failed to update content: %w", err)
	}

	return content, nil
}

// PublishContent marks a content item published. The original publish date
// is kept when republishing.
func (r *Repository) PublishContent(ctx context.Context, id uuid.UUID) (*models.Content, error) {
	content := &models.Content{}
	query := `
		UPDATE contents
		SET status = $2, published_at = COALESCE(published_at, $3), updated_at = $3
		WHERE id = $1
		RETURNING ` + contentFields

	err := r.db.QueryRowxContext(ctx, query, id, models.ContentStatusPublished, time.Now()).StructScan(content)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to publish content: %w", err)
	}

	return content, nil
}

// SetContentStatus moves a content item to draft or archived
func (r *Repository) SetContentStatus(ctx context.Context, id uuid.UUID, status string) (*models.Content, error) {
	content := &models.Content{}
	query := `
		UPDATE contents
		SET status = $2, updated_at = $3
		WHERE id = $1
		RETURNING ` + contentFields

	err := r.db.QueryRowxContext(ctx, query, id, status, time.Now()).StructScan(content)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to set content status: %w", err)
	}

	return content, nil
}

// DeleteContent deletes a content item and, via cascade, its placements
func (r *Repository) DeleteContent(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM contents WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete content: %w", err)
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

// ====================
// Helpers
// ====================

// joinStrings joins strings with a separator
func joinStrings(strs []string, sep string) string {
	result := ""
	for i, s := range strs {
		if i > 0 {
			result += sep
		}
		result += s
	}
	return result
}

// buildUpdateQuery builds a dynamic UPDATE query with the given fields.
// keyColumn identifies the row (id for most tables, zone for policies).
func buildUpdateQuery(table, keyColumn string, key any, updates map[string]any, returningFields string) (string, []any, error) {
	if len(updates) == 0 {
		return "", nil, models.ErrNoFieldsToUpdate
	}

	updateFields := make([]string, 0, len(updates)+1)
	args := make([]any, 0, len(updates)+2)
	argPos := 1

	for field, value := range updates {
		updateFields = append(updateFields, fmt.Sprintf("%s = $%d", field, argPos))
		args = append(args, value)
		argPos++
	}

	updateFields = append(updateFields, fmt.Sprintf("updated_at = $%d", argPos))
	args = append(args, time.Now())
	argPos++

	args = append(args, key)

	query := fmt.Sprintf(`
		UPDATE %s
		SET %s
		WHERE %s = $%d
		RETURNING %s
	`, table, joinStrings(updateFields, ", "), keyColumn, argPos, returningFields)

	return query, args, nil
}
