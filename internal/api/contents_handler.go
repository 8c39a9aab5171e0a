package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/traviworld/editorial/internal/logger"
	"github.com/traviworld/editorial/internal/models"
	"github.com/traviworld/editorial/internal/tagger"
)

// listContent returns content items matching the filter
// GET /api/admin/contents?type=&status=&tag=&limit=&offset=
func (r *Router) listContent(c *gin.Context) {
	ctx := c.Request.Context()

	var filter models.ContentFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	contents, err := r.repo.ListContent(ctx, &filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list contents",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"contents": contents,
		"count":    len(contents),
	})
}

// createContent creates a new content item in draft status. Destination
// keywords found in the title or body are merged into its tags.
// POST /api/admin/contents
func (r *Router) createContent(c *gin.Context) {
	ctx := c.Request.Context()

	var req models.ContentCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request payload",
			"details": err.Error(),
		})
		return
	}

	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	req.Tags = tagger.MergeTags(req.Tags, r.tagger.Tags(req.Title, req.Body))

	content, err := r.repo.CreateContent(ctx, &req)
	if err != nil {
		handleRepositoryError(c, err, "content", "create")
		return
	}

	c.JSON(http.StatusCreated, content)
}

// getContent retrieves a content item by ID
// GET /api/admin/contents/:id
func (r *Router) getContent(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := parseUUID(c, "id", "content")
	if !ok {
		return
	}

	content, err := r.repo.GetContentByID(ctx, id)
	if err != nil {
		handleRepositoryError(c, err, "content", "get")
		return
	}

	c.JSON(http.StatusOK, content)
}

// updateContent updates a content item. Tags are recomputed against the
// effective title and body so destination tags follow edits.
// PUT /api/admin/contents/:id
func (r *Router) updateContent(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := parseUUID(c, "id", "content")
	if !ok {
		return
	}

	var req models.ContentUpdateRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request payload",
			"details": bindErr.Error(),
		})
		return
	}

	if validateErr := req.Validate(); validateErr != nil {
		handleValidationError(c, validateErr)
		return
	}

	existing, err := r.repo.GetContentByID(ctx, id)
	if err != nil {
		handleRepositoryError(c, err, "content", "get")
		return
	}

	title := existing.Title
	if req.Title != nil {
		title = *req.Title
	}
	body := existing.Body
	if req.Body != nil {
		body = *req.Body
	}
	baseTags := []string(existing.Tags)
	if req.Tags != nil {
		baseTags = req.Tags
	}
	req.Tags = tagger.MergeTags(baseTags, r.tagger.Tags(title, body))

	content, err := r.repo.UpdateContent(ctx, id, &req)
	if err != nil {
		handleRepositoryError(c, err, "content", "update")
		return
	}

	// Published items surface through zone payloads and search
	if content.IsPublished() {
		r.syncSearchIndex(ctx, content)
		_ = r.zoneCache.Invalidate(ctx, models.Zones...)
	}

	c.JSON(http.StatusOK, content)
}

// deleteContent deletes a content item and, via cascade, its placements
// DELETE /api/admin/contents/:id
func (r *Router) deleteContent(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := parseUUID(c, "id", "content")
	if !ok {
		return
	}

	if err := r.repo.DeleteContent(ctx, id); err != nil {
		handleRepositoryError(c, err, "content", "delete")
		return
	}

	if r.search != nil {
		if err := r.search.DeleteContent(ctx, id); err != nil {
			r.logger.Warn("Failed to remove deleted content from search index",
				logger.String("content_id", id.String()),
				logger.Error(err),
			)
		}
	}
	_ = r.zoneCache.Invalidate(ctx, models.Zones...)

	c.JSON(http.StatusOK, gin.H{
		"message": "Content deleted successfully",
	})
}

// publishContent marks a content item published and indexes it for search.
// Republishing keeps the original publish date.
// POST /api/admin/contents/:id/publish
func (r *Router) publishContent(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := parseUUID(c, "id", "content")
	if !ok {
		return
	}

	content, err := r.repo.PublishContent(ctx, id)
	if err != nil {
		handleRepositoryError(c, err, "content", "publish")
		return
	}

	r.syncSearchIndex(ctx, content)
	_ = r.zoneCache.Invalidate(ctx, models.Zones...)

	r.logger.Info("Content published",
		logger.String("content_id", content.ID.String()),
		logger.String("slug", content.Slug),
	)

	c.JSON(http.StatusOK, content)
}

// unpublishContent moves a content item back to draft and removes it from
// the search index.
// POST /api/admin/contents/:id/unpublish
func (r *Router) unpublishContent(c *gin.Context) {
	r.setContentStatus(c, models.ContentStatusDraft)
}

// archiveContent moves a content item to archived.
// POST /api/admin/contents/:id/archive
func (r *Router) archiveContent(c *gin.Context) {
	r.setContentStatus(c, models.ContentStatusArchived)
}

func (r *Router) setContentStatus(c *gin.Context, status string) {
	ctx := c.Request.Context()

	id, ok := parseUUID(c, "id", "content")
	if !ok {
		return
	}

	content, err := r.repo.SetContentStatus(ctx, id, status)
	if err != nil {
		handleRepositoryError(c, err, "content", "update")
		return
	}

	r.syncSearchIndex(ctx, content)
	_ = r.zoneCache.Invalidate(ctx, models.Zones...)

	c.JSON(http.StatusOK, content)
}

// syncSearchIndex mirrors a content item's lifecycle into the search index:
// published items are indexed, everything else is removed. Failures are
// logged and the admin write proceeds.
func (r *Router) syncSearchIndex(ctx context.Context, content *models.Content) {
	if r.search == nil {
		return
	}

	var err error
	if content.IsPublished() {
		err = r.search.IndexContent(ctx, content)
	} else {
		err = r.search.DeleteContent(ctx, content.ID)
	}
	if err != nil {
		r.logger.Warn("Failed to sync content into search index",
			logger.String("content_id", content.ID.String()),
			logger.String("status", content.Status),
			logger.Error(err),
		)
	}
}
