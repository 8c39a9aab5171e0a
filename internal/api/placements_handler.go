package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/traviworld/editorial/internal/models"
)

// listPlacements returns every placement in a zone, active or not.
// GET /api/admin/placements?zone=trending
func (r *Router) listPlacements(c *gin.Context) {
	ctx := c.Request.Context()

	zone := c.Query("zone")
	if zone == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Query parameter zone is required",
		})
		return
	}
	if !models.ValidZone(zone) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": models.ErrInvalidZone.Error(),
		})
		return
	}

	placements, err := r.repo.ListPlacementsByZone(ctx, zone)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list placements",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"placements": placements,
		"count":      len(placements),
	})
}

// createPlacement pins a content item into a zone. A placement that would
// be immediately visible requires its content to be published.
// POST /api/admin/placements
func (r *Router) createPlacement(c *gin.Context) {
	ctx := c.Request.Context()

	var req models.PlacementCreateRequest
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

	content, err := r.repo.GetContentByID(ctx, req.ContentID)
	if err != nil {
		handleRepositoryError(c, err, "content", "get")
		return
	}

	probe := models.Placement{
		Enabled:  req.Enabled == nil || *req.Enabled,
		StartsAt: req.StartsAt,
		EndsAt:   req.EndsAt,
	}
	if probe.ActiveAt(time.Now().UTC()) && !content.IsPublished() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": models.ErrContentNotPublished.Error(),
		})
		return
	}

	placement, err := r.repo.CreatePlacement(ctx, &req)
	if err != nil {
		if errors.Is(err, models.ErrAlreadyExists) {
			c.JSON(http.StatusConflict, gin.H{
				"error": "Content is already placed in this zone",
			})
			return
		}
		handleRepositoryError(c, err, "placement", "create")
		return
	}

	_ = r.zoneCache.Invalidate(ctx, placement.Zone)

	c.JSON(http.StatusCreated, placement)
}

// getPlacement retrieves a placement by ID
// GET /api/admin/placements/:id
func (r *Router) getPlacement(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := parseUUID(c, "id", "placement")
	if !ok {
		return
	}

	placement, err := r.repo.GetPlacementByID(ctx, id)
	if err != nil {
		handleRepositoryError(c, err, "placement", "get")
		return
	}

	c.JSON(http.StatusOK, placement)
}

// updatePlacement updates a placement
// PUT /api/admin/placements/:id
func (r *Router) updatePlacement(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := parseUUID(c, "id", "placement")
	if !ok {
		return
	}

	var req models.PlacementUpdateRequest
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

	placement, err := r.repo.UpdatePlacement(ctx, id, &req)
	if err != nil {
		handleRepositoryError(c, err, "placement", "update")
		return
	}

	_ = r.zoneCache.Invalidate(ctx, placement.Zone)

	c.JSON(http.StatusOK, placement)
}

// deletePlacement removes a placement from its zone
// DELETE /api/admin/placements/:id
func (r *Router) deletePlacement(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := parseUUID(c, "id", "placement")
	if !ok {
		return
	}

	placement, err := r.repo.GetPlacementByID(ctx, id)
	if err != nil {
		handleRepositoryError(c, err, "placement", "get")
		return
	}

	if err := r.repo.DeletePlacement(ctx, id); err != nil {
		handleRepositoryError(c, err, "placement", "delete")
		return
	}

	_ = r.zoneCache.Invalidate(ctx, placement.Zone)

	c.JSON(http.StatusOK, gin.H{
		"message": "Placement deleted successfully",
	})
}

// swapPlacements exchanges the positions of two placements in the same zone.
// POST /api/admin/placements/:id/swap/:other
func (r *Router) swapPlacements(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := parseUUID(c, "id", "placement")
	if !ok {
		return
	}
	other, ok := parseUUID(c, "other", "placement")
	if !ok {
		return
	}
	if id == other {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Cannot swap a placement with itself",
		})
		return
	}

	first, err := r.repo.GetPlacementByID(ctx, id)
	if err != nil {
		handleRepositoryError(c, err, "placement", "get")
		return
	}
	second, err := r.repo.GetPlacementByID(ctx, other)
	if err != nil {
		handleRepositoryError(c, err, "placement", "get")
		return
	}
	if first.Zone != second.Zone {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Placements must be in the same zone",
		})
		return
	}

	if err := r.repo.SwapPlacementPositions(ctx, id, other); err != nil {
		handleRepositoryError(c, err, "placement", "swap")
		return
	}

	_ = r.zoneCache.Invalidate(ctx, first.Zone)

	c.JSON(http.StatusOK, gin.H{
		"message": "Placements swapped successfully",
	})
}
