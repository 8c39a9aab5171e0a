package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/traviworld/editorial/internal/models"
)

// listZonePolicies returns the curation policy of every zone.
// GET /api/admin/zone-policies
func (r *Router) listZonePolicies(c *gin.Context) {
	ctx := c.Request.Context()

	policies, err := r.repo.ListZonePolicies(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list zone policies",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"policies": policies,
		"count":    len(policies),
	})
}

// getZonePolicy retrieves one zone's policy
// GET /api/admin/zone-policies/:zone
func (r *Router) getZonePolicy(c *gin.Context) {
	ctx := c.Request.Context()

	policy, err := r.repo.GetZonePolicy(ctx, c.Param("zone"))
	if err != nil {
		handleRepositoryError(c, err, "zone policy", "get")
		return
	}

	c.JSON(http.StatusOK, policy)
}

// updateZonePolicy updates a zone's curation policy. Changes take effect at
// the next trending run; no cache is touched here.
// PUT /api/admin/zone-policies/:zone
func (r *Router) updateZonePolicy(c *gin.Context) {
	ctx := c.Request.Context()

	var req models.ZonePolicyUpdateRequest
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

	policy, err := r.repo.UpdateZonePolicy(ctx, c.Param("zone"), &req)
	if err != nil {
		handleRepositoryError(c, err, "zone policy", "update")
		return
	}

	c.JSON(http.StatusOK, policy)
}
