package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/traviworld/editorial/internal/logger"
)

// getStatsOverview returns the back-office dashboard numbers: placements
// per zone, content counts, subscriber counts and today's view total.
// GET /api/admin/stats/overview
func (r *Router) getStatsOverview(c *gin.Context) {
	ctx := c.Request.Context()

	placementsByZone, err := r.repo.GetZonePlacementCounts(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to load stats",
		})
		return
	}

	contentByStatus, err := r.repo.GetContentCountsByStatus(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to load stats",
		})
		return
	}

	publishedByType, err := r.repo.GetPublishedCountsByType(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to load stats",
		})
		return
	}

	subscribers, err := r.repo.GetSubscriberCounts(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to load stats",
		})
		return
	}

	// Redis being down degrades the view total to zero, not the endpoint
	viewsToday, err := r.views.TotalForDay(ctx, time.Now().UTC())
	if err != nil {
		r.logger.Warn("Failed to count today's views", logger.Error(err))
		viewsToday = 0
	}

	c.JSON(http.StatusOK, gin.H{
		"placements_by_zone": placementsByZone,
		"content_by_status":  contentByStatus,
		"published_by_type":  publishedByType,
		"subscribers":        subscribers,
		"views_today":        viewsToday,
	})
}
