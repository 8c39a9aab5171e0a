package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/traviworld/editorial/internal/logger"
	"github.com/traviworld/editorial/internal/models"
	"github.com/traviworld/editorial/internal/search"
)

// getZonePlacements returns the rendered placement list for a zone.
// GET /api/public/placements/:zone
func (r *Router) getZonePlacements(c *gin.Context) {
	ctx := c.Request.Context()

	zone := c.Param("zone")
	if !models.ValidZone(zone) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Unknown placement zone",
		})
		return
	}

	if payload, ok := r.zoneCache.Get(ctx, zone); ok {
		r.metrics.ZoneCacheHits.WithLabelValues(zone).Inc()
		c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
		return
	}
	r.metrics.ZoneCacheMisses.WithLabelValues(zone).Inc()

	rows, err := r.repo.GetZonePlacements(ctx, zone, time.Now().UTC())
	if err != nil {
		r.logger.Error("Failed to load zone placements",
			logger.String("zone", zone),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to load zone placements",
		})
		return
	}

	payload, err := json.Marshal(models.NewPublicPlacements(rows))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to encode zone placements",
		})
		return
	}

	// Cache write failures are logged inside the cache; the response is
	// served from the fresh payload either way
	_ = r.zoneCache.Set(ctx, zone, payload)

	c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
}

// getPublishedContent returns a published content item by its site URL pair.
// GET /api/public/content/:type/:slug
func (r *Router) getPublishedContent(c *gin.Context) {
	ctx := c.Request.Context()

	contentType := c.Param("type")
	slug := c.Param("slug")

	content, err := r.repo.GetPublishedContentBySlug(ctx, contentType, slug)
	if err != nil {
		handleRepositoryError(c, err, "content", "get")
		return
	}

	c.JSON(http.StatusOK, content)
}

// searchContent runs a full-text query over published content.
// GET /api/public/search?q=...&type=...&from=...&size=...
func (r *Router) searchContent(c *gin.Context) {
	ctx := c.Request.Context()

	if r.search == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Search is not available",
		})
		return
	}

	text := c.Query("q")
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Query parameter q is required",
		})
		return
	}

	query := search.Query{
		Text: text,
		Type: c.Query("type"),
		From: parseIntQuery(c, "from", 0),
		Size: parseIntQuery(c, "size", search.DefaultPageSize),
	}

	result, err := r.search.Search(ctx, query)
	if err != nil {
		r.metrics.SearchQueriesTotal.WithLabelValues("error").Inc()
		r.logger.Error("Search query failed",
			logger.String("query", text),
			logger.Error(err),
		)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Search is not available",
		})
		return
	}
	r.metrics.SearchQueriesTotal.WithLabelValues("ok").Inc()

	c.JSON(http.StatusOK, gin.H{
		"total": result.Total,
		"hits":  result.Hits,
	})
}

// trackView records one view event for a content item. The endpoint is
// fire-and-forget: it neither checks existence nor returns a body.
// POST /api/public/views/:id
func (r *Router) trackView(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := parseUUID(c, "id", "content")
	if !ok {
		return
	}

	if err := r.views.Track(ctx, id, time.Now().UTC()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to track view",
		})
		return
	}
	r.metrics.ViewsTrackedTotal.Inc()

	c.Status(http.StatusNoContent)
}

// listDestinations returns the destination catalogue.
// GET /api/public/destinations
func (r *Router) listDestinations(c *gin.Context) {
	destinations := r.catalog.All()

	c.JSON(http.StatusOK, gin.H{
		"destinations": destinations,
		"count":        len(destinations),
	})
}

// getDestination returns one catalogue entry by slug.
// GET /api/public/destinations/:slug
func (r *Router) getDestination(c *gin.Context) {
	slug := c.Param("slug")

	destination, ok := r.catalog.BySlug(slug)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "destination not found",
		})
		return
	}

	c.JSON(http.StatusOK, destination)
}

// parseIntQuery reads a non-negative integer query parameter, falling back
// to def when absent or malformed.
func parseIntQuery(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return def
	}
	return value
}
