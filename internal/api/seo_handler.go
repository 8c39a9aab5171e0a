package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/traviworld/editorial/internal/logger"
	"github.com/traviworld/editorial/internal/seo"
)

const (
	defaultAuditListLimit = 50
	maxAuditListLimit     = 500
)

// getSitemap serves the sitemap: every published content URL plus the
// destination pages.
// GET /sitemap.xml
func (r *Router) getSitemap(c *gin.Context) {
	ctx := c.Request.Context()

	contents, err := r.repo.ListPublishedContent(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to build sitemap",
		})
		return
	}

	payload, err := seo.Sitemap(r.cfg.Site.BaseURL, contents, r.catalog.All())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to build sitemap",
		})
		return
	}

	c.Data(http.StatusOK, "application/xml; charset=utf-8", payload)
}

// getRobotsTxt serves the crawler policy.
// GET /robots.txt
func (r *Router) getRobotsTxt(c *gin.Context) {
	c.String(http.StatusOK, seo.RobotsTxt(r.cfg.Site.BaseURL))
}

// listLatestAudits returns the most recent audit per published page.
// GET /api/admin/seo/audits?limit=50
func (r *Router) listLatestAudits(c *gin.Context) {
	ctx := c.Request.Context()

	audits, err := r.repo.ListLatestSEOAudits(ctx, auditListLimit(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list SEO audits",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"audits": audits,
		"count":  len(audits),
	})
}

// listContentAudits returns the audit history of one content item.
// GET /api/admin/seo/audits/:id
func (r *Router) listContentAudits(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := parseUUID(c, "id", "content")
	if !ok {
		return
	}

	audits, err := r.repo.ListSEOAuditsForContent(ctx, id, auditListLimit(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list SEO audits",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"audits": audits,
		"count":  len(audits),
	})
}

// runSEOAudit starts an audit pass over all published content. The run
// continues in the background; progress lands in the audit log.
// POST /api/admin/seo/audit-runs
func (r *Router) runSEOAudit(c *gin.Context) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), auditRunTimeout)
		defer cancel()

		count, err := r.audits.RunSEOAudit(ctx)
		if err != nil {
			r.logger.Error("SEO audit run failed", logger.Error(err))
			return
		}
		r.logger.Info("SEO audit run finished", logger.Int("pages_audited", count))
	}()

	c.JSON(http.StatusAccepted, gin.H{
		"status": "started",
	})
}

func auditListLimit(c *gin.Context) int {
	limit := parseIntQuery(c, "limit", defaultAuditListLimit)
	if limit == 0 || limit > maxAuditListLimit {
		limit = defaultAuditListLimit
	}
	return limit
}
