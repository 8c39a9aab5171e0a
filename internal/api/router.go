// Package api implements the editorial HTTP API: the public placement,
// content, search and newsletter endpoints plus the JWT-protected admin
// back office.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/traviworld/editorial/internal/catalog"
	"github.com/traviworld/editorial/internal/config"
	"github.com/traviworld/editorial/internal/database"
	"github.com/traviworld/editorial/internal/httpserver"
	"github.com/traviworld/editorial/internal/logger"
	"github.com/traviworld/editorial/internal/metrics"
	"github.com/traviworld/editorial/internal/middleware"
	"github.com/traviworld/editorial/internal/search"
	"github.com/traviworld/editorial/internal/tagger"
	"github.com/traviworld/editorial/internal/views"
	"github.com/traviworld/editorial/internal/zonecache"
)

const (
	healthCheckTimeout = 2 * time.Second
	auditRunTimeout    = 10 * time.Minute

	serviceName = "editorial-api"
)

// AuditRunner triggers one full SEO audit pass over published content.
type AuditRunner interface {
	RunSEOAudit(ctx context.Context) (int, error)
}

// Deps carries the services the router dispatches to. Search may be nil
// when the search backend is disabled; everything else is required.
type Deps struct {
	Repo      *database.Repository
	Redis     *redis.Client
	ZoneCache *zonecache.Cache
	Views     *views.Counter
	Search    *search.Client
	Catalog   *catalog.Catalog
	Tagger    *tagger.Tagger
	Metrics   *metrics.Metrics
	Audits    AuditRunner
}

// Router holds the API dependencies
type Router struct {
	repo        *database.Repository
	redisClient *redis.Client
	zoneCache   *zonecache.Cache
	views       *views.Counter
	search      *search.Client
	catalog     *catalog.Catalog
	tagger      *tagger.Tagger
	metrics     *metrics.Metrics
	audits      AuditRunner
	cfg         *config.Config
	logger      logger.Logger

	done chan struct{}
}

// NewRouter creates a new API router
func NewRouter(deps Deps, cfg *config.Config, log logger.Logger) *Router {
	return &Router{
		repo:        deps.Repo,
		redisClient: deps.Redis,
		zoneCache:   deps.ZoneCache,
		views:       deps.Views,
		search:      deps.Search,
		catalog:     deps.Catalog,
		tagger:      deps.Tagger,
		metrics:     deps.Metrics,
		audits:      deps.Audits,
		cfg:         cfg,
		logger:      log,
		done:        make(chan struct{}),
	}
}

// NewServer builds the HTTP server with the shared middleware stack and
// every API route registered.
func (r *Router) NewServer() *httpserver.Server {
	serverCfg := &httpserver.Config{
		ServiceName:  serviceName,
		Addr:         r.cfg.API.Address,
		Debug:        r.cfg.Debug,
		ReadTimeout:  r.cfg.API.ReadTimeout,
		WriteTimeout: r.cfg.API.WriteTimeout,
		IdleTimeout:  r.cfg.API.IdleTimeout,
		CORS: middleware.CORSConfig{
			Enabled:          true,
			AllowedOrigins:   r.cfg.API.CORSOrigins,
			AllowCredentials: true,
		},
	}

	return httpserver.NewServer(serverCfg, r.logger, r.setupRoutes)
}

// Close stops the background goroutines owned by the router.
func (r *Router) Close() {
	close(r.done)
}

// setupRoutes registers every route on the engine.
func (r *Router) setupRoutes(router *gin.Engine) {
	router.Use(r.metrics.Middleware())

	router.GET("/healthz", r.healthz)
	router.GET("/metrics", gin.WrapH(r.metrics.Handler()))
	router.GET("/sitemap.xml", r.getSitemap)
	router.GET("/robots.txt", r.getRobotsTxt)

	// Public read surface
	public := router.Group("/api/public")
	public.GET("/placements/:zone", r.getZonePlacements)
	public.GET("/content/:type/:slug", r.getPublishedContent)
	public.GET("/search", r.searchContent)
	public.GET("/destinations", r.listDestinations)
	public.GET("/destinations/:slug", r.getDestination)

	// Public write surface, rate limited per IP
	rateLimit := middleware.RateLimiter(
		r.cfg.RateLimit.MaxPerMinute,
		time.Duration(r.cfg.RateLimit.WindowSeconds)*time.Second,
		r.done,
	)
	public.POST("/views/:id", rateLimit, r.trackView)

	newsletter := router.Group("/api/newsletter")
	newsletter.POST("/subscribe", rateLimit, r.subscribe)
	newsletter.POST("/unsubscribe/:token", r.unsubscribe)

	// Admin back office, JWT protected
	admin := router.Group("/api/admin")
	admin.Use(middleware.Auth(r.cfg.Auth.JWTSecret))

	contents := admin.Group("/contents")
	contents.GET("", r.listContent)
	contents.POST("", r.createContent)
	contents.GET("/:id", r.getContent)
	contents.PUT("/:id", r.updateContent)
	contents.DELETE("/:id", r.deleteContent)
	contents.POST("/:id/publish", r.publishContent)
	contents.POST("/:id/unpublish", r.unpublishContent)
	contents.POST("/:id/archive", r.archiveContent)

	placements := admin.Group("/placements")
	placements.GET("", r.listPlacements)
	placements.POST("", r.createPlacement)
	placements.GET("/:id", r.getPlacement)
	placements.PUT("/:id", r.updatePlacement)
	placements.DELETE("/:id", r.deletePlacement)
	placements.POST("/:id/swap/:other", r.swapPlacements)

	policies := admin.Group("/zone-policies")
	policies.GET("", r.listZonePolicies)
	policies.GET("/:zone", r.getZonePolicy)
	policies.PUT("/:zone", r.updateZonePolicy)

	subscribers := admin.Group("/subscribers")
	subscribers.GET("", r.listSubscribers)
	subscribers.DELETE("/:id", r.deleteSubscriber)

	seoGroup := admin.Group("/seo")
	seoGroup.GET("/audits", r.listLatestAudits)
	seoGroup.GET("/audits/:id", r.listContentAudits)
	seoGroup.POST("/audit-runs", r.runSEOAudit)

	stats := admin.Group("/stats")
	stats.GET("/overview", r.getStatsOverview)
}

// healthz reports liveness plus named dependency checks.
func (r *Router) healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	health := gin.H{
		"status":  "healthy",
		"service": serviceName,
	}

	dbConnected := true
	if err := r.repo.Ping(ctx); err != nil {
		dbConnected = false
		health["status"] = "degraded"
	}
	health["database"] = gin.H{"connected": dbConnected}

	redisConnected := true
	if err := r.redisClient.Ping(ctx).Err(); err != nil {
		redisConnected = false
		health["status"] = "degraded"
	}
	health["redis"] = gin.H{"connected": redisConnected}

	if r.search != nil {
		esConnected := true
		if err := r.search.Ping(ctx); err != nil {
			esConnected = false
			health["status"] = "degraded"
		}
		health["elasticsearch"] = gin.H{"connected": esConnected}
	}

	c.JSON(http.StatusOK, health)
}
