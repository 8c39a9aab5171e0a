package composer

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/traviworld/editorial/internal/logger"
	"github.com/traviworld/editorial/internal/models"
)

// Handler exposes the composer over HTTP: the homepage document and the
// newsletter subscribe proxy.
type Handler struct {
	composer *Composer
	feed     Feed
	logger   logger.Logger
}

func NewHandler(c *Composer, feedClient Feed, log logger.Logger) *Handler {
	return &Handler{
		composer: c,
		feed:     feedClient,
		logger:   log,
	}
}

// RegisterRoutes mounts the composer routes on the engine.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/homepage", h.getHomepage)
	router.POST("/newsletter/subscribe", h.subscribe)
	router.GET("/healthz", h.health)
}

// getHomepage handles GET /homepage
func (h *Handler) getHomepage(c *gin.Context) {
	homepage := h.composer.Compose(c.Request.Context())
	c.JSON(http.StatusOK, homepage)
}

// subscribe handles POST /newsletter/subscribe by forwarding to the
// editorial API.
func (h *Handler) subscribe(c *gin.Context) {
	var req models.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request payload",
			"details": err.Error(),
		})
		return
	}

	result, err := h.feed.Subscribe(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, models.ErrInvalidEmail) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email address"})
			return
		}
		h.logger.Error("Newsletter subscribe proxy failed", logger.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "newsletter service unavailable"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// health handles GET /healthz
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "composer",
	})
}
