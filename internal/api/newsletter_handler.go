package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/traviworld/editorial/internal/logger"
	"github.com/traviworld/editorial/internal/models"
)

// Subscribe outcome statuses returned to the composer.
const (
	subscribeStatusSubscribed   = "subscribed"
	subscribeStatusAlready      = "already_subscribed"
	subscribeStatusResubscribed = "resubscribed"
)

// subscribe registers a newsletter subscription. Duplicate signups are
// idempotent: an active address reports already_subscribed, an unsubscribed
// one is reactivated with a fresh token.
// POST /api/newsletter/subscribe
func (r *Router) subscribe(c *gin.Context) {
	ctx := c.Request.Context()

	var req models.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request payload",
			"details": err.Error(),
		})
		return
	}

	req.Email = models.NormalizeEmail(req.Email)
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	_, err := r.repo.CreateSubscriber(ctx, req.Email)
	if err == nil {
		r.metrics.NewsletterSignupsTotal.Inc()
		c.JSON(http.StatusCreated, gin.H{
			"status": subscribeStatusSubscribed,
		})
		return
	}
	if !errors.Is(err, models.ErrAlreadyExists) {
		handleRepositoryError(c, err, "subscriber", "create")
		return
	}

	// The address exists; report or reactivate depending on its status
	subscriber, err := r.repo.GetSubscriberByEmail(ctx, req.Email)
	if err != nil {
		handleRepositoryError(c, err, "subscriber", "get")
		return
	}

	if subscriber.Status == models.SubscriberActive {
		c.JSON(http.StatusOK, gin.H{
			"status": subscribeStatusAlready,
		})
		return
	}

	if _, err := r.repo.ReactivateSubscriber(ctx, subscriber.ID); err != nil {
		handleRepositoryError(c, err, "subscriber", "reactivate")
		return
	}
	r.metrics.NewsletterSignupsTotal.Inc()

	c.JSON(http.StatusOK, gin.H{
		"status": subscribeStatusResubscribed,
	})
}

// unsubscribe deactivates the subscription carrying the token. Repeats are
// no-op successes so stale links in old newsletters keep working.
// POST /api/newsletter/unsubscribe/:token
func (r *Router) unsubscribe(c *gin.Context) {
	ctx := c.Request.Context()

	token, ok := parseUUID(c, "token", "unsubscribe token")
	if !ok {
		return
	}

	subscriber, err := r.repo.UnsubscribeByToken(ctx, token)
	if err != nil {
		handleRepositoryError(c, err, "subscription", "cancel")
		return
	}

	r.logger.Info("Subscriber unsubscribed",
		logger.String("subscriber_id", subscriber.ID.String()),
	)

	c.JSON(http.StatusOK, gin.H{
		"status": "unsubscribed",
	})
}

// listSubscribers returns subscribers matching the filter.
// GET /api/admin/subscribers?status=active&limit=100&offset=0
func (r *Router) listSubscribers(c *gin.Context) {
	ctx := c.Request.Context()

	var filter models.SubscriberFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	subscribers, err := r.repo.ListSubscribers(ctx, &filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list subscribers",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"subscribers": subscribers,
		"count":       len(subscribers),
	})
}

// deleteSubscriber removes a subscriber entirely.
// DELETE /api/admin/subscribers/:id
func (r *Router) deleteSubscriber(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := parseUUID(c, "id", "subscriber")
	if !ok {
		return
	}

	if err := r.repo.DeleteSubscriber(ctx, id); err != nil {
		handleRepositoryError(c, err, "subscriber", "delete")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Subscriber deleted successfully",
	})
}
