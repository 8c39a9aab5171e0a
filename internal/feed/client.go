// Package feed is the composer's client for the editorial API: zone
// snapshots behind a TTL cache with single-retry fetches, plus the
// newsletter subscribe proxy.
package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/traviworld/editorial/internal/logger"
	"github.com/traviworld/editorial/internal/models"
	"github.com/traviworld/editorial/internal/retry"
)

const fetchRetryDelay = 200 * time.Millisecond

// Client fetches public placements from the editorial API. Zone reads go
// through a per-zone TTL cache; concurrent misses on the same zone share
// one upstream request.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      *Cache
	group      singleflight.Group
	retryCfg   retry.Config
	logger     logger.Logger
}

// SubscribeResult reports the outcome of a newsletter signup.
type SubscribeResult struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func NewClient(baseURL string, timeout, cacheTTL time.Duration, log logger.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		cache:      NewCache(cacheTTL),
		retryCfg: retry.Config{
			MaxAttempts:  2,
			InitialDelay: fetchRetryDelay,
			// Every fetch failure gets the one retry: non-2xx and
			// network errors are equivalent to the caller
			IsRetryable: func(error) bool { return true },
		},
		logger: log,
	}
}

// GetZone returns the zone's placements, serving a fresh cached snapshot
// when one exists. A miss fetches upstream with a single automatic retry;
// the fetched snapshot is cached for the configured TTL.
func (c *Client) GetZone(ctx context.Context, zone string) ([]models.PublicPlacement, error) {
	if placements, ok := c.cache.Get(zone, time.Now()); ok {
		c.logger.Debug("Zone served from cache", logger.String("zone", zone))
		return placements, nil
	}

	result, err, shared := c.group.Do(zone, func() (any, error) {
		// Another caller may have filled the cache while we waited
		if placements, ok := c.cache.Get(zone, time.Now()); ok {
			return placements, nil
		}

		var placements []models.PublicPlacement
		fetchErr := retry.Retry(ctx, c.retryCfg, func() error {
			var err error
			placements, err = c.fetchZone(ctx, zone)
			return err
		})
		if fetchErr != nil {
			return nil, fetchErr
		}

		c.cache.Set(zone, placements, time.Now())
		return placements, nil
	})
	if err != nil {
		return nil, err
	}

	if shared {
		c.logger.Debug("Zone fetch shared with concurrent caller", logger.String("zone", zone))
	}

	placements, ok := result.([]models.PublicPlacement)
	if !ok {
		return nil, fmt.Errorf("unexpected zone result type %T", result)
	}
	return placements, nil
}

func (c *Client) fetchZone(ctx context.Context, zone string) ([]models.PublicPlacement, error) {
	url := fmt.Sprintf("%s/api/public/placements/%s", c.baseURL, zone)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.Warn("Failed to fetch zone from editorial API",
			logger.String("zone", zone),
			logger.String("url", url),
			logger.Duration("duration", duration),
			logger.Error(err),
		)
		return nil, fmt.Errorf("fetch zone %s: %w", zone, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("Editorial API returned non-OK status for zone",
			logger.String("zone", zone),
			logger.Int("status_code", resp.StatusCode),
			logger.Duration("duration", duration),
		)
		return nil, fmt.Errorf("editorial API returned status %d for zone %s", resp.StatusCode, zone)
	}

	var placements []models.PublicPlacement
	if err = json.NewDecoder(resp.Body).Decode(&placements); err != nil {
		c.logger.Error("Failed to decode zone response",
			logger.String("zone", zone),
			logger.Error(err),
		)
		return nil, fmt.Errorf("decode zone response: %w", err)
	}

	c.logger.Debug("Fetched zone from editorial API",
		logger.String("zone", zone),
		logger.Int("placement_count", len(placements)),
		logger.Duration("duration", duration),
	)

	return placements, nil
}

// Subscribe forwards a newsletter signup to the editorial API. Emails
// without an @ are rejected locally and no request is made.
func (c *Client) Subscribe(ctx context.Context, email string) (*SubscribeResult, error) {
	if !strings.Contains(email, "@") {
		return nil, models.ErrInvalidEmail
	}

	payload, err := json.Marshal(map[string]string{"email": email})
	if err != nil {
		return nil, fmt.Errorf("marshal subscribe request: %w", err)
	}

	url := c.baseURL + "/api/newsletter/subscribe"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Failed to reach editorial API for subscribe",
			logger.String("url", url),
			logger.Error(err),
		)
		return nil, fmt.Errorf("subscribe: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusCreated, http.StatusOK:
		var result SubscribeResult
		if err = json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return nil, fmt.Errorf("decode subscribe response: %w", err)
		}
		return &result, nil
	case http.StatusBadRequest:
		var apiErr errorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("%w: %s", models.ErrInvalidEmail, apiErr.Error)
		}
		return nil, models.ErrInvalidEmail
	default:
		return nil, fmt.Errorf("editorial API returned status %d", resp.StatusCode)
	}
}
