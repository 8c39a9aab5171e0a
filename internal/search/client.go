// Package search maintains the Elasticsearch index of published content
// and serves full-text queries against it.
package search

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	es "github.com/elastic/go-elasticsearch/v8"

	"github.com/traviworld/editorial/internal/logger"
)

const pingTimeout = 5 * time.Second

// Config holds connection settings for the search backend.
type Config struct {
	URL      string
	Username string
	Password string
	Index    string
}

// Client wraps the Elasticsearch client for a single content index.
type Client struct {
	esClient *es.Client
	index    string
	logger   logger.Logger
}

// NewClient creates an Elasticsearch client and verifies the connection.
func NewClient(cfg Config, log logger.Logger) (*Client, error) {
	addresses := []string{cfg.URL}
	if !strings.HasPrefix(cfg.URL, "http://") && !strings.HasPrefix(cfg.URL, "https://") {
		addresses = []string{"http://" + cfg.URL}
	}

	clientConfig := es.Config{
		Addresses: addresses,
	}
	if cfg.Username != "" {
		clientConfig.Username = cfg.Username
		clientConfig.Password = cfg.Password
	}

	esClient, err := es.NewClient(clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}

	client := &Client{
		esClient: esClient,
		index:    cfg.Index,
		logger:   log,
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := client.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping elasticsearch: %w", err)
	}

	return client, nil
}

// Ping verifies the Elasticsearch connection.
func (c *Client) Ping(ctx context.Context) error {
	res, err := c.esClient.Ping(c.esClient.Ping.WithContext(ctx))
	if err != nil {
		return err
	}
	defer func() {
		_ = res.Body.Close()
	}()

	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("elasticsearch ping failed: %s", string(body))
	}

	return nil
}

// Index returns the name of the content index.
func (c *Client) Index() string {
	return c.index
}
