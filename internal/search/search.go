package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/traviworld/editorial/internal/logger"
)

const (
	// DefaultPageSize is applied when a query does not set a size.
	DefaultPageSize = 10
	// MaxPageSize caps a single page of results.
	MaxPageSize = 50
)

// Query describes a full-text search over the content index.
type Query struct {
	Text string
	Type string
	From int
	Size int
}

// Hit is a single search result.
type Hit struct {
	ID          string     `json:"id"`
	Type        string     `json:"type"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Summary     string     `json:"summary"`
	URL         string     `json:"url"`
	Tags        []string   `json:"tags"`
	PublishedAt *time.Time `json:"published_at"`
	Score       float64    `json:"score"`
}

// Result is the outcome of a search query.
type Result struct {
	Total int64 `json:"total"`
	Hits  []Hit `json:"hits"`
}

// BuildQuery constructs the Elasticsearch request body for a query.
func BuildQuery(q Query) map[string]any {
	boolQuery := map[string]any{
		"must": []any{
			map[string]any{
				"multi_match": map[string]any{
					"query": q.Text,
					"fields": []string{
						"title^3",
						"summary^2",
						"body",
						"tags",
					},
				},
			},
		},
	}

	if q.Type != "" {
		boolQuery["filter"] = []any{
			map[string]any{
				"term": map[string]any{
					"type": q.Type,
				},
			},
		}
	}

	return map[string]any{
		"query":   map[string]any{"bool": boolQuery},
		"from":    q.From,
		"size":    q.Size,
		"_source": []string{"id", "type", "slug", "title", "summary", "tags", "published_at"},
	}
}

// Search executes a full-text query against the content index.
func (c *Client) Search(ctx context.Context, q Query) (*Result, error) {
	if q.Size <= 0 {
		q.Size = DefaultPageSize
	}
	if q.Size > MaxPageSize {
		q.Size = MaxPageSize
	}
	if q.From < 0 {
		q.From = 0
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(BuildQuery(q)); err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}

	res, err := c.esClient.Search(
		c.esClient.Search.WithContext(ctx),
		c.esClient.Search.WithIndex(c.index),
		c.esClient.Search.WithBody(&buf),
		c.esClient.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch search failed: %w", err)
	}
	defer func() {
		_ = res.Body.Close()
	}()

	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("elasticsearch returned error [%d]: %s", res.StatusCode, string(body))
	}

	result, err := ParseResult(res.Body)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("Search completed",
		logger.String("query", q.Text),
		logger.Int64("total_hits", result.Total),
	)

	return result, nil
}

// ParseResult decodes an Elasticsearch search response into a Result.
func ParseResult(body io.Reader) (*Result, error) {
	var esResponse struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				ID     string   `json:"_id"`
				Score  float64  `json:"_score"`
				Source Document `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}

	if err := json.NewDecoder(body).Decode(&esResponse); err != nil {
		return nil, fmt.Errorf("failed to decode elasticsearch response: %w", err)
	}

	result := &Result{
		Total: esResponse.Hits.Total.Value,
		Hits:  make([]Hit, 0, len(esResponse.Hits.Hits)),
	}

	for i := range esResponse.Hits.Hits {
		hit := &esResponse.Hits.Hits[i]
		if hit.Source.ID == "" {
			hit.Source.ID = hit.ID
		}

		result.Hits = append(result.Hits, Hit{
			ID:          hit.Source.ID,
			Type:        hit.Source.Type,
			Slug:        hit.Source.Slug,
			Title:       hit.Source.Title,
			Summary:     hit.Source.Summary,
			URL:         "/" + hit.Source.Type + "/" + hit.Source.Slug,
			Tags:        hit.Source.Tags,
			PublishedAt: hit.Source.PublishedAt,
			Score:       hit.Score,
		})
	}

	return result, nil
}
