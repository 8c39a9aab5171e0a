package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/traviworld/editorial/internal/logger"
	"github.com/traviworld/editorial/internal/models"
)

// Document is the indexed representation of a published content item.
type Document struct {
	ID          string     `json:"id"`
	Type        string     `json:"type"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Summary     string     `json:"summary"`
	Body        string     `json:"body"`
	Tags        []string   `json:"tags"`
	PublishedAt *time.Time `json:"published_at"`
}

// NewDocument builds the index document for a content item.
func NewDocument(content *models.Content) Document {
	return Document{
		ID:          content.ID.String(),
		Type:        content.Type,
		Slug:        content.Slug,
		Title:       content.Title,
		Summary:     content.Summary,
		Body:        content.Body,
		Tags:        content.Tags,
		PublishedAt: content.PublishedAt,
	}
}

// IndexContent indexes a single content item, replacing any existing document.
func (c *Client) IndexContent(ctx context.Context, content *models.Content) error {
	doc := NewDocument(content)

	docBytes, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	res, err := c.esClient.Index(
		c.index,
		bytes.NewReader(docBytes),
		c.esClient.Index.WithContext(ctx),
		c.esClient.Index.WithDocumentID(doc.ID),
	)
	if err != nil {
		return fmt.Errorf("failed to index document: %w", err)
	}
	defer func() {
		_ = res.Body.Close()
	}()

	if res.IsError() {
		return fmt.Errorf("error indexing document: %s", res.String())
	}

	c.logger.Debug("Indexed content",
		logger.String("content_id", doc.ID),
		logger.String("slug", doc.Slug),
	)

	return nil
}

// DeleteContent removes a content item from the index. A missing document
// is not an error so unpublish and delete stay idempotent.
func (c *Client) DeleteContent(ctx context.Context, contentID uuid.UUID) error {
	res, err := c.esClient.Delete(
		c.index,
		contentID.String(),
		c.esClient.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	defer func() {
		_ = res.Body.Close()
	}()

	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("error deleting document: %s", res.String())
	}

	return nil
}

// BulkIndex indexes a batch of content items in a single bulk request.
func (c *Client) BulkIndex(ctx context.Context, contents []*models.Content) error {
	if len(contents) == 0 {
		return nil
	}

	var buf bytes.Buffer
	for _, content := range contents {
		doc := NewDocument(content)

		meta := map[string]any{
			"index": map[string]any{
				"_index": c.index,
				"_id":    doc.ID,
			},
		}

		if err := json.NewEncoder(&buf).Encode(meta); err != nil {
			return fmt.Errorf("failed to encode meta: %w", err)
		}

		if err := json.NewEncoder(&buf).Encode(doc); err != nil {
			return fmt.Errorf("failed to encode document: %w", err)
		}
	}

	res, err := c.esClient.Bulk(
		bytes.NewReader(buf.Bytes()),
		c.esClient.Bulk.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("bulk request failed: %w", err)
	}
	defer func() {
		_ = res.Body.Close()
	}()

	if res.IsError() {
		return fmt.Errorf("bulk indexing error: %s", res.String())
	}

	c.logger.Info("Bulk indexed content",
		logger.Int("count", len(contents)),
	)

	return nil
}
