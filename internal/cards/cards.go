// Package cards turns public placements into display cards: navigable URL,
// resolved image, badge, and text with placement overrides applied.
package cards

import (
	"time"

	"github.com/google/uuid"

	"github.com/traviworld/editorial/internal/models"
)

// Badge is the single badge state of a card. Breaking outranks featured;
// most cards carry none.
type Badge string

const (
	BadgeNone     Badge = ""
	BadgeBreaking Badge = "BREAKING"
	BadgeFeatured Badge = "FEATURED"
)

// Card is a fully resolved display card. All fallback chains have already
// been applied, so renderers never look at the underlying content.
type Card struct {
	ID          uuid.UUID  `json:"id"`
	Zone        string     `json:"zone"`
	Position    int        `json:"position"`
	URL         string     `json:"url"`
	Headline    string     `json:"headline"`
	Excerpt     string     `json:"excerpt"`
	Image       *string    `json:"image"`
	Badge       Badge      `json:"badge,omitempty"`
	PublishedAt *time.Time `json:"publishedAt"`
}

// ContentURL derives the navigable path for a content reference.
// Placement ids never appear in URLs.
func ContentURL(content *models.PublicContent) string {
	return "/" + content.Type + "/" + content.Slug
}

// ResolveImage applies the image fallback chain: the placement override
// wins, then the content's hero image, then its card image, then nothing.
// Empty strings count as absent, same as the text overrides.
func ResolveImage(placement *models.PublicPlacement) *string {
	if placement.Image != nil && *placement.Image != "" {
		return placement.Image
	}
	if placement.Content.HeroImage != nil && *placement.Content.HeroImage != "" {
		return placement.Content.HeroImage
	}
	if placement.Content.CardImage != nil && *placement.Content.CardImage != "" {
		return placement.Content.CardImage
	}
	return nil
}

// ResolveBadge computes the card's badge state once. Breaking takes
// precedence over featured regardless of flag combinations.
func ResolveBadge(placement *models.PublicPlacement) Badge {
	switch {
	case placement.IsBreaking:
		return BadgeBreaking
	case placement.IsFeatured:
		return BadgeFeatured
	default:
		return BadgeNone
	}
}

// ResolveHeadline prefers the placement's headline override over the
// content's own title.
func ResolveHeadline(placement *models.PublicPlacement) string {
	if placement.Headline != nil && *placement.Headline != "" {
		return *placement.Headline
	}
	return placement.Content.Title
}

// ResolveExcerpt prefers the placement's excerpt override over the
// content's summary.
func ResolveExcerpt(placement *models.PublicPlacement) string {
	if placement.Excerpt != nil && *placement.Excerpt != "" {
		return *placement.Excerpt
	}
	return placement.Content.Summary
}

// Build resolves a placement into a card.
func Build(placement *models.PublicPlacement) Card {
	return Card{
		ID:          placement.ID,
		Zone:        placement.Zone,
		Position:    placement.Position,
		URL:         ContentURL(&placement.Content),
		Headline:    ResolveHeadline(placement),
		Excerpt:     ResolveExcerpt(placement),
		Image:       ResolveImage(placement),
		Badge:       ResolveBadge(placement),
		PublishedAt: placement.Content.PublishedAt,
	}
}

// BuildAll resolves a zone's placements in order.
func BuildAll(placements []models.PublicPlacement) []Card {
	out := make([]Card, 0, len(placements))
	for i := range placements {
		out = append(out, Build(&placements[i]))
	}
	return out
}
