package models

import (
	"time"

	"github.com/google/uuid"
)

// PublicContent is the wire shape of a content reference embedded in a
// public placement. Field names are camelCase; absent optionals are null.
type PublicContent struct {
	ID          uuid.UUID  `json:"id"`
	Type        string     `json:"type"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Summary     string     `json:"summary"`
	CardImage   *string    `json:"cardImage"`
	HeroImage   *string    `json:"heroImage"`
	PublishedAt *time.Time `json:"publishedAt"`
}

// PublicPlacement is the wire shape served by the public zone endpoints and
// consumed by the homepage composer. Ordering is fixed server-side; arrays
// arrive sorted by position ascending.
type PublicPlacement struct {
	ID         uuid.UUID     `json:"id"`
	Zone       string        `json:"zone"`
	Position   int           `json:"position"`
	Priority   string        `json:"priority"`
	IsBreaking bool          `json:"isBreaking"`
	IsFeatured bool          `json:"isFeatured"`
	Headline   *string       `json:"headline"`
	Image      *string       `json:"image"`
	Excerpt    *string       `json:"excerpt"`
	Content    PublicContent `json:"content"`
}

// NewPublicPlacement maps a joined placement row to its wire shape.
func NewPublicPlacement(row *PlacementWithContent) PublicPlacement {
	return PublicPlacement{
		ID:         row.ID,
		Zone:       row.Zone,
		Position:   row.Position,
		Priority:   row.Priority,
		IsBreaking: row.IsBreaking,
		IsFeatured: row.IsFeatured,
		Headline:   row.Headline,
		Image:      row.Image,
		Excerpt:    row.Excerpt,
		Content: PublicContent{
			ID:          row.Content.ID,
			Type:        row.Content.Type,
			Slug:        row.Content.Slug,
			Title:       row.Content.Title,
			Summary:     row.Content.Summary,
			CardImage:   row.Content.CardImage,
			HeroImage:   row.Content.HeroImage,
			PublishedAt: row.Content.PublishedAt,
		},
	}
}

// NewPublicPlacements maps a slice of joined rows, preserving order.
func NewPublicPlacements(rows []PlacementWithContent) []PublicPlacement {
	out := make([]PublicPlacement, 0, len(rows))
	for i := range rows {
		out = append(out, NewPublicPlacement(&rows[i]))
	}
	return out
}
