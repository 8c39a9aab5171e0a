package models

import (
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Content types served by the site.
const (
	ContentTypeNews        = "news"
	ContentTypeDestination = "destination"
	ContentTypeOffplan     = "offplan"
	ContentTypeGuide       = "guide"
)

// ContentTypes lists every recognised content type.
var ContentTypes = []string{
	ContentTypeNews,
	ContentTypeDestination,
	ContentTypeOffplan,
	ContentTypeGuide,
}

// Content lifecycle statuses.
const (
	ContentStatusDraft     = "draft"
	ContentStatusPublished = "published"
	ContentStatusArchived  = "archived"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Content represents an editorial content item (article, destination page,
// off-plan listing or guide). The pair (type, slug) determines its site URL.
type Content struct {
	ID              uuid.UUID      `db:"id"               json:"id"`
	Type            string         `db:"type"             json:"type"`
	Slug            string         `db:"slug"             json:"slug"`
	Title           string         `db:"title"            json:"title"`
	Summary         string         `db:"summary"          json:"summary"`
	Body            string         `db:"body"             json:"body"`
	CardImage       *string        `db:"card_image"       json:"card_image"`
	HeroImage       *string        `db:"hero_image"       json:"hero_image"`
	Status          string         `db:"status"           json:"status"`
	Tags            pq.StringArray `db:"tags"             json:"tags"`
	MetaTitle       *string        `db:"meta_title"       json:"meta_title"`
	MetaDescription *string        `db:"meta_description" json:"meta_description"`
	CanonicalURL    *string        `db:"canonical_url"    json:"canonical_url"`
	PublishedAt     *time.Time     `db:"published_at"     json:"published_at"`
	CreatedAt       time.Time      `db:"created_at"       json:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"       json:"updated_at"`
}

// SitePath returns the canonical site path /{type}/{slug}.
func (c *Content) SitePath() string {
	return "/" + c.Type + "/" + c.Slug
}

// IsPublished reports whether the item is currently published.
func (c *Content) IsPublished() bool {
	return c.Status == ContentStatusPublished
}

// ContentCreateRequest represents the request payload for creating content
type ContentCreateRequest struct {
	Type            string   `binding:"required"                json:"type"`
	Slug            string   `binding:"required,min=1,max=255"  json:"slug"`
	Title           string   `binding:"required,min=1,max=500"  json:"title"`
	Summary         string   `binding:"max=2000"                json:"summary"`
	Body            string   `json:"body"`
	CardImage       *string  `binding:"omitempty,url"           json:"card_image"`
	HeroImage       *string  `binding:"omitempty,url"           json:"hero_image"`
	Tags            []string `json:"tags"`
	MetaTitle       *string  `binding:"omitempty,max=255"       json:"meta_title"`
	MetaDescription *string  `binding:"omitempty,max=500"       json:"meta_description"`
	CanonicalURL    *string  `binding:"omitempty,url"           json:"canonical_url"`
}

// ContentUpdateRequest represents the request payload for updating content
type ContentUpdateRequest struct {
	Slug            *string  `binding:"omitempty,min=1,max=255" json:"slug"`
	Title           *string  `binding:"omitempty,min=1,max=500" json:"title"`
	Summary         *string  `binding:"omitempty,max=2000"      json:"summary"`
	Body            *string  `json:"body"`
	CardImage       *string  `binding:"omitempty,url"           json:"card_image"`
	HeroImage       *string  `binding:"omitempty,url"           json:"hero_image"`
	Tags            []string `json:"tags"`
	MetaTitle       *string  `binding:"omitempty,max=255"       json:"meta_title"`
	MetaDescription *string  `binding:"omitempty,max=500"       json:"meta_description"`
	CanonicalURL    *string  `binding:"omitempty,url"           json:"canonical_url"`
}

// ContentFilter represents filter criteria for listing content
type ContentFilter struct {
	Type   string `form:"type"`
	Status string `form:"status"`
	Tag    string `form:"tag"`
	Limit  int    `binding:"omitempty,min=1,max=200" form:"limit"` // Default 50
	Offset int    `binding:"omitempty,min=0"         form:"offset"`
}

// ValidSlug reports whether slug is lowercase, hyphenated and non-empty.
func ValidSlug(slug string) bool {
	return slugPattern.MatchString(slug)
}

// Validate validates the content create request
func (r *ContentCreateRequest) Validate() error {
	if !validContentType(r.Type) {
		return ErrInvalidContentType
	}
	if !ValidSlug(r.Slug) {
		return ErrInvalidSlug
	}
	return nil
}

// Validate validates the content update request
func (r *ContentUpdateRequest) Validate() error {
	if r.Slug == nil && r.Title == nil && r.Summary == nil && r.Body == nil &&
		r.CardImage == nil && r.HeroImage == nil && r.Tags == nil &&
		r.MetaTitle == nil && r.MetaDescription == nil && r.CanonicalURL == nil {
		return ErrNoFieldsToUpdate
	}
	if r.Slug != nil && !ValidSlug(*r.Slug) {
		return ErrInvalidSlug
	}
	return nil
}

func validContentType(t string) bool {
	for _, ct := range ContentTypes {
		if ct == t {
			return true
		}
	}
	return false
}
