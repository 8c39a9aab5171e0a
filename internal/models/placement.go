package models

import (
	"time"

	"github.com/google/uuid"
)

// Placement priority tags. Priority is an editorial weight hint; it does not
// affect ordering, which is always position ascending.
const (
	PriorityNormal = "normal"
	PriorityHigh   = "high"
)

// Placement managers.
const (
	ManagedByEditor = "editor"
	ManagedByAuto   = "auto"
)

// Placement pins a content item into a zone. Display fields (headline, image,
// excerpt) are optional overrides; absent values fall back to the content
// item's own fields.
type Placement struct {
	ID         uuid.UUID  `db:"id"          json:"id"`
	Zone       string     `db:"zone"        json:"zone"`
	ContentID  uuid.UUID  `db:"content_id"  json:"content_id"`
	Position   int        `db:"position"    json:"position"`
	Priority   string     `db:"priority"    json:"priority"`
	IsBreaking bool       `db:"is_breaking" json:"is_breaking"`
	IsFeatured bool       `db:"is_featured" json:"is_featured"`
	Headline   *string    `db:"headline"    json:"headline"`
	Image      *string    `db:"image"       json:"image"`
	Excerpt    *string    `db:"excerpt"     json:"excerpt"`
	Enabled    bool       `db:"enabled"     json:"enabled"`
	StartsAt   *time.Time `db:"starts_at"   json:"starts_at"`
	EndsAt     *time.Time `db:"ends_at"     json:"ends_at"`
	ManagedBy  string     `db:"managed_by"  json:"managed_by"`
	CreatedAt  time.Time  `db:"created_at"  json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"  json:"updated_at"`
}

// PlacementWithContent is a placement row joined with its content item, as
// returned by the zone queries. Content columns are aliased content_*.
type PlacementWithContent struct {
	Placement
	Content Content `db:"content"`
}

// PlacementCreateRequest represents the request payload for creating a placement
type PlacementCreateRequest struct {
	Zone       string     `binding:"required"           json:"zone"`
	ContentID  uuid.UUID  `binding:"required"           json:"content_id"`
	Position   *int       `binding:"omitempty,min=0"    json:"position"` // Defaults to end of zone
	Priority   string     `json:"priority"`
	IsBreaking bool       `json:"is_breaking"`
	IsFeatured bool       `json:"is_featured"`
	Headline   *string    `binding:"omitempty,max=500"  json:"headline"`
	Image      *string    `binding:"omitempty,url"      json:"image"`
	Excerpt    *string    `binding:"omitempty,max=1000" json:"excerpt"`
	Enabled    *bool      `json:"enabled"` // Pointer to allow omission (defaults to true)
	StartsAt   *time.Time `json:"starts_at"`
	EndsAt     *time.Time `json:"ends_at"`
}

// PlacementUpdateRequest represents the request payload for updating a placement
type PlacementUpdateRequest struct {
	Position   *int       `binding:"omitempty,min=0"    json:"position"`
	Priority   *string    `json:"priority"`
	IsBreaking *bool      `json:"is_breaking"`
	IsFeatured *bool      `json:"is_featured"`
	Headline   *string    `binding:"omitempty,max=500"  json:"headline"`
	Image      *string    `binding:"omitempty,url"      json:"image"`
	Excerpt    *string    `binding:"omitempty,max=1000" json:"excerpt"`
	Enabled    *bool      `json:"enabled"`
	StartsAt   *time.Time `json:"starts_at"`
	EndsAt     *time.Time `json:"ends_at"`
}

// Validate validates the placement create request
func (r *PlacementCreateRequest) Validate() error {
	if !ValidZone(r.Zone) {
		return ErrInvalidZone
	}
	if r.Priority != "" && r.Priority != PriorityNormal && r.Priority != PriorityHigh {
		return ErrInvalidPriority
	}
	if r.StartsAt != nil && r.EndsAt != nil && !r.EndsAt.After(*r.StartsAt) {
		return ErrInvalidWindow
	}
	return nil
}

// Validate validates the placement update request
func (r *PlacementUpdateRequest) Validate() error {
	if r.Position == nil && r.Priority == nil && r.IsBreaking == nil &&
		r.IsFeatured == nil && r.Headline == nil && r.Image == nil &&
		r.Excerpt == nil && r.Enabled == nil && r.StartsAt == nil && r.EndsAt == nil {
		return ErrNoFieldsToUpdate
	}
	if r.Priority != nil && *r.Priority != PriorityNormal && *r.Priority != PriorityHigh {
		return ErrInvalidPriority
	}
	if r.StartsAt != nil && r.EndsAt != nil && !r.EndsAt.After(*r.StartsAt) {
		return ErrInvalidWindow
	}
	return nil
}

// ActiveAt reports whether the placement is inside its activation window.
// A nil bound is open on that side.
func (p *Placement) ActiveAt(now time.Time) bool {
	if !p.Enabled {
		return false
	}
	if p.StartsAt != nil && now.Before(*p.StartsAt) {
		return false
	}
	if p.EndsAt != nil && !now.Before(*p.EndsAt) {
		return false
	}
	return true
}
