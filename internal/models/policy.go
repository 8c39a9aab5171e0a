package models

import "time"

// ZonePolicy controls how a zone is curated. Manual zones only carry
// editor-managed placements; auto zones are additionally filled by the
// trending worker from view counters.
type ZonePolicy struct {
	Zone          string    `db:"zone"           json:"zone"`
	Mode          string    `db:"mode"           json:"mode"`
	MaxItems      int       `db:"max_items"      json:"max_items"`
	MinViews      int       `db:"min_views"      json:"min_views"`
	LookbackHours int       `db:"lookback_hours" json:"lookback_hours"`
	UpdatedAt     time.Time `db:"updated_at"     json:"updated_at"`
}

// LookbackDays returns the lookback window in whole days, rounded up.
func (p *ZonePolicy) LookbackDays() int {
	days := p.LookbackHours / 24
	if p.LookbackHours%24 != 0 {
		days++
	}
	if days < 1 {
		days = 1
	}
	return days
}

// ZonePolicyUpdateRequest represents the request payload for updating a zone policy
type ZonePolicyUpdateRequest struct {
	Mode          *string `json:"mode"`
	MaxItems      *int    `binding:"omitempty,min=1,max=50"   json:"max_items"`
	MinViews      *int    `binding:"omitempty,min=0"          json:"min_views"`
	LookbackHours *int    `binding:"omitempty,min=1,max=720"  json:"lookback_hours"`
}

// Validate validates the zone policy update request
func (r *ZonePolicyUpdateRequest) Validate() error {
	if r.Mode == nil && r.MaxItems == nil && r.MinViews == nil && r.LookbackHours == nil {
		return ErrNoFieldsToUpdate
	}
	if r.Mode != nil && !ValidZoneMode(*r.Mode) {
		return ErrInvalidZoneMode
	}
	return nil
}
