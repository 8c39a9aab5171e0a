package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Subscriber statuses.
const (
	SubscriberActive       = "active"
	SubscriberUnsubscribed = "unsubscribed"
)

// Subscriber represents a newsletter subscription. Emails are stored
// lowercased and unique.
type Subscriber struct {
	ID               uuid.UUID  `db:"id"                json:"id"`
	Email            string     `db:"email"             json:"email"`
	Status           string     `db:"status"            json:"status"`
	UnsubscribeToken uuid.UUID  `db:"unsubscribe_token" json:"-"`
	SubscribedAt     time.Time  `db:"subscribed_at"     json:"subscribed_at"`
	UnsubscribedAt   *time.Time `db:"unsubscribed_at"   json:"unsubscribed_at,omitempty"`
}

// SubscribeRequest represents the newsletter subscription payload
type SubscribeRequest struct {
	Email string `binding:"required,max=320" json:"email"`
}

// Validate validates the subscribe request
func (r *SubscribeRequest) Validate() error {
	if !ValidEmail(r.Email) {
		return ErrInvalidEmail
	}
	return nil
}

// ValidEmail reports whether email looks like an address: a single @ with
// non-empty local and domain parts and no whitespace. Deliverability is the
// mail provider's problem, not ours.
func ValidEmail(email string) bool {
	if email == "" || strings.ContainsAny(email, " \t\n") {
		return false
	}
	at := strings.Index(email, "@")
	if at <= 0 || at != strings.LastIndex(email, "@") {
		return false
	}
	domain := email[at+1:]
	return domain != "" && strings.Contains(domain, ".")
}

// NormalizeEmail lowercases and trims an address for storage and lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SubscriberFilter represents filter criteria for listing subscribers
type SubscriberFilter struct {
	Status string `form:"status"`
	Limit  int    `binding:"omitempty,min=1,max=1000" form:"limit"` // Default 100
	Offset int    `binding:"omitempty,min=0"          form:"offset"`
}
