package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// SEO issue codes recorded by the auditor.
const (
	SEOIssueMissingTitle       = "missing_title"
	SEOIssueLongTitle          = "long_title"
	SEOIssueMissingDescription = "missing_description"
	SEOIssueLongDescription    = "long_description"
	SEOIssueMissingCanonical   = "missing_canonical"
	SEOIssueMissingH1          = "missing_h1"
	SEOIssueBadStatus          = "bad_status"
)

// SEOAudit records one auditor pass over a published page.
type SEOAudit struct {
	ID         uuid.UUID      `db:"id"          json:"id"`
	ContentID  uuid.UUID      `db:"content_id"  json:"content_id"`
	URL        string         `db:"url"         json:"url"`
	StatusCode int            `db:"status_code" json:"status_code"`
	Issues     pq.StringArray `db:"issues"      json:"issues"`
	CheckedAt  time.Time      `db:"checked_at"  json:"checked_at"`
}

// Clean reports whether the audit found no issues.
func (a *SEOAudit) Clean() bool {
	return len(a.Issues) == 0
}
