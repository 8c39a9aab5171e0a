package seo

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"golang.org/x/time/rate"

	"github.com/traviworld/editorial/internal/logger"
	"github.com/traviworld/editorial/internal/models"
)

const (
	maxTitleLength       = 60
	maxDescriptionLength = 160

	defaultAuditTimeout = 15 * time.Second
	auditAgent          = "Mozilla/5.0 (compatible; TraviWorld-SEOAuditor/1.0)"

	defaultAuditRPS   = 2
	defaultAuditBurst = 4
)

// AuditorConfig holds settings for the page auditor.
type AuditorConfig struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
}

// Auditor fetches published pages and records on-page problems.
type Auditor struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	logger  logger.Logger
}

// NewAuditor creates a page auditor with a shared outbound rate limit.
func NewAuditor(cfg AuditorConfig, log logger.Logger) *Auditor {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = defaultAuditRPS
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = defaultAuditBurst
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultAuditTimeout
	}

	return &Auditor{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		logger:  log,
	}
}

// Audit fetches the public page for a content item and checks it.
// Network failures return an error; a reachable page always yields an
// audit record, even when the status is an error status.
func (a *Auditor) Audit(ctx context.Context, content *models.Content, now time.Time) (*models.SEOAudit, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	pageURL := a.baseURL + content.SitePath()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", auditAgent)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	audit := &models.SEOAudit{
		ID:         uuid.New(),
		ContentID:  content.ID,
		URL:        pageURL,
		StatusCode: resp.StatusCode,
		Issues:     pq.StringArray{},
		CheckedAt:  now.UTC(),
	}

	if resp.StatusCode >= http.StatusBadRequest {
		audit.Issues = append(audit.Issues, models.SEOIssueBadStatus)
		a.logger.Warn("Page returned error status",
			logger.String("url", pageURL),
			logger.Int("status", resp.StatusCode),
		)
		return audit, nil
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	audit.Issues = append(audit.Issues, checkPage(doc)...)

	return audit, nil
}

// checkPage runs the on-page checks against a parsed document.
func checkPage(doc *goquery.Document) []string {
	issues := []string{}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	switch {
	case title == "":
		issues = append(issues, models.SEOIssueMissingTitle)
	case utf8.RuneCountInString(title) > maxTitleLength:
		issues = append(issues, models.SEOIssueLongTitle)
	}

	description, exists := doc.Find("meta[name='description']").Attr("content")
	description = strings.TrimSpace(description)
	switch {
	case !exists || description == "":
		issues = append(issues, models.SEOIssueMissingDescription)
	case utf8.RuneCountInString(description) > maxDescriptionLength:
		issues = append(issues, models.SEOIssueLongDescription)
	}

	if canonical, ok := doc.Find("link[rel='canonical']").Attr("href"); !ok || strings.TrimSpace(canonical) == "" {
		issues = append(issues, models.SEOIssueMissingCanonical)
	}

	if doc.Find("h1").Length() == 0 {
		issues = append(issues, models.SEOIssueMissingH1)
	}

	return issues
}
