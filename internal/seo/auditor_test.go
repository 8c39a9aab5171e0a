package seo_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/traviworld/editorial/internal/logger"
	"github.com/traviworld/editorial/internal/models"
	"github.com/traviworld/editorial/internal/seo"
)

func pageHTML(title, description, canonical, h1 string) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html><html><head>")
	if title != "" {
		b.WriteString("<title>" + title + "</title>")
	}
	if description != "" {
		b.WriteString(`<meta name="description" content="` + description + `">`)
	}
	if canonical != "" {
		b.WriteString(`<link rel="canonical" href="` + canonical + `">`)
	}
	b.WriteString("</head><body>")
	if h1 != "" {
		b.WriteString("<h1>" + h1 + "</h1>")
	}
	b.WriteString("<p>Body copy.</p></body></html>")
	return b.String()
}

func newTestAuditor(baseURL string) *seo.Auditor {
	return seo.NewAuditor(seo.AuditorConfig{
		BaseURL:           baseURL,
		RequestsPerSecond: 1000,
		Burst:             1000,
	}, logger.NewNopLogger())
}

func TestAuditor_Audit(t *testing.T) {
	pages := map[string]string{
		"/guide/clean": pageHTML(
			"Lisbon in 48 Hours",
			"A whirlwind weekend through Alfama and Belem.",
			"https://travi.world/guide/clean",
			"Lisbon in 48 Hours",
		),
		"/guide/bare":      "<!DOCTYPE html><html><head></head><body><p>Nothing here.</p></body></html>",
		"/guide/long-copy": pageHTML(strings.Repeat("t", 61), strings.Repeat("d", 161), "https://travi.world/guide/long-copy", "Heading"),
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, ok := pages[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	tests := []struct {
		name       string
		slug       string
		wantStatus int
		wantIssues []string
	}{
		{
			name:       "clean page",
			slug:       "clean",
			wantStatus: http.StatusOK,
			wantIssues: []string{},
		},
		{
			name:       "bare page",
			slug:       "bare",
			wantStatus: http.StatusOK,
			wantIssues: []string{
				models.SEOIssueMissingTitle,
				models.SEOIssueMissingDescription,
				models.SEOIssueMissingCanonical,
				models.SEOIssueMissingH1,
			},
		},
		{
			name:       "over-length title and description",
			slug:       "long-copy",
			wantStatus: http.StatusOK,
			wantIssues: []string{
				models.SEOIssueLongTitle,
				models.SEOIssueLongDescription,
			},
		},
		{
			name:       "missing page",
			slug:       "gone",
			wantStatus: http.StatusNotFound,
			wantIssues: []string{models.SEOIssueBadStatus},
		},
	}

	auditor := newTestAuditor(srv.URL)
	now := time.Date(2026, 8, 21, 10, 0, 0, 0, time.UTC)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := &models.Content{
				ID:   uuid.New(),
				Type: "guide",
				Slug: tt.slug,
			}

			audit, err := auditor.Audit(context.Background(), content, now)
			require.NoError(t, err)

			assert.Equal(t, content.ID, audit.ContentID)
			assert.Equal(t, srv.URL+"/guide/"+tt.slug, audit.URL)
			assert.Equal(t, tt.wantStatus, audit.StatusCode)
			assert.Equal(t, tt.wantIssues, []string(audit.Issues))
			assert.Equal(t, now, audit.CheckedAt)
			assert.Equal(t, len(tt.wantIssues) == 0, audit.Clean())
		})
	}
}

func TestAuditor_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	srv.Close()

	auditor := newTestAuditor(srv.URL)
	content := &models.Content{ID: uuid.New(), Type: "guide", Slug: "unreachable"}

	_, err := auditor.Audit(context.Background(), content, time.Now())
	require.Error(t, err)
}
