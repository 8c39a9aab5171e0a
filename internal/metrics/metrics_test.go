package metrics_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/traviworld/editorial/internal/metrics"
)

func newTestMetrics() *metrics.Metrics {
	return metrics.NewMetrics(prometheus.NewRegistry())
}

func scrape(t *testing.T, m *metrics.Metrics) string {
	t.Helper()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	m.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("metrics endpoint status = %d, want %d", w.Code, http.StatusOK)
	}

	body, err := io.ReadAll(w.Body)
	if err != nil {
		t.Fatalf("failed to read metrics body: %v", err)
	}
	return string(body)
}

func TestMetrics_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	m := newTestMetrics()

	router := gin.New()
	router.Use(m.Middleware())
	router.GET("/api/public/placements/:zone", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for range 3 {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/public/placements/hero", nil)
		router.ServeHTTP(w, req)
	}

	body := scrape(t, m)

	want := `editorial_http_requests_total{method="GET",path="/api/public/placements/:zone",status="200"} 3`
	if !strings.Contains(body, want) {
		t.Errorf("metrics body missing %q", want)
	}
	if !strings.Contains(body, "editorial_http_request_duration_seconds") {
		t.Error("metrics body missing duration histogram")
	}
}

func TestMetrics_MiddlewareUnmatchedRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)

	m := newTestMetrics()

	router := gin.New()
	router.Use(m.Middleware())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/no/such/route", nil)
	router.ServeHTTP(w, req)

	body := scrape(t, m)

	want := `editorial_http_requests_total{method="GET",path="unmatched",status="404"} 1`
	if !strings.Contains(body, want) {
		t.Errorf("metrics body missing %q", want)
	}
}

func TestMetrics_ObserveJob(t *testing.T) {
	m := newTestMetrics()

	m.ObserveJob("trending", nil, 40*time.Millisecond)
	m.ObserveJob("trending", nil, 60*time.Millisecond)
	m.ObserveJob("reindex", errors.New("es down"), time.Second)

	body := scrape(t, m)

	checks := []string{
		`editorial_job_runs_total{job="trending",status="ok"} 2`,
		`editorial_job_runs_total{job="reindex",status="error"} 1`,
		`editorial_job_duration_seconds_count{job="trending"} 2`,
	}
	for _, want := range checks {
		if !strings.Contains(body, want) {
			t.Errorf("metrics body missing %q", want)
		}
	}
}

func TestMetrics_DomainCounters(t *testing.T) {
	m := newTestMetrics()

	m.ZoneCacheHits.WithLabelValues("hero").Inc()
	m.ZoneCacheMisses.WithLabelValues("hero").Inc()
	m.ViewsTrackedTotal.Inc()
	m.SearchQueriesTotal.WithLabelValues("ok").Inc()
	m.NewsletterSignupsTotal.Inc()

	body := scrape(t, m)

	checks := []string{
		`editorial_zone_cache_hits_total{zone="hero"} 1`,
		`editorial_zone_cache_misses_total{zone="hero"} 1`,
		`editorial_views_tracked_total 1`,
		`editorial_search_queries_total{status="ok"} 1`,
		`editorial_newsletter_signups_total 1`,
	}
	for _, want := range checks {
		if !strings.Contains(body, want) {
			t.Errorf("metrics body missing %q", want)
		}
	}
}
