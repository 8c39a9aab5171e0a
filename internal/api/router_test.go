package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/traviworld/editorial/internal/catalog"
	"github.com/traviworld/editorial/internal/config"
	"github.com/traviworld/editorial/internal/database"
	"github.com/traviworld/editorial/internal/logger"
	"github.com/traviworld/editorial/internal/metrics"
	"github.com/traviworld/editorial/internal/middleware"
	"github.com/traviworld/editorial/internal/models"
	"github.com/traviworld/editorial/internal/tagger"
	"github.com/traviworld/editorial/internal/views"
	"github.com/traviworld/editorial/internal/zonecache"
)

const testJWTSecret = "test-secret"

const testCatalogYAML = `destinations:
  - name: Bali
    slug: bali
    country: Indonesia
    region: Southeast Asia
    summary: Island temples and rice terraces.
    keywords:
      - ubud
      - canggu
  - name: Lisbon
    slug: lisbon
    country: Portugal
    region: Europe
    summary: Hills, trams and miradouros.
    keywords:
      - alfama
`

type stubAuditRunner struct {
	started chan struct{}
	count   int
	err     error
}

func (s *stubAuditRunner) RunSEOAudit(context.Context) (int, error) {
	select {
	case s.started <- struct{}{}:
	default:
	}
	return s.count, s.err
}

type testEnv struct {
	engine *gin.Engine
	mock   sqlmock.Sqlmock
	redis  *miniredis.Miniredis
	audits *stubAuditRunner
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { redisClient.Close() })

	log := logger.NewNopLogger()

	catalogPath := filepath.Join(t.TempDir(), "destinations.yml")
	require.NoError(t, os.WriteFile(catalogPath, []byte(testCatalogYAML), 0o600))
	cat, err := catalog.Load(catalogPath)
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Auth.JWTSecret = testJWTSecret
	cfg.Cache.ZoneTTL = time.Minute
	cfg.RateLimit.MaxPerMinute = 1000
	cfg.RateLimit.WindowSeconds = 60
	cfg.Site.BaseURL = "https://traviworld.test"

	audits := &stubAuditRunner{started: make(chan struct{}, 1), count: 3}

	router := NewRouter(Deps{
		Repo:      database.NewRepository(sqlx.NewDb(db, "postgres")),
		Redis:     redisClient,
		ZoneCache: zonecache.NewCache(redisClient, cfg.Cache.ZoneTTL, log),
		Views:     views.NewCounter(redisClient, log),
		Catalog:   cat,
		Tagger:    tagger.New(cat.Keywords()),
		Metrics:   metrics.NewMetrics(prometheus.NewRegistry()),
		Audits:    audits,
	}, cfg, log)
	t.Cleanup(router.Close)

	engine := gin.New()
	router.setupRoutes(engine)

	return &testEnv{
		engine: engine,
		mock:   mock,
		redis:  mr,
		audits: audits,
	}
}

func adminToken(t *testing.T) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &middleware.Claims{Sub: "editor"})
	signed, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return signed
}

var contentColumns = []string{
	"id", "type", "slug", "title", "summary", "body", "card_image", "hero_image",
	"status", "tags", "meta_title", "meta_description", "canonical_url",
	"published_at", "created_at", "updated_at",
}

var placementColumns = []string{
	"id", "zone", "content_id", "position", "priority", "is_breaking", "is_featured",
	"headline", "image", "excerpt", "enabled", "starts_at", "ends_at", "managed_by",
	"created_at", "updated_at",
}

var zoneRowColumns = append(append([]string{}, placementColumns...),
	"content.id", "content.type", "content.slug", "content.title", "content.summary",
	"content.body", "content.card_image", "content.hero_image", "content.status",
	"content.tags", "content.meta_title", "content.meta_description",
	"content.canonical_url", "content.published_at", "content.created_at", "content.updated_at",
)

func contentRows(id uuid.UUID, contentType, slug, status string) *sqlmock.Rows {
	now := time.Now()
	var publishedAt any
	if status == models.ContentStatusPublished {
		publishedAt = now
	}
	return sqlmock.NewRows(contentColumns).AddRow(
		id, contentType, slug, "Title", "Summary", "Body", nil, nil,
		status, "{}", nil, nil, nil, publishedAt, now, now,
	)
}

func placementRows(id uuid.UUID, zone string, position int) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(placementColumns).AddRow(
		id, zone, uuid.New(), position, "normal", false, false,
		nil, nil, nil, true, nil, nil, "editor", now, now,
	)
}

func zonePlacementRows(zone, slug string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(zoneRowColumns).AddRow(
		uuid.New(), zone, uuid.New(), 0, "normal", true, false,
		nil, nil, nil, true, nil, nil, "editor", now, now,
		uuid.New(), "news", slug, "Title", "Summary", "Body", nil, nil,
		"published", "{}", nil, nil, nil, now, now, now,
	)
}

// doRequest runs one request through the full route table. A non-nil body
// is sent as JSON; a non-empty token becomes the bearer credential.
func (env *testEnv) doRequest(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader = http.NoBody
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	env.engine.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)

	env.mock.ExpectPing()

	w := env.doRequest(t, http.MethodGet, "/healthz", nil, "")

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "editorial-api", body["service"])

	redisHealth, ok := body["redis"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, redisHealth["connected"])
}

func TestHealthzDegradedWhenRedisDown(t *testing.T) {
	env := newTestEnv(t)

	env.mock.ExpectPing()
	env.redis.Close()

	w := env.doRequest(t, http.MethodGet, "/healthz", nil, "")

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "degraded", body["status"])
}

func TestHealthzDegradedWhenDatabaseDown(t *testing.T) {
	env := newTestEnv(t)

	env.mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	w := env.doRequest(t, http.MethodGet, "/healthz", nil, "")

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "degraded", body["status"])

	dbHealth, ok := body["database"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, false, dbHealth["connected"])
}

func TestAdminRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)

	w := env.doRequest(t, http.MethodGet, "/api/admin/contents", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.doRequest(t, http.MethodGet, "/api/admin/contents", nil, "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminRoutesRejectWrongSecret(t *testing.T) {
	env := newTestEnv(t)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &middleware.Claims{Sub: "editor"})
	signed, err := token.SignedString([]byte("some-other-secret"))
	require.NoError(t, err)

	w := env.doRequest(t, http.MethodGet, "/api/admin/zone-policies", nil, signed)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)

	w := env.doRequest(t, http.MethodGet, "/metrics", nil, "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "editorial_http_requests_total")
}
