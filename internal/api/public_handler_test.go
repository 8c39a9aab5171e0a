package api

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/traviworld/editorial/internal/models"
	"github.com/traviworld/editorial/internal/views"
)

func TestGetZonePlacements_UnknownZone(t *testing.T) {
	env := newTestEnv(t)

	w := env.doRequest(t, http.MethodGet, "/api/public/placements/sidebar", nil, "")

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Unknown placement zone", decodeBody(t, w)["error"])
}

func TestGetZonePlacements_CacheMiss(t *testing.T) {
	env := newTestEnv(t)

	env.mock.ExpectQuery("FROM placements p").
		WithArgs(models.ZoneTrending, models.ContentStatusPublished, sqlmock.AnyArg()).
		WillReturnRows(zonePlacementRows(models.ZoneTrending, "volcano-hike"))

	w := env.doRequest(t, http.MethodGet, "/api/public/placements/trending", nil, "")

	require.Equal(t, http.StatusOK, w.Code)

	var placements []models.PublicPlacement
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &placements))
	require.Len(t, placements, 1)
	assert.Equal(t, models.ZoneTrending, placements[0].Zone)
	assert.Equal(t, "volcano-hike", placements[0].Content.Slug)
	assert.True(t, placements[0].IsBreaking)

	// The rendered payload is now cached
	assert.True(t, env.redis.Exists("zone:placements:trending"))
}

func TestGetZonePlacements_CacheHit(t *testing.T) {
	env := newTestEnv(t)

	cached := `[{"id":"` + uuid.NewString() + `","zone":"trending","position":0}]`
	require.NoError(t, env.redis.Set("zone:placements:trending", cached))

	// No database expectations: a hit must not touch Postgres
	w := env.doRequest(t, http.MethodGet, "/api/public/placements/trending", nil, "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, cached, w.Body.String())
}

func TestGetZonePlacements_EmptyZone(t *testing.T) {
	env := newTestEnv(t)

	env.mock.ExpectQuery("FROM placements p").
		WithArgs(models.ZoneHomepageHero, models.ContentStatusPublished, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(zoneRowColumns))

	w := env.doRequest(t, http.MethodGet, "/api/public/placements/homepage_hero", nil, "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestGetPublishedContent(t *testing.T) {
	env := newTestEnv(t)
	id := uuid.New()

	env.mock.ExpectQuery("FROM contents").
		WithArgs("guide", "lisbon-weekend", models.ContentStatusPublished).
		WillReturnRows(contentRows(id, "guide", "lisbon-weekend", models.ContentStatusPublished))

	w := env.doRequest(t, http.MethodGet, "/api/public/content/guide/lisbon-weekend", nil, "")

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, id.String(), body["id"])
	assert.Equal(t, "lisbon-weekend", body["slug"])
}

func TestGetPublishedContent_NotFound(t *testing.T) {
	env := newTestEnv(t)

	env.mock.ExpectQuery("FROM contents").
		WillReturnError(sql.ErrNoRows)

	w := env.doRequest(t, http.MethodGet, "/api/public/content/guide/missing", nil, "")

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestSearchContent_Unavailable(t *testing.T) {
	// The test environment runs without a search backend
	env := newTestEnv(t)

	w := env.doRequest(t, http.MethodGet, "/api/public/search?q=bali", nil, "")

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestTrackView(t *testing.T) {
	env := newTestEnv(t)
	id := uuid.New()

	w := env.doRequest(t, http.MethodPost, "/api/public/views/"+id.String(), nil, "")

	require.Equal(t, http.StatusNoContent, w.Code)

	key := fmt.Sprintf("views:%s:%s", id, time.Now().UTC().Format(views.DayFormat))
	count, err := env.redis.Get(key)
	require.NoError(t, err)
	assert.Equal(t, "1", count)
}

func TestTrackView_InvalidID(t *testing.T) {
	env := newTestEnv(t)

	w := env.doRequest(t, http.MethodPost, "/api/public/views/not-a-uuid", nil, "")

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListDestinations(t *testing.T) {
	env := newTestEnv(t)

	w := env.doRequest(t, http.MethodGet, "/api/public/destinations", nil, "")

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(2), body["count"])
}

func TestGetDestination(t *testing.T) {
	env := newTestEnv(t)

	w := env.doRequest(t, http.MethodGet, "/api/public/destinations/bali", nil, "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Bali", decodeBody(t, w)["name"])

	w = env.doRequest(t, http.MethodGet, "/api/public/destinations/atlantis", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
