package api

import (
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/traviworld/editorial/internal/models"
)

func TestListContent(t *testing.T) {
	env := newTestEnv(t)

	env.mock.ExpectQuery("FROM contents").
		WillReturnRows(contentRows(uuid.New(), "news", "volcano-hike", models.ContentStatusDraft))

	w := env.doRequest(t, http.MethodGet, "/api/admin/contents?status=draft", nil, adminToken(t))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decodeBody(t, w)["count"])
}

func TestCreateContent_AutoTags(t *testing.T) {
	env := newTestEnv(t)
	id := uuid.New()

	// "Ubud" is a catalogue keyword for the bali destination
	env.mock.ExpectQuery("INSERT INTO contents").
		WithArgs(
			sqlmock.AnyArg(), "guide", "ubud-in-48-hours", "48 hours in Ubud",
			sqlmock.AnyArg(), sqlmock.AnyArg(), nil, nil,
			models.ContentStatusDraft, pq.StringArray{"bali"},
			nil, nil, nil, sqlmock.AnyArg(), sqlmock.AnyArg(),
		).
		WillReturnRows(contentRows(id, "guide", "ubud-in-48-hours", models.ContentStatusDraft))

	body := map[string]any{
		"type":  "guide",
		"slug":  "ubud-in-48-hours",
		"title": "48 hours in Ubud",
		"body":  "Temples, rice terraces and warungs.",
	}
	w := env.doRequest(t, http.MethodPost, "/api/admin/contents", body, adminToken(t))

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, id.String(), decodeBody(t, w)["id"])
}

func TestCreateContent_InvalidType(t *testing.T) {
	env := newTestEnv(t)

	body := map[string]any{
		"type":  "podcast",
		"slug":  "some-slug",
		"title": "Title",
	}
	w := env.doRequest(t, http.MethodPost, "/api/admin/contents", body, adminToken(t))

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, models.ErrInvalidContentType.Error(), decodeBody(t, w)["error"])
}

func TestCreateContent_InvalidSlug(t *testing.T) {
	env := newTestEnv(t)

	body := map[string]any{
		"type":  "news",
		"slug":  "Not A Slug",
		"title": "Title",
	}
	w := env.doRequest(t, http.MethodPost, "/api/admin/contents", body, adminToken(t))

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateContent_DuplicateSlug(t *testing.T) {
	env := newTestEnv(t)

	env.mock.ExpectQuery("INSERT INTO contents").
		WillReturnError(&pq.Error{Code: "23505"})

	body := map[string]any{
		"type":  "news",
		"slug":  "taken-slug",
		"title": "Title",
	}
	w := env.doRequest(t, http.MethodPost, "/api/admin/contents", body, adminToken(t))

	require.Equal(t, http.StatusConflict, w.Code)
}

func TestUpdateContent(t *testing.T) {
	env := newTestEnv(t)
	id := uuid.New()

	env.mock.ExpectQuery("FROM contents WHERE id").
		WithArgs(id).
		WillReturnRows(contentRows(id, "news", "volcano-hike", models.ContentStatusDraft))
	env.mock.ExpectQuery("UPDATE contents").
		WillReturnRows(contentRows(id, "news", "volcano-hike", models.ContentStatusDraft))

	body := map[string]any{"title": "Updated title"}
	w := env.doRequest(t, http.MethodPut, "/api/admin/contents/"+id.String(), body, adminToken(t))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestUpdateContent_NoFields(t *testing.T) {
	env := newTestEnv(t)
	id := uuid.New()

	w := env.doRequest(t, http.MethodPut, "/api/admin/contents/"+id.String(), map[string]any{}, adminToken(t))

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "At least one field must be provided for update", decodeBody(t, w)["error"])
}

func TestPublishContent(t *testing.T) {
	env := newTestEnv(t)
	id := uuid.New()

	// A cached zone payload must not survive a publish
	require.NoError(t, env.redis.Set("zone:placements:homepage_hero", "[]"))

	env.mock.ExpectQuery("UPDATE contents").
		WithArgs(id, models.ContentStatusPublished, sqlmock.AnyArg()).
		WillReturnRows(contentRows(id, "news", "volcano-hike", models.ContentStatusPublished))

	w := env.doRequest(t, http.MethodPost, "/api/admin/contents/"+id.String()+"/publish", nil, adminToken(t))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, models.ContentStatusPublished, decodeBody(t, w)["status"])
	assert.False(t, env.redis.Exists("zone:placements:homepage_hero"))
}

func TestUnpublishContent(t *testing.T) {
	env := newTestEnv(t)
	id := uuid.New()

	env.mock.ExpectQuery("UPDATE contents").
		WithArgs(id, models.ContentStatusDraft, sqlmock.AnyArg()).
		WillReturnRows(contentRows(id, "news", "volcano-hike", models.ContentStatusDraft))

	w := env.doRequest(t, http.MethodPost, "/api/admin/contents/"+id.String()+"/unpublish", nil, adminToken(t))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.ContentStatusDraft, decodeBody(t, w)["status"])
}

func TestArchiveContent(t *testing.T) {
	env := newTestEnv(t)
	id := uuid.New()

	env.mock.ExpectQuery("UPDATE contents").
		WithArgs(id, models.ContentStatusArchived, sqlmock.AnyArg()).
		WillReturnRows(contentRows(id, "news", "volcano-hike", models.ContentStatusArchived))

	w := env.doRequest(t, http.MethodPost, "/api/admin/contents/"+id.String()+"/archive", nil, adminToken(t))

	require.Equal(t, http.StatusOK, w.Code)
}

func TestDeleteContent(t *testing.T) {
	env := newTestEnv(t)
	id := uuid.New()

	env.mock.ExpectExec("DELETE FROM contents").
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	w := env.doRequest(t, http.MethodDelete, "/api/admin/contents/"+id.String(), nil, adminToken(t))

	require.Equal(t, http.StatusOK, w.Code)
}

func TestDeleteContent_NotFound(t *testing.T) {
	env := newTestEnv(t)
	id := uuid.New()

	env.mock.ExpectExec("DELETE FROM contents").
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	w := env.doRequest(t, http.MethodDelete, "/api/admin/contents/"+id.String(), nil, adminToken(t))

	require.Equal(t, http.StatusNotFound, w.Code)
}
