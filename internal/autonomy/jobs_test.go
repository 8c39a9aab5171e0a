package autonomy_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/traviworld/editorial/internal/autonomy"
	"github.com/traviworld/editorial/internal/database"
	"github.com/traviworld/editorial/internal/logger"
	"github.com/traviworld/editorial/internal/models"
	"github.com/traviworld/editorial/internal/search"
	"github.com/traviworld/editorial/internal/seo"
	"github.com/traviworld/editorial/internal/views"
	"github.com/traviworld/editorial/internal/zonecache"
)

var contentColumns = []string{
	"id", "type", "slug", "title", "summary", "body", "card_image", "hero_image",
	"status", "tags", "meta_title", "meta_description", "canonical_url",
	"published_at", "created_at", "updated_at",
}

var policyColumns = []string{
	"zone", "mode", "max_items", "min_views", "lookback_hours", "updated_at",
}

var auditColumns = []string{
	"id", "content_id", "url", "status_code", "issues", "checked_at",
}

func publishedRow(rows *sqlmock.Rows, id uuid.UUID, slug string) *sqlmock.Rows {
	now := time.Now()
	return rows.AddRow(
		id, "news", slug, "Title", "Summary", "Body", nil, nil,
		models.ContentStatusPublished, "{}", nil, nil, nil, now, now, now,
	)
}

// newJobs builds a job set against sqlmock and miniredis. baseURL is where
// the auditor fetches pages from; searchClient may be nil.
func newJobs(t *testing.T, baseURL string, searchClient *search.Client) (*autonomy.Jobs, sqlmock.Sqlmock, *miniredis.Miniredis) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	log := logger.NewNopLogger()
	repo := database.NewRepository(sqlx.NewDb(db, "postgres"))
	counter := views.NewCounter(client, log)
	cache := zonecache.NewCache(client, time.Minute, log)
	auditor := seo.NewAuditor(seo.AuditorConfig{
		BaseURL:           baseURL,
		RequestsPerSecond: 50,
		Burst:             50,
	}, log)

	return autonomy.NewJobs(repo, counter, cache, searchClient, auditor, log), mock, mr
}

func TestRunTrending(t *testing.T) {
	jobs, mock, mr := newJobs(t, "http://localhost", nil)

	hot := uuid.New()
	warm := uuid.New()
	cold := uuid.New()

	mock.ExpectQuery("FROM zone_policies WHERE mode").
		WithArgs(models.ZoneModeAuto).
		WillReturnRows(sqlmock.NewRows(policyColumns).
			AddRow(models.ZoneTrending, models.ZoneModeAuto, 2, 2, 48, time.Now()))

	rows := sqlmock.NewRows(contentColumns)
	publishedRow(rows, hot, "volcano-hike")
	publishedRow(rows, warm, "night-markets")
	publishedRow(rows, cold, "quiet-coves")
	mock.ExpectQuery("FROM contents").
		WithArgs(models.ContentStatusPublished).
		WillReturnRows(rows)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM placements WHERE zone").
		WithArgs(models.ZoneTrending, models.ManagedByAuto).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`MAX\(position\)`).
		WithArgs(models.ZoneTrending).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(3))
	mock.ExpectExec("INSERT INTO placements").
		WithArgs(sqlmock.AnyArg(), models.ZoneTrending, hot, 3,
			models.PriorityNormal, models.ManagedByAuto, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO placements").
		WithArgs(sqlmock.AnyArg(), models.ZoneTrending, warm, 4,
			models.PriorityNormal, models.ManagedByAuto, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// cold stays under the min_views threshold of 2
	day := time.Now().UTC().Format(views.DayFormat)
	require.NoError(t, mr.Set(fmt.Sprintf("views:%s:%s", hot, day), "9"))
	require.NoError(t, mr.Set(fmt.Sprintf("views:%s:%s", warm, day), "4"))
	require.NoError(t, mr.Set(fmt.Sprintf("views:%s:%s", cold, day), "1"))

	require.NoError(t, mr.Set("zone:placements:trending", "[]"))

	placed, err := jobs.RunTrending(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, placed)
	assert.False(t, mr.Exists("zone:placements:trending"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunTrending_NoAutoZones(t *testing.T) {
	jobs, mock, _ := newJobs(t, "http://localhost", nil)

	mock.ExpectQuery("FROM zone_policies WHERE mode").
		WithArgs(models.ZoneModeAuto).
		WillReturnRows(sqlmock.NewRows(policyColumns))

	placed, err := jobs.RunTrending(context.Background())

	require.NoError(t, err)
	assert.Zero(t, placed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunWindowSweep(t *testing.T) {
	jobs, mock, mr := newJobs(t, "http://localhost", nil)

	require.NoError(t, mr.Set("zone:placements:homepage_hero", "[]"))

	mock.ExpectQuery("SELECT DISTINCT zone FROM placements").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"zone"}).AddRow(models.ZoneHomepageHero))

	zones, err := jobs.RunWindowSweep(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{models.ZoneHomepageHero}, zones)
	assert.False(t, mr.Exists("zone:placements:homepage_hero"))

	// A quiet interval sweeps nothing
	mock.ExpectQuery("SELECT DISTINCT zone FROM placements").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"zone"}))

	zones, err = jobs.RunWindowSweep(context.Background())

	require.NoError(t, err)
	assert.Empty(t, zones)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunSEOAudit(t *testing.T) {
	page := `<!DOCTYPE html>
<html><head>
<title>Volcano hike</title>
<meta name="description" content="A day on the ridge.">
</head><body><h1>Volcano hike</h1></body></html>`

	var mu sync.Mutex
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()
		_, _ = io.WriteString(w, page)
	}))
	t.Cleanup(srv.Close)

	jobs, mock, _ := newJobs(t, srv.URL, nil)
	contentID := uuid.New()

	rows := sqlmock.NewRows(contentColumns)
	publishedRow(rows, contentID, "volcano-hike")
	mock.ExpectQuery("FROM contents").
		WithArgs(models.ContentStatusPublished).
		WillReturnRows(rows)

	pageURL := srv.URL + "/news/volcano-hike"
	mock.ExpectQuery("INSERT INTO seo_audits").
		WithArgs(sqlmock.AnyArg(), contentID, pageURL, http.StatusOK,
			pq.StringArray{models.SEOIssueMissingCanonical}, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(auditColumns).
			AddRow(uuid.New(), contentID, pageURL, http.StatusOK, "{missing_canonical}", time.Now()))

	mock.ExpectExec("DELETE FROM seo_audits").
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	audited, err := jobs.RunSEOAudit(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, audited)
	mu.Lock()
	assert.Equal(t, []string{"/news/volcano-hike"}, paths)
	mu.Unlock()
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunSEOAudit_SkipsUnreachablePages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "<html><head><title>Ok</title></head><body><h1>Ok</h1></body></html>")
	}))
	srv.Close() // every fetch now fails

	jobs, mock, _ := newJobs(t, srv.URL, nil)

	rows := sqlmock.NewRows(contentColumns)
	publishedRow(rows, uuid.New(), "volcano-hike")
	mock.ExpectQuery("FROM contents").
		WithArgs(models.ContentStatusPublished).
		WillReturnRows(rows)

	mock.ExpectExec("DELETE FROM seo_audits").
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	audited, err := jobs.RunSEOAudit(context.Background())

	require.NoError(t, err)
	assert.Zero(t, audited)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunReindex(t *testing.T) {
	var mu sync.Mutex
	var bulkBody string
	bulkCalls := 0

	es := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		if strings.HasSuffix(r.URL.Path, "/_bulk") {
			body, _ := io.ReadAll(r.Body)
			mu.Lock()
			bulkCalls++
			bulkBody = string(body)
			mu.Unlock()
			_, _ = w.Write([]byte(`{"took":1,"errors":false,"items":[]}`))
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(es.Close)

	client, err := search.NewClient(search.Config{URL: es.URL, Index: "travi-test"}, logger.NewNopLogger())
	require.NoError(t, err)

	jobs, mock, _ := newJobs(t, "http://localhost", client)

	rows := sqlmock.NewRows(contentColumns)
	publishedRow(rows, uuid.New(), "volcano-hike")
	publishedRow(rows, uuid.New(), "night-markets")
	mock.ExpectQuery("FROM contents").
		WithArgs(models.ContentStatusPublished).
		WillReturnRows(rows)

	indexed, err := jobs.RunReindex(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, indexed)

	mu.Lock()
	assert.Equal(t, 1, bulkCalls)
	assert.Contains(t, bulkBody, "volcano-hike")
	assert.Contains(t, bulkBody, "night-markets")
	mu.Unlock()
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunReindex_SearchDisabled(t *testing.T) {
	jobs, mock, _ := newJobs(t, "http://localhost", nil)

	indexed, err := jobs.RunReindex(context.Background())

	require.NoError(t, err)
	assert.Zero(t, indexed)
	require.NoError(t, mock.ExpectationsWereMet())
}
