package composer_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/traviworld/editorial/internal/composer"
	"github.com/traviworld/editorial/internal/logger"
	"github.com/traviworld/editorial/internal/models"
)

func newTestRouter(stub *stubFeed) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logger.NewNopLogger()

	handler := composer.NewHandler(composer.NewComposer(stub, log), stub, log)
	router := gin.New()
	handler.RegisterRoutes(router)
	return router
}

func TestHandler_GetHomepage(t *testing.T) {
	stub := &stubFeed{zones: map[string][]models.PublicPlacement{
		models.ZoneHomepageHero: zoneSnapshot(models.ZoneHomepageHero, 2),
	}}
	router := newTestRouter(stub)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/homepage", http.NoBody)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var homepage composer.Homepage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &homepage))
	require.Len(t, homepage.Sections, 1)
	assert.Equal(t, models.ZoneHomepageHero, homepage.Sections[0].Zone)
	assert.Len(t, homepage.Sections[0].Cards, 2)
}

func TestHandler_Subscribe(t *testing.T) {
	testCases := []struct {
		name       string
		body       string
		feedErr    error
		wantStatus int
	}{
		{
			name:       "valid email",
			body:       `{"email":"reader@example.com"}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "invalid email from upstream validation",
			body:       `{"email":"nope"}`,
			feedErr:    models.ErrInvalidEmail,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed payload",
			body:       `{"email":`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "upstream unavailable",
			body:       `{"email":"reader@example.com"}`,
			feedErr:    errors.New("connection refused"),
			wantStatus: http.StatusBadGateway,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubFeed{subscribeErr: tc.feedErr}
			router := newTestRouter(stub)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/newsletter/subscribe", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			assert.Equal(t, tc.wantStatus, w.Code)
		})
	}
}

func TestHandler_Health(t *testing.T) {
	router := newTestRouter(&stubFeed{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "composer")
}
