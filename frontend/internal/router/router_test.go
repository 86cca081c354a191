package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mousey-app/dashboard/frontend/internal/handler"
	"github.com/mousey-app/dashboard/frontend/internal/lazy"
	"github.com/mousey-app/dashboard/frontend/internal/setup"
	"github.com/mousey-app/dashboard/shared/config"
	"github.com/mousey-app/dashboard/shared/domain"
	"github.com/mousey-app/dashboard/shared/middleware/ratelimiter"
	"github.com/mousey-app/dashboard/shared/snowflake"
	"github.com/mousey-app/dashboard/shared/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct{}

func (stubFetcher) GetArchive(ctx context.Context, id snowflake.ID) (domain.Archive, error) {
	return domain.Archive{Id: id, Messages: []domain.Message{{
		Id:          id,
		Author:      domain.User{Id: 1, Name: "mousey", Discriminator: "0001"},
		Content:     "hello",
		Attachments: []string{"/attachments/1/2/cat.png"},
	}}}, nil
}

func testDeps(t *testing.T, burst int) *setup.Dependencies {
	t.Helper()
	store, err := storage.Open("fs", "../../../web")
	require.NoError(t, err)

	public := config.Public{
		CDNBaseURL:      "https://cdn.discordapp.com",
		Timezone:        "UTC",
		ArchiveLifetime: 720 * time.Hour,
	}
	pages := lazy.New("pages", setup.LoadBundle(store))
	pool := ratelimiter.New(1, burst, time.Minute)
	t.Cleanup(pool.Stop)

	return &setup.Dependencies{
		Handler:     handler.New(pages, public, stubFetcher{}),
		Public:      public,
		Storage:     store,
		RateLimiter: pool,
		CancelFunc:  func() {},
	}
}

func TestSetupRouter(t *testing.T) {
	r := SetupRouter(testDeps(t, 100))

	tests := []struct {
		path     string
		status   int
		contains string
	}{
		{"/health", http.StatusOK, "ok"},
		{"/ready", http.StatusOK, "ok"},
		{"/archives/175928847299117063", http.StatusOK, "This archive expires on 2016-05-30 11:18:25."},
		{"/archives/175928847299117063?x=detect", http.StatusOK, `data-tz="UTC" data-tz-detect>`},
		{"/archives/175928847299117063/transcript", http.StatusOK, "mousey#0001 2016-04-30 11:18:25"},
		{"/archives/123", http.StatusBadRequest, "Invalid archive ID specified."},
		{"/static/js/archive.3f2a9c1e.js", http.StatusOK, "clipboardData"},
		{"/static/js/archive.3f2a9c1e.js?v=tz", http.StatusOK, "resolvedOptions().timeZone"},
		{"/static/js/missing.1.js", http.StatusNotFound, "File not found."},
		{"/nowhere", http.StatusNotFound, "There&#39;s nothing to be found here! :("},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.status, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.contains)
			assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
			assert.NotEmpty(t, rr.Header().Get("X-Request-Id"))
		})
	}
}

func TestSetupRouter_StaticCacheHeaders(t *testing.T) {
	r := SetupRouter(testDeps(t, 100))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/static/css/main.8b1d2e4f.css", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "public, max-age=31536000", rr.Header().Get("Cache-Control"))
}

func TestSetupRouter_StaticMethodNotAllowed(t *testing.T) {
	r := SetupRouter(testDeps(t, 100))

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, httptest.NewRequest(method, "/static/css/main.8b1d2e4f.css", nil))

			assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
			assert.Equal(t, "Method not allowed.", rr.Body.String())
			assert.Equal(t, "no-cache", rr.Header().Get("Cache-Control"))
			assert.Equal(t, "text/plain; charset=UTF-8", rr.Header().Get("Content-Type"))
		})
	}
}

func TestSetupRouter_RateLimitsArchives(t *testing.T) {
	r := SetupRouter(testDeps(t, 1))

	codes := make([]int, 0, 3)
	for _, p := range []string{"/archives/175928847299117063", "/archives/175928847299117063", "/health"} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, p, nil))
		codes = append(codes, rr.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests, http.StatusOK}, codes)
}
