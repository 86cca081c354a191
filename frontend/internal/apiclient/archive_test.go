package apiclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	internal_errors "github.com/mousey-app/dashboard/shared/errors"
	"github.com/mousey-app/dashboard/shared/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const archiveID = "175928847299117063"

func newTestClient(t *testing.T, h http.HandlerFunc) *APIClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", time.Second)
}

func TestGetArchive_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v4/archives/"+archiveID, r.URL.Path)
		assert.Equal(t, "true", r.Header.Get("X-No-BigInt"))
		w.Header().Set("Content-Type", "application/json")
		// ids as bare integers and strings are both accepted
		w.Write([]byte(`{"messages":[
			{"id":"3","author":{"id":"5","name":"c","discriminator":"0001"},"content":"third","attachments":[]},
			{"id":1,"author":{"id":5,"name":"c","discriminator":1},"content":"first","attachments":[]}
		]}`))
	})

	archive, err := c.GetArchive(context.Background(), snowflake.MustParse(archiveID))
	require.NoError(t, err)
	require.Len(t, archive.Messages, 2)
	assert.Equal(t, snowflake.ID(3), archive.Messages[0].Id)
	assert.Equal(t, "0001", string(archive.Messages[1].Author.Discriminator))
	assert.Equal(t, snowflake.MustParse(archiveID), archive.Id)
}

func TestGetArchive_Errors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantMsg    string
	}{
		{"not found keeps api message", http.StatusNotFound, `{"error":"Archive not found."}`, http.StatusNotFound, "Archive not found."},
		{"server error becomes bad gateway", http.StatusInternalServerError, `{"error":"Internal error."}`, http.StatusBadGateway, "Internal error."},
		{"error without message", http.StatusServiceUnavailable, `<html>down</html>`, http.StatusBadGateway, "Failed to fetch archive data."},
		{"invalid json on success", http.StatusOK, `{"messages":`, http.StatusBadGateway, "Failed to fetch archive data."},
		{"error on success", http.StatusOK, `{"error":"This archive has expired."}`, http.StatusBadGateway, "This archive has expired."},
		{"error wins over messages", http.StatusOK, `{"error":"Archive unavailable.","messages":[]}`, http.StatusBadGateway, "Archive unavailable."},
		{"payload fails validation", http.StatusOK, `{"messages":[{"id":"1","author":{"id":"2"}}]}`, http.StatusBadGateway, "Failed to fetch archive data."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := c.GetArchive(context.Background(), 1)
			var e *internal_errors.ErrorWithStatusCode
			require.True(t, errors.As(err, &e), "got %v", err)
			assert.Equal(t, tt.wantStatus, e.StatusCode)
			assert.Equal(t, tt.wantMsg, e.Message)
		})
	}
}

func TestGetArchive_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	c := New(srv.URL, time.Second)
	srv.Close()

	_, err := c.GetArchive(context.Background(), 1)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestGetArchive_ContextCanceled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.GetArchive(ctx, 1)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, err, context.Canceled)
}
