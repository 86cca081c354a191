package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/mousey-app/dashboard/shared/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestLog(t *testing.T) {
	var buf bytes.Buffer
	logger.InitializeWriter(&buf, "debug", true)
	t.Cleanup(func() { logger.Initialize("info", false) })

	var seen string
	h := RequestLog(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).Info("inside")
		seen = w.Header().Get(RequestIDHeader)
		w.Write([]byte("ok"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/archives/1", nil)
	req.Header.Set("Cookie", "tz=Europe/Berlin")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	id := rr.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, id, seen)

	out := buf.String()
	assert.Contains(t, out, `"request_id":"`+id+`"`)
	assert.Contains(t, out, `"msg":"inside"`)
	assert.Contains(t, out, "[redacted]")
	assert.NotContains(t, out, "Europe/Berlin")
}

func TestRequestLog_KeepsValidIncomingID(t *testing.T) {
	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, id)
	rr := httptest.NewRecorder()
	RequestLog(okHandler).ServeHTTP(rr, req)
	assert.Equal(t, id, rr.Header().Get(RequestIDHeader))

	req.Header.Set(RequestIDHeader, "not-a-uuid\nforged")
	rr = httptest.NewRecorder()
	RequestLog(okHandler).ServeHTTP(rr, req)
	assert.NotEqual(t, "not-a-uuid\nforged", rr.Header().Get(RequestIDHeader))
}
