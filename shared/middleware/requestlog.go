package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mousey-app/dashboard/shared/logger"
)

const RequestIDHeader = "X-Request-Id"

var redactedHeaders = map[string]bool{
	"Authorization": true,
	"Cookie":        true,
	"X-Api-Key":     true,
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	n, err := s.ResponseWriter.Write(b)
	s.bytes += n
	return n, err
}

// RequestLog tags each request with an id and logs it on completion.
// A well formed incoming X-Request-Id is kept, otherwise a new uuid is issued.
func RequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		l := logger.Log.With("request_id", id)
		r = r.WithContext(logger.WithContext(r.Context(), l))

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		level := slog.LevelInfo
		if rec.status >= 500 {
			level = slog.LevelError
		}
		l.Log(r.Context(), level, "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"bytes", rec.bytes,
			"duration", time.Since(start),
			"headers", safeHeaders(r.Header),
		)
	})
}

func safeHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k := range h {
		if redactedHeaders[k] {
			out[k] = "[redacted]"
			continue
		}
		out[k] = h.Get(k)
	}
	return out
}
