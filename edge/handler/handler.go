// Package handler serves the built dashboard out of the asset store with
// the two tier cache policy.
package handler

import (
	"errors"
	"fmt"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/mousey-app/dashboard/edge/cachepolicy"
	"github.com/mousey-app/dashboard/shared/assets"
	"github.com/mousey-app/dashboard/shared/logger"
	"github.com/mousey-app/dashboard/shared/middleware/metrics"
	"github.com/mousey-app/dashboard/shared/utils"
)

const indexKey = "index.html"

// HTTPError is a failure with a status and a message safe to show.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d %s", e.Status, e.Message)
}

func errNotFound() error { return &HTTPError{Status: http.StatusNotFound, Message: "File not found."} }
func errMethodNotAllowed() error {
	return &HTTPError{Status: http.StatusMethodNotAllowed, Message: "Method not allowed."}
}

type Handler struct {
	Store         assets.Store
	Rules         cachepolicy.Rules
	SinglePageApp bool
}

func New(store assets.Store, rules cachepolicy.Rules, singlePageApp bool) *Handler {
	return &Handler{Store: store, Rules: rules, SinglePageApp: singlePageApp}
}

// Serve writes the asset for r. Nothing is written when an error is returned:
// *HTTPError for 404 and 405, anything else is a store fault passed through unchanged.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) error {
	policy := h.Rules.ForPath(r.URL.Path)

	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return errMethodNotAllowed()
	}

	asset, err := h.lookup(r)
	if errors.Is(err, assets.ErrNotFound) {
		return errNotFound()
	}
	if err != nil {
		return err
	}

	etag := utils.ETag(asset.Data)
	headers := w.Header()
	headers.Set("Content-Type", asset.ContentType())
	headers.Set("Cache-Control", "public, max-age="+seconds(policy.BrowserTTL.Seconds()))
	headers.Set("CDN-Cache-Control", "max-age="+seconds(policy.EdgeTTL.Seconds()))
	headers.Set("ETag", etag)
	if !asset.Modified.IsZero() {
		headers.Set("Last-Modified", asset.Modified.UTC().Format(http.TimeFormat))
	}

	if etagMatch(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return nil
	}

	headers.Set("Content-Length", strconv.Itoa(len(asset.Data)))
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return nil
	}
	_, _ = w.Write(asset.Data)
	return nil
}

// lookup maps the request path to a key. A trailing slash means index.html;
// in single page app mode an extensionless miss falls back to index.html.
func (h *Handler) lookup(r *http.Request) (assets.Asset, error) {
	key := assets.CleanKey(r.URL.Path)
	if key == "" || strings.HasSuffix(r.URL.Path, "/") {
		key = path.Join(key, indexKey)
	}

	asset, err := h.Store.Get(r.Context(), key)
	if errors.Is(err, assets.ErrNotFound) && h.SinglePageApp && path.Ext(key) == "" {
		return h.Store.Get(r.Context(), indexKey)
	}
	return asset, err
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	tier := string(h.Rules.ForPath(r.URL.Path).Tier)
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

	err := h.Serve(rec, r)
	if err != nil {
		var he *HTTPError
		if !errors.As(err, &he) {
			logger.FromContext(r.Context()).Error("asset store failure", "path", r.URL.Path, "error", err)
			he = &HTTPError{Status: http.StatusInternalServerError, Message: http.StatusText(http.StatusInternalServerError)}
		}
		WriteError(rec, he)
	}
	metrics.EdgeAssetRequests.WithLabelValues(tier, strconv.Itoa(rec.status)).Inc()
}

// WriteError writes e as an uncacheable plain text response.
func WriteError(w http.ResponseWriter, e *HTTPError) {
	headers := w.Header()
	headers.Del("ETag")
	headers.Del("CDN-Cache-Control")
	headers.Set("Cache-Control", "no-cache")
	headers.Set("Content-Type", "text/plain; charset=UTF-8")
	w.WriteHeader(e.Status)
	_, _ = w.Write([]byte(e.Message))
}

func seconds(s float64) string {
	return strconv.FormatInt(int64(s), 10)
}

func etagMatch(header, etag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}
