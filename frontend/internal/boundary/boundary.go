// Package boundary turns failures to load a page's script modules into a
// friendly "refresh to retry" page while letting every other error through.
package boundary

import (
	"errors"
	"fmt"
	"html/template"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/mousey-app/dashboard/shared/logger"
	"github.com/mousey-app/dashboard/shared/utils"
)

// LoadError reports a resource that could not be loaded.
type LoadError struct {
	Resource    string
	ContentType string
	Err         error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load %s (%s): %v", e.Resource, e.ContentType, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// NewLoadError derives the content type from the resource's extension.
func NewLoadError(resource string, err error) *LoadError {
	ct := mime.TypeByExtension(path.Ext(resource))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return &LoadError{Resource: resource, ContentType: ct, Err: err}
}

var scriptTypes = map[string]bool{
	"text/javascript":          true,
	"application/javascript":   true,
	"application/x-javascript": true,
	"module":                   true,
}

// IsModuleLoad is true only for a LoadError whose resource is a script.
func IsModuleLoad(err error) bool {
	var le *LoadError
	if !errors.As(err, &le) {
		return false
	}
	return scriptTypes[strings.ToLower(strings.TrimSpace(le.ContentType))]
}

// HandlerFunc is an http handler that reports failure instead of writing it.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

var fallbackPage = template.Must(template.New("fallback").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Mousey</title></head>
<body>
<div class="loading-error">
<h1>{{.Title}}</h1>
<p>{{.Hint}}</p>
</div>
</body>
</html>
`))

const (
	FallbackTitle = "Unable to load website."
	FallbackHint  = "Refresh the page to retry."
)

// Boundary catches module load errors below it.
type Boundary struct {
	// Escalate handles every error that is not a module load error.
	Escalate func(w http.ResponseWriter, r *http.Request, err error)
}

func New() *Boundary {
	return &Boundary{
		Escalate: func(w http.ResponseWriter, r *http.Request, err error) {
			utils.WriteErrorAndStatusCode(w, err)
		},
	}
}

// Wrap adapts h to net/http.
func (b *Boundary) Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := h(w, r)
		if err == nil {
			return
		}
		if IsModuleLoad(err) {
			b.fault(w, r, err)
			return
		}
		b.Escalate(w, r, err)
	}
}

// Recover catches panics carrying a module load error; anything else keeps panicking.
func (b *Boundary) Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			err, ok := rec.(error)
			if !ok || !IsModuleLoad(err) {
				panic(rec)
			}
			b.fault(w, r, err)
		}()
		next.ServeHTTP(w, r)
	})
}

func (b *Boundary) fault(w http.ResponseWriter, r *http.Request, err error) {
	logger.FromContext(r.Context()).Error("module load failed", "path", r.URL.Path, "error", err)
	RenderFallback(w)
}

// RenderFallback writes the "refresh to retry" page.
func RenderFallback(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Content-Type", "text/html; charset=utf-8")
	h.Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusServiceUnavailable)
	fallbackPage.Execute(w, struct{ Title, Hint string }{FallbackTitle, FallbackHint})
}
