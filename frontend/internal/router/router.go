package router

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/mousey-app/dashboard/edge/cachepolicy"
	edgehandler "github.com/mousey-app/dashboard/edge/handler"
	"github.com/mousey-app/dashboard/frontend/internal/setup"
	mw "github.com/mousey-app/dashboard/shared/middleware"
	"github.com/mousey-app/dashboard/shared/middleware/metrics"
)

func SetupRouter(deps *setup.Dependencies) *chi.Mux {
	r := chi.NewRouter()
	h := deps.Handler

	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(mw.RequestLog)
	r.Use(metrics.Middleware)
	r.Use(h.Boundary.Recover)

	csp := deps.Public.CSP
	if csp == "" {
		csp = mw.DashboardCSP(deps.Public.CDNBaseURL)
	}
	r.Use(mw.SecurityHeadersWithCSP(deps.Public.SecureCookies, csp))

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", metrics.Handler())

	// Built assets go through the same cache policy as the edge, without the page fallback.
	assets := edgehandler.New(deps.Storage, cachepolicy.FromConfig(deps.Public.Edge), false)
	r.Handle("/static/*", assets)

	r.Group(func(r chi.Router) {
		// every archive view costs a call to the archive API
		r.Use(mw.RateLimitByIP(deps.RateLimiter))
		r.Get("/archives/{id}", h.Boundary.Wrap(h.ArchiveGetHandler))
		r.Get("/archives/{id}/transcript", h.Boundary.Wrap(h.TranscriptGetHandler))
	})

	r.NotFound(h.Boundary.Wrap(h.NotFoundHandler))
	return r
}
