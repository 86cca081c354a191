package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mousey-app/dashboard/edge/cachepolicy"
	"github.com/mousey-app/dashboard/edge/handler"
	"github.com/mousey-app/dashboard/shared/assets"
	"github.com/mousey-app/dashboard/shared/config"
	mw "github.com/mousey-app/dashboard/shared/middleware"
	"github.com/mousey-app/dashboard/shared/middleware/metrics"
)

func SetupRouter(public config.Public, store assets.Store) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(mw.RequestLog)
	r.Use(metrics.Middleware)

	origins := public.Edge.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead},
		AllowedHeaders: []string{"If-None-Match", "Range"},
		ExposedHeaders: []string{"ETag", "Content-Length"},
		MaxAge:         86400,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", metrics.Handler())

	// Every method reaches the asset handler so it can answer 405 itself.
	r.Handle("/*", handler.New(store, cachepolicy.FromConfig(public.Edge), public.Edge.SinglePageApp))
	return r
}
