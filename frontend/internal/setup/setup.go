package setup

import (
	"context"
	"fmt"
	"time"

	"github.com/mousey-app/dashboard/frontend/internal/apiclient"
	"github.com/mousey-app/dashboard/frontend/internal/handler"
	"github.com/mousey-app/dashboard/frontend/internal/lazy"
	"github.com/mousey-app/dashboard/shared/config"
	"github.com/mousey-app/dashboard/shared/logger"
	"github.com/mousey-app/dashboard/shared/middleware/ratelimiter"
	"github.com/mousey-app/dashboard/shared/storage"
)

const rateLimiterExpiration = 10 * time.Minute

type Dependencies struct {
	Handler     *handler.Handler
	Public      config.Public
	Storage     *storage.Storage
	RateLimiter *ratelimiter.Pool
	Development bool
	CancelFunc  context.CancelFunc
}

func SetupDependencies(cfg *config.Config) (*Dependencies, error) {
	// Cancels background tasks (template reloader) on shutdown
	ctx, cancel := context.WithCancel(context.Background())

	store, err := storage.New(cfg)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to initialize asset storage: %w", err)
	}

	pages := lazy.New("pages", LoadBundle(store))
	pages.Attempts = cfg.Public.Modules.Attempts
	pages.Interval = cfg.Public.Modules.Interval

	apiClient := apiclient.New(cfg.Public.APIBaseURL, cfg.Public.RequestTimeout)
	h := handler.New(pages, cfg.Public, apiClient)

	if cfg.IsDevelopment() {
		if err := startTemplateReloader(ctx, pages, store); err != nil {
			logger.Log.Warn("template reloader disabled", "error", err)
		}
	}

	logger.Log.Info("dependencies ready",
		"api_base_url", cfg.Public.APIBaseURL,
		"asset_driver", store.Driver,
		"asset_path", cfg.Public.Assets.Path,
	)

	return &Dependencies{
		Handler:     h,
		Public:      cfg.Public,
		Storage:     store,
		RateLimiter: ratelimiter.New(cfg.Public.RateLimit.RPS, cfg.Public.RateLimit.Burst, rateLimiterExpiration),
		Development: cfg.IsDevelopment(),
		CancelFunc:  cancel,
	}, nil
}

func (d *Dependencies) Cleanup() {
	d.CancelFunc()
	d.RateLimiter.Stop()
	d.Storage.Cleanup()
}
