package handler

import (
	"context"
	"html/template"

	"github.com/mousey-app/dashboard/frontend/internal/boundary"
	"github.com/mousey-app/dashboard/frontend/internal/lazy"
	"github.com/mousey-app/dashboard/shared/config"
	"github.com/mousey-app/dashboard/shared/domain"
	"github.com/mousey-app/dashboard/shared/snowflake"
)

// ArchiveFetcher is the part of the API client the handlers use.
type ArchiveFetcher interface {
	GetArchive(ctx context.Context, id snowflake.ID) (domain.Archive, error)
}

// Bundle is the lazily loaded page module: parsed templates plus the
// hashed asset paths they reference.
type Bundle struct {
	Templates  map[string]*template.Template
	Stylesheet string
	Script     string
}

type Handler struct {
	Pages     *lazy.Module[*Bundle]
	Public    config.Public
	APIClient ArchiveFetcher
	Boundary  *boundary.Boundary
}

func New(pages *lazy.Module[*Bundle], publicCfg config.Public, apiClient ArchiveFetcher) *Handler {
	return &Handler{
		Pages:     pages,
		Public:    publicCfg,
		APIClient: apiClient,
		Boundary:  boundary.New(),
	}
}
