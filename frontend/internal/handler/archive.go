package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mousey-app/dashboard/frontend/internal/apiclient"
	frontend_domain "github.com/mousey-app/dashboard/frontend/internal/domain"
	"github.com/mousey-app/dashboard/shared/domain"
	internal_errors "github.com/mousey-app/dashboard/shared/errors"
	"github.com/mousey-app/dashboard/shared/logger"
	"github.com/mousey-app/dashboard/shared/middleware/metrics"
	"github.com/mousey-app/dashboard/shared/snowflake"
)

const (
	archiveTemplate = "archive.html"
	statusTemplate  = "status.html"

	msgInvalidID   = "Invalid archive ID specified."
	msgFetchFailed = "Failed to fetch archive data."
	msgNotFound    = "There's nothing to be found here! :("
)

// errCanceled marks a fetch abandoned because the viewer went away.
var errCanceled = errors.New("request canceled")

// fetchArchive validates the id from the URL and fetches the archive with
// messages sorted by id. Returned errors carry the status to show.
func (h *Handler) fetchArchive(r *http.Request) (domain.Archive, error) {
	raw := chi.URLParam(r, "id")
	if !snowflake.Valid(raw) {
		metrics.ArchiveFetches.WithLabelValues("invalid_id").Inc()
		return domain.Archive{}, internal_errors.New(http.StatusBadRequest, msgInvalidID)
	}
	id, err := snowflake.Parse(raw)
	if err != nil {
		// 21 digit ids above 2^64 pass the shape check but can never exist
		metrics.ArchiveFetches.WithLabelValues("invalid_id").Inc()
		return domain.Archive{}, internal_errors.New(http.StatusBadRequest, msgInvalidID)
	}

	archive, err := h.APIClient.GetArchive(r.Context(), id)
	if err != nil {
		return domain.Archive{}, classifyFetchError(r.Context(), id, err)
	}

	metrics.ArchiveFetches.WithLabelValues("ok").Inc()
	sortMessages(archive.Messages)
	return archive, nil
}

func classifyFetchError(ctx context.Context, id snowflake.ID, err error) error {
	l := logger.FromContext(ctx)
	var statusErr *internal_errors.ErrorWithStatusCode
	switch {
	case ctx.Err() != nil:
		l.Debug("archive fetch abandoned", "archive_id", id, "error", err)
		return errCanceled
	case errors.Is(err, apiclient.ErrUnavailable):
		metrics.ArchiveFetches.WithLabelValues("unavailable").Inc()
		l.Warn("archive api unreachable", "archive_id", id, "error", err)
		return internal_errors.New(http.StatusBadGateway, msgFetchFailed)
	case errors.As(err, &statusErr):
		result := "api_error"
		if statusErr.StatusCode == http.StatusNotFound {
			result = "not_found"
		}
		metrics.ArchiveFetches.WithLabelValues(result).Inc()
		return statusErr
	default:
		metrics.ArchiveFetches.WithLabelValues("api_error").Inc()
		return err
	}
}

// ArchiveGetHandler renders /archives/{id}.
func (h *Handler) ArchiveGetHandler(w http.ResponseWriter, r *http.Request) error {
	archive, err := h.fetchArchive(r)
	if err != nil {
		return h.renderFetchError(w, r, err)
	}

	loc, chosen := h.location(w, r)
	messages, err := renderMessages(archive.Messages, loc, h.Public.CDNBaseURL)
	if err != nil {
		return err
	}

	id := archive.Id.String()
	expiresAt := archive.Id.Time().Add(h.Public.ArchiveLifetime)
	data := frontend_domain.ArchivePageData{
		Id:            id,
		ExpiresAt:     snowflake.FormatISO8601(expiresAt, loc),
		TranscriptURL: "/archives/" + id + "/transcript",
		Messages:      messages,
	}

	// archives are private and short lived
	w.Header().Set("Cache-Control", "private, no-store")
	w.Header().Set("Vary", "Cookie")
	return h.renderTemplate(w, r, http.StatusOK, archiveTemplate, data, frontend_domain.CommonTemplateData{
		Title:          "Archive " + id,
		Timezone:       loc.String(),
		DetectTimezone: !chosen,
	})
}

func (h *Handler) renderFetchError(w http.ResponseWriter, r *http.Request, err error) error {
	if errors.Is(err, errCanceled) {
		return nil
	}
	var statusErr *internal_errors.ErrorWithStatusCode
	if errors.As(err, &statusErr) {
		return h.renderStatus(w, r, statusErr.StatusCode, statusErr.Message)
	}
	return err
}

// NotFoundHandler renders the not-found view for every unknown path.
func (h *Handler) NotFoundHandler(w http.ResponseWriter, r *http.Request) error {
	return h.renderStatus(w, r, http.StatusNotFound, msgNotFound)
}
