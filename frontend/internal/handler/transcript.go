package handler

import (
	"errors"
	"net/http"

	"github.com/mousey-app/dashboard/frontend/internal/transcript"
	internal_errors "github.com/mousey-app/dashboard/shared/errors"
)

// TranscriptGetHandler renders /archives/{id}/transcript as plain text.
func (h *Handler) TranscriptGetHandler(w http.ResponseWriter, r *http.Request) error {
	archive, err := h.fetchArchive(r)
	if err != nil {
		if errors.Is(err, errCanceled) {
			return nil
		}
		var statusErr *internal_errors.ErrorWithStatusCode
		if errors.As(err, &statusErr) {
			w.Header().Set("Cache-Control", "no-cache")
		}
		return err
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "private, no-store")
	w.Header().Set("Content-Disposition", `inline; filename="archive-`+archive.Id.String()+`.txt"`)
	loc, _ := h.location(w, r)
	return transcript.Write(w, archive.Messages, loc, h.Public.CDNBaseURL)
}
