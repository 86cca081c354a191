package handler

import (
	"cmp"
	"net/http"
	"slices"
	"time"

	"github.com/mousey-app/dashboard/shared/domain"
)

const tzCookie = "tz"

// sortMessages orders messages by ascending numeric id.
func sortMessages(messages []domain.Message) {
	slices.SortStableFunc(messages, func(a, b domain.Message) int {
		return cmp.Compare(a.Id, b.Id)
	})
}

// location picks the viewer's zone: ?tz=, then the tz cookie, then config.
// A valid ?tz= is remembered in the cookie. The bool is false when the config
// default was used, so the page asks the browser for its zone.
func (h *Handler) location(w http.ResponseWriter, r *http.Request) (*time.Location, bool) {
	if name := r.URL.Query().Get("tz"); name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			http.SetCookie(w, &http.Cookie{
				Name:     tzCookie,
				Value:    loc.String(),
				Path:     "/",
				MaxAge:   int((365 * 24 * time.Hour).Seconds()),
				HttpOnly: true,
				Secure:   h.Public.SecureCookies,
				SameSite: http.SameSiteLaxMode,
			})
			return loc, true
		}
	}
	if c, err := r.Cookie(tzCookie); err == nil && c.Value != "" {
		if loc, err := time.LoadLocation(c.Value); err == nil {
			return loc, true
		}
	}
	return h.Public.Location(), false
}
