package handler

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	frontend_domain "github.com/mousey-app/dashboard/frontend/internal/domain"
	"github.com/mousey-app/dashboard/frontend/internal/transcript"
	"github.com/mousey-app/dashboard/shared/domain"
	"github.com/mousey-app/dashboard/shared/logger"
	"github.com/mousey-app/dashboard/shared/snowflake"
)

// ErrAttachmentPath is returned for attachment paths that are not
// /attachments/{channel}/{attachment}/{filename}.
var ErrAttachmentPath = errors.New("unexpected attachment path")

var attachmentPath = regexp.MustCompile(`^/attachments(?:/\d+){2}/(.+)`)

// TemplateData wraps page-specific data with common template data.
// Templates access page data via .Data and common data via .Common.
type TemplateData struct {
	Data   any
	Common frontend_domain.CommonTemplateData
}

// renderTemplate loads the page module and writes template name with status.
// Module load failures are returned so the boundary can classify them.
func (h *Handler) renderTemplate(w http.ResponseWriter, r *http.Request, status int, name string, data any, common frontend_domain.CommonTemplateData) error {
	bundle, err := h.Pages.Get(r.Context())
	if err != nil {
		return err
	}
	tmpl, ok := bundle.Templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	common.Stylesheet = bundle.Stylesheet
	if name == archiveTemplate {
		common.Script = bundle.Script
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, TemplateData{Data: data, Common: common}); err != nil {
		logger.Log.Error("error executing template", "template", name, "error", err)
		return fmt.Errorf("execute template %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
	return nil
}

// renderStatus shows a one line status view.
func (h *Handler) renderStatus(w http.ResponseWriter, r *http.Request, status int, msg string) error {
	w.Header().Set("Cache-Control", "no-cache")
	data := frontend_domain.StatusPageData{Message: msg, Error: status >= 400}
	return h.renderTemplate(w, r, status, statusTemplate, data, frontend_domain.CommonTemplateData{Title: "Mousey"})
}

func avatar(user domain.User, cdn string) frontend_domain.Avatar {
	if user.Avatar == nil || *user.Avatar == "" {
		return frontend_domain.Avatar{
			Default: true,
			PNG:     fmt.Sprintf("%s/embed/avatars/%d.png?size=128", cdn, user.Discriminator.Int()%5),
			Alt:     "default avatar",
		}
	}
	base := fmt.Sprintf("%s/avatars/%s/%s", cdn, user.Id, *user.Avatar)
	return frontend_domain.Avatar{
		WebP: base + ".webp?size=128",
		PNG:  base + ".png?size=128",
		Alt:  "avatar",
	}
}

func attachment(p, cdn string) (frontend_domain.Attachment, error) {
	m := attachmentPath.FindStringSubmatch(p)
	if m == nil {
		return frontend_domain.Attachment{}, fmt.Errorf("%w: %q", ErrAttachmentPath, p)
	}
	return frontend_domain.Attachment{URL: cdn + p, Filename: m[1]}, nil
}

// renderMessage transforms a domain.Message into the view model.
func renderMessage(message domain.Message, loc *time.Location, cdnBaseURL string) (*frontend_domain.Message, error) {
	cdn := strings.TrimRight(cdnBaseURL, "/")

	rendered := frontend_domain.Message{
		Message:   message,
		Classes:   "message",
		Timestamp: snowflake.FormatISO8601(message.Id.Time(), loc),
		Content:   transcript.ReplaceMentions(message.Content, message.Mentions),
		Avatar:    avatar(message.Author, cdn),
	}
	if message.IsDeleted() {
		rendered.Classes += " deleted"
	}
	if message.Channel != nil {
		rendered.ChannelName = message.Channel.Name
	}

	for _, p := range message.Attachments {
		a, err := attachment(p, cdn)
		if err != nil {
			return nil, fmt.Errorf("message %s: %w", message.Id, err)
		}
		rendered.Attachments = append(rendered.Attachments, a)
	}
	return &rendered, nil
}

func renderMessages(messages []domain.Message, loc *time.Location, cdnBaseURL string) ([]*frontend_domain.Message, error) {
	out := make([]*frontend_domain.Message, len(messages))
	for i, m := range messages {
		rendered, err := renderMessage(m, loc, cdnBaseURL)
		if err != nil {
			return nil, err
		}
		out[i] = rendered
	}
	return out, nil
}
