// Package transcript produces plain text renditions of an archive.
package transcript

import (
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/mousey-app/dashboard/shared/domain"
	"github.com/mousey-app/dashboard/shared/snowflake"
)

var mention = regexp.MustCompile(`<@!?(\d{15,21})>`)

// ReplaceMentions swaps <@id> and <@!id> for @name when the user is known.
func ReplaceMentions(content string, users map[string]*domain.User) string {
	if len(users) == 0 {
		return content
	}
	return mention.ReplaceAllStringFunc(content, func(m string) string {
		id := mention.FindStringSubmatch(m)[1]
		if u, ok := users[id]; ok && u != nil && u.Name != "" {
			return "@" + u.Name
		}
		return m
	})
}

// Write renders messages, already in display order, one block per message:
//
//	name#0001 2021-06-01 12:00:00
//	content
//	https://cdn.example/attachments/1/2/file.png
func Write(w io.Writer, messages []domain.Message, loc *time.Location, cdnBaseURL string) error {
	cdn := strings.TrimRight(cdnBaseURL, "/")
	var b strings.Builder
	for i, m := range messages {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(m.Author.Tag())
		b.WriteByte(' ')
		b.WriteString(snowflake.FormatISO8601(m.Id.Time(), loc))
		if m.IsEdited() {
			b.WriteString(" (edited)")
		}
		if m.IsDeleted() {
			b.WriteString(" (deleted)")
		}
		b.WriteByte('\n')
		if m.Content != "" {
			b.WriteString(ReplaceMentions(m.Content, m.Mentions))
			b.WriteByte('\n')
		}
		for _, a := range m.Attachments {
			b.WriteString(cdn + a)
			b.WriteByte('\n')
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
