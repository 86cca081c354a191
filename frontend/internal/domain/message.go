package frontend_domain

import "github.com/mousey-app/dashboard/shared/domain"

type Avatar struct {
	Default bool
	WebP    string // custom avatars only
	PNG     string
	Alt     string
}

type Attachment struct {
	URL      string
	Filename string
}

// Message wraps domain.Message with everything the message partial prints.
// Content is plain text; html/template escapes it.
type Message struct {
	domain.Message
	Classes     string
	Timestamp   string
	Content     string
	Avatar      Avatar
	Attachments []Attachment
	ChannelName string
}
