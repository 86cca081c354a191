package frontend_domain

type ArchivePageData struct {
	Id            string
	ExpiresAt     string
	TranscriptURL string
	Messages      []*Message
}

// StatusPageData backs the single line status views: errors, not found.
type StatusPageData struct {
	Message string
	Error   bool
}
