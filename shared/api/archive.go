package api

import "github.com/mousey-app/dashboard/shared/domain"

// ArchiveResponse is the body of GET /v4/archives/{id}. The API may answer
// 200 with only Error set, which must not be read as an empty archive.
type ArchiveResponse struct {
	Messages []domain.Message `json:"messages" validate:"dive"`
	Error    string           `json:"error,omitempty"`
}

// ErrorResponse is the body the archive API sends on failure.
type ErrorResponse struct {
	Error string `json:"error"`
}
