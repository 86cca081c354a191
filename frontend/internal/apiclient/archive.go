package apiclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/mousey-app/dashboard/shared/api"
	"github.com/mousey-app/dashboard/shared/domain"
	internal_errors "github.com/mousey-app/dashboard/shared/errors"
	"github.com/mousey-app/dashboard/shared/logger"
	"github.com/mousey-app/dashboard/shared/snowflake"
	"github.com/mousey-app/dashboard/shared/utils"
)

const fetchFailed = "Failed to fetch archive data."

// maxErrorBody bounds how much of a failed response is read for its message.
const maxErrorBody = 64 << 10

// GetArchive fetches /v4/archives/{id}. Messages are returned in the order the API sent them.
//
// Errors: ErrUnavailable (wrapped) when the API is unreachable; *errors.ErrorWithStatusCode
// carrying the API's own message on a non-2xx reply (404 kept, anything else 502)
// or on a 2xx reply whose body holds an error (502).
func (c *APIClient) GetArchive(ctx context.Context, id snowflake.ID) (domain.Archive, error) {
	resp, err := c.do(ctx, http.MethodGet, "/v4/archives/"+id.String(), nil)
	if err != nil {
		return domain.Archive{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.Archive{}, apiError(resp)
	}

	var response api.ArchiveResponse
	if err := utils.Decode(resp.Body, &response); err != nil {
		return domain.Archive{}, internal_errors.New(http.StatusBadGateway, fetchFailed)
	}
	if response.Error != "" {
		return domain.Archive{}, internal_errors.New(http.StatusBadGateway, response.Error)
	}
	if err := utils.Validate(response); err != nil {
		logger.Log.Warn("archive payload failed validation", "archive_id", id, "error", err)
		return domain.Archive{}, internal_errors.New(http.StatusBadGateway, fetchFailed)
	}

	return domain.Archive{Id: id, Messages: response.Messages}, nil
}

func apiError(resp *http.Response) error {
	status := http.StatusBadGateway
	if resp.StatusCode == http.StatusNotFound {
		status = http.StatusNotFound
	}

	var body api.ErrorResponse
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err == nil && json.Unmarshal(raw, &body) == nil && body.Error != "" {
		return internal_errors.New(status, body.Error)
	}

	logger.Log.Debug("archive api error without message", "status", resp.StatusCode)
	return &internal_errors.ErrorWithStatusCode{
		Message:    fetchFailed,
		StatusCode: status,
	}
}
