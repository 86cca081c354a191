package apiclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrUnavailable is returned when the archive API could not be reached.
var ErrUnavailable = errors.New("archive api unavailable")

// APIClient handles all communication with the archive API.
type APIClient struct {
	BaseURL    string
	HttpClient *http.Client
}

// New creates a client for the archive API at baseURL.
func New(baseURL string, timeout time.Duration) *APIClient {
	return &APIClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HttpClient: &http.Client{Timeout: timeout},
	}
}

// do is the single helper for making API requests. The request is bound to ctx
// so a disconnected viewer cancels the upstream call.
func (c *APIClient) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create API request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	// ask for snowflakes as strings; bare integers are still accepted
	req.Header.Set("X-No-BigInt", "true")

	resp, err := c.HttpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return resp, nil
}
