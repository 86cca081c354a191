package errors

import (
	stderrors "errors"
	"net/http"
)

// default error is internal service error at handler level
// if error has different status code use ErrorWithStatusCode
type ErrorWithStatusCode struct {
	Message    string
	StatusCode int
}

func (e *ErrorWithStatusCode) Error() string {
	return e.Message
}

func New(statusCode int, message string) *ErrorWithStatusCode {
	return &ErrorWithStatusCode{Message: message, StatusCode: statusCode}
}

// StatusCode returns the status carried by err, or 500 when err carries none.
func StatusCode(err error) int {
	var e *ErrorWithStatusCode
	if stderrors.As(err, &e) {
		return e.StatusCode
	}
	return http.StatusInternalServerError
}
