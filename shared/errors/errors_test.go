package errors

import (
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "plain error", err: io.EOF, expected: http.StatusInternalServerError},
		{name: "status error", err: New(http.StatusNotFound, "Archive not found."), expected: http.StatusNotFound},
		{name: "wrapped status error", err: fmt.Errorf("get archive: %w", New(http.StatusBadGateway, "x")), expected: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StatusCode(tt.err))
		})
	}
}
