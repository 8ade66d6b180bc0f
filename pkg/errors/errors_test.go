package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "not found", err: NotFound("wishlist", "76561197960265731"), want: http.StatusNotFound},
		{name: "invalid input", err: InvalidInput("bad id"), want: http.StatusBadRequest},
		{name: "unauthorized", err: Unauthorized("login required"), want: http.StatusUnauthorized},
		{name: "forbidden", err: Forbidden("private"), want: http.StatusForbidden},
		{name: "bad gateway", err: BadGateway("steam is down"), want: http.StatusBadGateway},
		{name: "gateway timeout", err: GatewayTimeout("too slow"), want: http.StatusGatewayTimeout},
		{name: "wrapped app error", err: fmt.Errorf("outer: %w", Forbidden("private")), want: http.StatusForbidden},
		{name: "wrapped sentinel", err: fmt.Errorf("outer: %w", ErrUpstream), want: http.StatusBadGateway},
		{name: "unknown error", err: assert.AnError, want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestAppError(t *testing.T) {
	err := BadGateway("steam returned garbage")

	assert.Equal(t, "UPSTREAM_ERROR", err.Code)
	assert.Contains(t, err.Error(), "steam returned garbage")
	assert.ErrorIs(t, err, ErrUpstream)
}
