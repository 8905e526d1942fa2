package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		err    *Error
		status int
	}{
		{Validation("bad"), http.StatusBadRequest},
		{Conflict("dup"), http.StatusBadRequest},
		{Expired("old"), http.StatusBadRequest},
		{MinAmount("low"), http.StatusBadRequest},
		{Auth("no"), http.StatusUnauthorized},
		{MissingToken(), http.StatusUnauthorized},
		{InvalidToken(nil), http.StatusForbidden},
		{Forbidden("admin"), http.StatusForbidden},
		{NotFound("gone"), http.StatusNotFound},
		{Internal("boom", errors.New("db down")), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.status, tc.err.Status(), tc.err.Code)
	}
}

func TestFromUnwrapsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("checkout: %w", NotFound("Coupon not found"))

	got := From(wrapped)
	assert.Equal(t, KindNotFound, got.Kind)
	assert.True(t, Is(wrapped, KindNotFound))

	plain := From(errors.New("connection reset"))
	assert.Equal(t, KindInternal, plain.Kind)
	assert.Equal(t, "Internal server error", plain.Message)
}
