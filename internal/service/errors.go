package service

import (
	"errors"

	"simple-ecommerce/internal/apperr"
	"simple-ecommerce/internal/store"
)

// translate maps missing or dangling rows onto a not-found error; anything else is
// reported as an internal failure carrying msg.
func translate(err error, notFound, msg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound), errors.Is(err, store.ErrForeignKey):
		return apperr.NotFound(notFound)
	default:
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return appErr
		}
		return apperr.Internal(msg, err)
	}
}
