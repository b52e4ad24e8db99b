package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/dwikikusuma/storefront/internal/apperr"
	checkoutapp "github.com/dwikikusuma/storefront/internal/checkout/app"
)

// httpStatusFromError maps an error returned by a controller or service
// to an HTTP status, a stable code and the message shown to clients.
func httpStatusFromError(err error) (int, string, string) {
	var (
		se  *apperr.StorageError
		ste *apperr.StateTransitionError
	)

	switch {
	case errors.Is(err, apperr.ErrInvalidInput):
		return http.StatusBadRequest, "INVALID_ARGUMENT", err.Error()
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", err.Error()
	case errors.As(err, &ste), errors.Is(err, checkoutapp.ErrOutOfStock):
		return http.StatusConflict, "CONFLICT", err.Error()
	case errors.Is(err, checkoutapp.ErrEmptyCart):
		return http.StatusUnprocessableEntity, "EMPTY_CART", err.Error()
	case errors.As(err, &se):
		if errors.Is(se.Err, context.DeadlineExceeded) || errors.Is(se.Err, context.Canceled) {
			return http.StatusServiceUnavailable, "UNAVAILABLE", "store unavailable"
		}
		return http.StatusInternalServerError, "INTERNAL", "internal error"
	default:
		return http.StatusInternalServerError, "INTERNAL", "internal error"
	}
}
