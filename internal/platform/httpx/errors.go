// Package httpx provides HTTP response utilities.
package httpx

import (
	"errors"
	"net/http"

	"github.com/nexstock/nexstock-console/internal/gateway"
	"github.com/nexstock/nexstock-console/internal/shared"
)

// RespondError maps console and gateway errors to RFC7807 responses.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrValidation):
		ValidationProblem(w, shared.FieldErrors(err))
	case errors.Is(err, gateway.ErrUnauthorized) && gateway.StatusOf(err) == http.StatusUnauthorized:
		Problem(w, http.StatusUnauthorized, "Unauthorized", "Your session has expired, please sign in again")
	case errors.Is(err, gateway.ErrUnauthorized):
		Problem(w, http.StatusForbidden, "Forbidden", shared.UserSafeMessage(err))
	case errors.Is(err, gateway.ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", shared.UserSafeMessage(err))
	case errors.Is(err, gateway.ErrNetwork):
		Problem(w, http.StatusServiceUnavailable, "Backend Unreachable", shared.UserSafeMessage(err))
	case errors.Is(err, gateway.ErrServer):
		Problem(w, http.StatusBadGateway, "Backend Error", shared.UserSafeMessage(err))
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
