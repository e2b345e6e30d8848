package hmserr

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// HTTPStatus maps a taxonomy error to its HTTP status code. Unknown errors
// map to 500.
func HTTPStatus(err error) int {
	var (
		ve *ValidationError
		nf *NotFoundError
		it *InvalidTransitionError
		ce *ConflictError
		pd *PermissionDenied
	)
	switch {
	case errors.As(err, &ve):
		return http.StatusUnprocessableEntity
	case errors.As(err, &nf):
		return http.StatusNotFound
	case errors.As(err, &it):
		return http.StatusConflict
	case errors.As(err, &ce):
		return http.StatusConflict
	case errors.As(err, &pd):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// ToHTTP converts a service error into an echo HTTPError carrying the
// taxonomy status and the error's own message.
func ToHTTP(err error) *echo.HTTPError {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		return echo.NewHTTPError(status, "internal error")
	}
	return echo.NewHTTPError(status, err.Error())
}
