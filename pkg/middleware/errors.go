package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"cropcal/entities"
)

// StatusFor maps domain errors onto HTTP status codes.
func StatusFor(err error) int {
	var he *echo.HTTPError
	switch {
	case errors.Is(err, entities.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, entities.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, entities.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.As(err, &he):
		return he.Code
	default:
		return http.StatusInternalServerError
	}
}

// JSONError writes err as {"error": ...} with the mapped status.
func JSONError(c echo.Context, err error) error {
	return c.JSON(StatusFor(err), map[string]string{"error": err.Error()})
}

// BadRequest writes a 400 with msg.
func BadRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, map[string]string{"error": msg})
}
