package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"starwars-api/internal/services"

	"github.com/labstack/echo/v4"
)

type MessageResponse struct {
	Msg string `json:"msg"`
}

// parseID reads a positive integer path parameter.
func parseID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return uint(id), nil
}

// failure maps errors that are not a handler's own not-found case.
func failure(err error, message string) error {
	if errors.Is(err, services.ErrStorageUnavailable) {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "storage unavailable").SetInternal(err)
	}
	return echo.NewHTTPError(http.StatusInternalServerError, message).SetInternal(err)
}
