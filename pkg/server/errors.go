package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"exercisecatalog/pkg/log"
	"exercisecatalog/pkg/service"
)

// respondError maps service errors onto status codes. Storage errors are
// logged with their op so catalog/blob drift is visible to operators.
func respondError(ctx echo.Context, err error) error {
	var validationErr service.ValidationError
	if errors.As(err, &validationErr) {
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"error": validationErr.Error(),
		})
	}

	if errors.Is(err, service.ErrNotFound) {
		return ctx.JSON(http.StatusNotFound, map[string]string{
			"error": "exercise not found",
		})
	}

	event := log.Error().Err(err).Str("path", ctx.Request().URL.Path)
	var storageErr service.StorageError
	if errors.As(err, &storageErr) {
		event = event.Str("op", string(storageErr.Op)).Str("file_name", storageErr.Name)
	}
	event.Msg("Storage failure")

	return ctx.JSON(http.StatusInternalServerError, map[string]string{
		"error": "storage error",
	})
}

// handleHTTPError renders errors raised outside the handlers, such as the
// body limit, unknown routes or recovered panics, with the same
// {"error": ...} body the handlers use.
func handleHTTPError(err error, ctx echo.Context) {
	if ctx.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := http.StatusText(status)
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		status = httpErr.Code
		message = http.StatusText(status)
		if text, ok := httpErr.Message.(string); ok && text != "" {
			message = text
		}
	} else {
		log.Error().Err(err).Str("path", ctx.Request().URL.Path).Msg("Unhandled request error")
	}

	var writeErr error
	if ctx.Request().Method == http.MethodHead {
		writeErr = ctx.NoContent(status)
	} else {
		writeErr = ctx.JSON(status, map[string]string{"error": message})
	}
	if writeErr != nil {
		log.Error().Err(writeErr).Msg("Failed to write error response")
	}
}

// parseID reads the :id path parameter.
func parseID(ctx echo.Context) (int64, bool) {
	exerciseID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		log.Warn().Str("id", ctx.Param("id")).Msg("Malformed exercise id")
		return 0, false
	}
	return exerciseID, true
}

func invalidID(ctx echo.Context) error {
	return ctx.JSON(http.StatusBadRequest, map[string]string{
		"error": "invalid exercise id",
	})
}
