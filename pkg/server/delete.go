package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"exercisecatalog/pkg/log"
)

// deleteExercise handles DELETE /list/:id. A failed blob removal does not
// fail the request; it is reported in the "warning" field.
func (srv *ExerciseServer) deleteExercise(ctx echo.Context) error {
	exerciseID, ok := parseID(ctx)
	if !ok {
		return invalidID(ctx)
	}

	log.Info().
		Int64("id", exerciseID).
		Str("method", "DELETE").
		Str("path", ctx.Request().URL.Path).
		Msg("Exercise delete request")

	result, err := srv.service.Delete(ctx.Request().Context(), exerciseID)
	if err != nil {
		return respondError(ctx, err)
	}

	response := map[string]any{
		"message": "Exercise deleted successfully",
		"id":      result.ID,
	}
	if result.BlobErr != nil {
		response["warning"] = "exercise file could not be removed"
	}
	return ctx.JSON(http.StatusOK, response)
}
