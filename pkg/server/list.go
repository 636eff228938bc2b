package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// listExercises handles GET /list with every field of every record.
func (srv *ExerciseServer) listExercises(ctx echo.Context) error {
	exercises, err := srv.service.List(ctx.Request().Context())
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, exercises)
}

// listSummaries handles GET /list-app, which leaves out stored file names.
func (srv *ExerciseServer) listSummaries(ctx echo.Context) error {
	summaries, err := srv.service.ListSummaries(ctx.Request().Context())
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, summaries)
}
