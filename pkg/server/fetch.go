package server

import (
	"mime"
	"net/http"

	"github.com/labstack/echo/v4"

	"exercisecatalog/pkg/log"
)

// fetchExercise handles GET /list/:id. The file travels base64 encoded in
// the "data" field.
func (srv *ExerciseServer) fetchExercise(ctx echo.Context) error {
	exerciseID, ok := parseID(ctx)
	if !ok {
		return invalidID(ctx)
	}
	log.Info().Int64("id", exerciseID).Msg("Exercise fetch request")

	file, err := srv.service.Fetch(ctx.Request().Context(), exerciseID)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, file)
}

// downloadExercise handles GET /list/:id/file and returns the raw bytes as an
// attachment named after the stored file.
func (srv *ExerciseServer) downloadExercise(ctx echo.Context) error {
	exerciseID, ok := parseID(ctx)
	if !ok {
		return invalidID(ctx)
	}

	reqCtx := ctx.Request().Context()
	exercise, err := srv.service.Get(reqCtx, exerciseID)
	if err != nil {
		return respondError(ctx, err)
	}

	file, err := srv.service.Fetch(reqCtx, exerciseID)
	if err != nil {
		return respondError(ctx, err)
	}

	log.Info().Int64("id", exerciseID).Str("file_name", exercise.StoredFileName).Msg("Serving exercise download")
	ctx.Response().Header().Set(echo.HeaderContentDisposition,
		mime.FormatMediaType("attachment", map[string]string{"filename": exercise.StoredFileName}))
	return ctx.Blob(http.StatusOK, http.DetectContentType(file.Data), file.Data)
}

