package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"exercisecatalog/pkg/log"
	"exercisecatalog/pkg/models"
)

// uploadExercise handles POST /upload-new with a multipart form carrying
// title, author, faculty and file.
func (srv *ExerciseServer) uploadExercise(ctx echo.Context) error {
	log.Info().Msg("Exercise upload request received")

	file, err := ctx.FormFile("file")
	if err != nil {
		log.Warn().Err(err).Msg("File parameter is required")
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"error": "file parameter is required",
		})
	}

	src, err := file.Open()
	if err != nil {
		log.Error().Err(err).Msg("Failed to open uploaded file")
		return ctx.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to open uploaded file",
		})
	}
	defer func() {
		if err := src.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close uploaded file")
		}
	}()

	exercise := models.NewExercise{
		Title:    ctx.FormValue("title"),
		Author:   ctx.FormValue("author"),
		Faculty:  ctx.FormValue("faculty"),
		FileName: file.Filename,
	}

	result, err := srv.service.Create(ctx.Request().Context(), exercise, src)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, result)
}
