package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"exercisecatalog/pkg/log"
	"exercisecatalog/pkg/models"
)

const (
	shutdownTimeout = 10
)

// ExerciseService is what the HTTP layer needs from the catalog service.
type ExerciseService interface {
	Create(ctx context.Context, exercise models.NewExercise, content io.Reader) (*models.CreateResult, error)
	List(ctx context.Context) ([]models.Exercise, error)
	ListSummaries(ctx context.Context) ([]models.ExerciseSummary, error)
	Get(ctx context.Context, exerciseID int64) (*models.Exercise, error)
	Fetch(ctx context.Context, exerciseID int64) (*models.ExerciseFile, error)
	Delete(ctx context.Context, exerciseID int64) (*models.DeleteResult, error)
}

// ExerciseServer serves the exercise catalog over HTTP.
type ExerciseServer struct {
	echo           *echo.Echo
	service        ExerciseService
	maxUploadBytes uint64
	version        string
}

// NewExerciseServer wires the routes for svc. Upload bodies above
// maxUploadBytes are rejected with 413.
func NewExerciseServer(svc ExerciseService, maxUploadBytes uint64, version string) *ExerciseServer {
	srv := &ExerciseServer{
		echo:           echo.New(),
		service:        svc,
		maxUploadBytes: maxUploadBytes,
		version:        version,
	}
	srv.setupRoutes()
	return srv
}

// Handler exposes the router, mainly for tests and embedding.
func (srv *ExerciseServer) Handler() http.Handler {
	return srv.echo
}

// Start serves on addr until SIGINT or SIGTERM, then shuts down gracefully.
func (srv *ExerciseServer) Start(addr string) error {
	go func() {
		log.Info().
			Str("addr", addr).
			Str("version", srv.version).
			Msg("Starting exercise server")

		if err := srv.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server startup failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	return srv.Shutdown()
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (srv *ExerciseServer) Shutdown() error {
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout*time.Second)
	defer cancel()

	if err := srv.echo.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
		return err
	}

	log.Info().Msg("Server gracefully stopped")
	return nil
}

func (srv *ExerciseServer) setupRoutes() {
	srv.echo.HideBanner = true
	srv.echo.HidePort = true
	srv.echo.HTTPErrorHandler = handleHTTPError

	srv.echo.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	srv.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			log.Info().
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("Request handled")
			return nil
		},
	}))
	srv.echo.Use(middleware.Recover())

	srv.echo.GET("/health", srv.health)
	srv.echo.GET("/list", srv.listExercises)
	srv.echo.GET("/list-app", srv.listSummaries)
	srv.echo.GET("/list/:id", srv.fetchExercise)
	srv.echo.GET("/list/:id/file", srv.downloadExercise)
	srv.echo.POST("/upload-new", srv.uploadExercise,
		middleware.BodyLimit(strconv.FormatUint(srv.maxUploadBytes, 10)))
	srv.echo.DELETE("/list/:id", srv.deleteExercise)
}

func (srv *ExerciseServer) health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"version": srv.version,
	})
}
