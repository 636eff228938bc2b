package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"exercisecatalog/pkg/models"
	"exercisecatalog/pkg/service"
	"exercisecatalog/pkg/store"
)

// MockService is a mock implementation of ExerciseService for testing
type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, exercise models.NewExercise, content io.Reader) (*models.CreateResult, error) {
	args := m.Called(ctx, exercise, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CreateResult), args.Error(1)
}

func (m *MockService) List(ctx context.Context) ([]models.Exercise, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Exercise), args.Error(1)
}

func (m *MockService) ListSummaries(ctx context.Context) ([]models.ExerciseSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ExerciseSummary), args.Error(1)
}

func (m *MockService) Get(ctx context.Context, exerciseID int64) (*models.Exercise, error) {
	args := m.Called(ctx, exerciseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Exercise), args.Error(1)
}

func (m *MockService) Fetch(ctx context.Context, exerciseID int64) (*models.ExerciseFile, error) {
	args := m.Called(ctx, exerciseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExerciseFile), args.Error(1)
}

func (m *MockService) Delete(ctx context.Context, exerciseID int64) (*models.DeleteResult, error) {
	args := m.Called(ctx, exerciseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DeleteResult), args.Error(1)
}

func notFound(exerciseID int64) error {
	return fmt.Errorf("%w: id %d", service.ErrNotFound, exerciseID)
}

// ServerTestSuite drives the routes through the echo router
type ServerTestSuite struct {
	suite.Suite
	server      *ExerciseServer
	mockService *MockService
}

// SetupTest runs before each test
func (s *ServerTestSuite) SetupTest() {
	s.mockService = new(MockService)
	s.server = NewExerciseServer(s.mockService, 1024, "test-v1.0.0")
}

// TearDownTest checks that every expected call was made
func (s *ServerTestSuite) TearDownTest() {
	s.mockService.AssertExpectations(s.T())
}

func (s *ServerTestSuite) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.server.Handler().ServeHTTP(rec, req)
	return rec
}

func (s *ServerTestSuite) decode(rec *httptest.ResponseRecorder, target any) {
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), target))
}

func uploadRequest(fields map[string]string, fileName string, content []byte) *http.Request {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		_ = writer.WriteField(key, value)
	}
	if fileName != "" {
		part, _ := writer.CreateFormFile("file", fileName)
		_, _ = part.Write(content)
	}
	_ = writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/upload-new", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func validFields() map[string]string {
	return map[string]string{"title": "A", "author": "B", "faculty": "C"}
}

var validExercise = models.NewExercise{Title: "A", Author: "B", Faculty: "C", FileName: "x.pdf"}

func storedExercise(exerciseID int64, fileName string) models.Exercise {
	return models.Exercise{
		ID:             exerciseID,
		Title:          "A",
		Author:         "B",
		Faculty:        "C",
		StoredFileName: fileName,
		CreatedAt:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

// TestHealth tests the liveness route
func (s *ServerTestSuite) TestHealth() {
	rec := s.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	s.Equal(http.StatusOK, rec.Code)

	var response map[string]string
	s.decode(rec, &response)
	s.Equal("ok", response["status"])
	s.Equal("test-v1.0.0", response["version"])
}

// TestRequestIDHeader tests that every response carries a request id
func (s *ServerTestSuite) TestRequestIDHeader() {
	rec := s.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	s.Len(rec.Header().Get(echo.HeaderXRequestID), 36)
}

// TestUploadSuccess tests a successful upload
func (s *ServerTestSuite) TestUploadSuccess() {
	var received []byte
	s.mockService.On("Create", mock.Anything, validExercise, mock.Anything).
		Run(func(args mock.Arguments) {
			received, _ = io.ReadAll(args.Get(2).(io.Reader))
		}).
		Return(&models.CreateResult{Exercise: storedExercise(1, "x.pdf"), Size: 1}, nil)

	rec := s.do(uploadRequest(validFields(), "x.pdf", []byte("1")))
	s.Equal(http.StatusCreated, rec.Code)

	var response map[string]any
	s.decode(rec, &response)
	s.Equal(float64(1), response["id"])
	s.Equal("x.pdf", response["file_name"])
	s.Equal(false, response["renamed"])
	s.Equal("A", response["title"])
	s.Equal("2026-03-01T12:00:00Z", response["created_at"])
	s.Equal(float64(1), response["size"])
	s.Equal([]byte("1"), received)
}

// TestUploadRenamed tests that a derived name is reported
func (s *ServerTestSuite) TestUploadRenamed() {
	s.mockService.On("Create", mock.Anything, validExercise, mock.Anything).
		Return(&models.CreateResult{Exercise: storedExercise(2, "x42.pdf"), Renamed: true, Size: 1}, nil)

	rec := s.do(uploadRequest(validFields(), "x.pdf", []byte("1")))
	s.Equal(http.StatusCreated, rec.Code)

	var response map[string]any
	s.decode(rec, &response)
	s.Equal("x42.pdf", response["file_name"])
	s.Equal(true, response["renamed"])
}

// TestUploadReportsStoredMetadata tests that the response carries the values
// the service stored, not the raw form fields
func (s *ServerTestSuite) TestUploadReportsStoredMetadata() {
	exercise := models.NewExercise{Title: "  Graphs ", Author: "B\t", Faculty: " C", FileName: "g.pdf"}
	stored := storedExercise(3, "g.pdf")
	stored.Title = "Graphs"
	s.mockService.On("Create", mock.Anything, exercise, mock.Anything).
		Return(&models.CreateResult{Exercise: stored, Size: 1}, nil)

	rec := s.do(uploadRequest(map[string]string{"title": "  Graphs ", "author": "B\t", "faculty": " C"}, "g.pdf", []byte("1")))
	s.Equal(http.StatusCreated, rec.Code)

	var response map[string]any
	s.decode(rec, &response)
	s.Equal("Graphs", response["title"])
	s.Equal("B", response["author"])
	s.Equal("C", response["faculty"])
}

// TestUploadMissingFile tests an upload without a file part
func (s *ServerTestSuite) TestUploadMissingFile() {
	rec := s.do(uploadRequest(validFields(), "", nil))
	s.Equal(http.StatusBadRequest, rec.Code)

	var response map[string]string
	s.decode(rec, &response)
	s.Equal("file parameter is required", response["error"])
	s.mockService.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything, mock.Anything)
}

// TestUploadEmptyTitle tests validation failures map to 400
func (s *ServerTestSuite) TestUploadEmptyTitle() {
	exercise := validExercise
	exercise.Title = ""
	s.mockService.On("Create", mock.Anything, exercise, mock.Anything).
		Return(nil, service.ValidationError{Field: "title", Reason: "must not be empty"})

	fields := validFields()
	fields["title"] = ""

	rec := s.do(uploadRequest(fields, "x.pdf", []byte("1")))
	s.Equal(http.StatusBadRequest, rec.Code)

	var response map[string]string
	s.decode(rec, &response)
	s.Contains(response["error"], "title")
}

// TestUploadStorageFailure tests storage failures map to 500
func (s *ServerTestSuite) TestUploadStorageFailure() {
	s.mockService.On("Create", mock.Anything, validExercise, mock.Anything).
		Return(nil, service.StorageError{Op: service.OpWriteBlob, Name: "x.pdf", Err: errors.New("disk full")})

	rec := s.do(uploadRequest(validFields(), "x.pdf", []byte("1")))
	s.Equal(http.StatusInternalServerError, rec.Code)

	var response map[string]string
	s.decode(rec, &response)
	s.Equal("storage error", response["error"])
	s.NotContains(rec.Body.String(), "disk full")
}

// TestUploadTooLarge tests the body limit
func (s *ServerTestSuite) TestUploadTooLarge() {
	rec := s.do(uploadRequest(validFields(), "big.pdf", bytes.Repeat([]byte("x"), 4096)))
	s.Equal(http.StatusRequestEntityTooLarge, rec.Code)

	var response map[string]string
	s.decode(rec, &response)
	s.Equal(http.StatusText(http.StatusRequestEntityTooLarge), response["error"])
	s.NotContains(response, "message")
	s.mockService.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything, mock.Anything)
}

// TestUnknownRoute tests that router errors use the error body too
func (s *ServerTestSuite) TestUnknownRoute() {
	rec := s.do(httptest.NewRequest(http.MethodGet, "/nope", nil))
	s.Equal(http.StatusNotFound, rec.Code)
	s.JSONEq(`{"error":"Not Found"}`, rec.Body.String())

	rec = s.do(httptest.NewRequest(http.MethodPut, "/list/1", nil))
	s.Equal(http.StatusMethodNotAllowed, rec.Code)
	s.JSONEq(`{"error":"Method Not Allowed"}`, rec.Body.String())
}

// TestPanicIsRecovered tests that a panicking service yields a JSON 500
func (s *ServerTestSuite) TestPanicIsRecovered() {
	s.mockService.On("List", mock.Anything).Run(func(mock.Arguments) { panic("boom") })

	rec := s.do(httptest.NewRequest(http.MethodGet, "/list", nil))
	s.Equal(http.StatusInternalServerError, rec.Code)
	s.JSONEq(`{"error":"Internal Server Error"}`, rec.Body.String())
}

// TestList tests the full listing
func (s *ServerTestSuite) TestList() {
	s.mockService.On("List", mock.Anything).Return([]models.Exercise{
		{ID: 1, Title: "A", Author: "B", Faculty: "C", StoredFileName: "a.pdf"},
		{ID: 2, Title: "A", Author: "B", Faculty: "C", StoredFileName: "b.pdf"},
	}, nil)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/list", nil))
	s.Equal(http.StatusOK, rec.Code)

	var exercises []models.Exercise
	s.decode(rec, &exercises)
	s.Require().Len(exercises, 2)
	s.Equal("a.pdf", exercises[0].StoredFileName)
	s.Equal(int64(2), exercises[1].ID)
}

// TestListEmpty tests that an empty catalog is an empty JSON array
func (s *ServerTestSuite) TestListEmpty() {
	s.mockService.On("List", mock.Anything).Return([]models.Exercise{}, nil)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/list", nil))
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`[]`, rec.Body.String())
}

// TestListSummaries tests the app listing shape
func (s *ServerTestSuite) TestListSummaries() {
	s.mockService.On("ListSummaries", mock.Anything).Return([]models.ExerciseSummary{
		{ID: 1, Title: "A", Author: "B", Faculty: "C"},
	}, nil)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/list-app", nil))
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`[{"id":1,"title":"A","author":"B","faculty":"C"}]`, rec.Body.String())
}

// TestListFailure tests catalog failures on listing
func (s *ServerTestSuite) TestListFailure() {
	s.mockService.On("ListSummaries", mock.Anything).
		Return(nil, service.StorageError{Op: service.OpReadRecord, Err: errors.New("locked")})

	rec := s.do(httptest.NewRequest(http.MethodGet, "/list-app", nil))
	s.Equal(http.StatusInternalServerError, rec.Code)
}

// TestFetch tests fetching an exercise with its content
func (s *ServerTestSuite) TestFetch() {
	s.mockService.On("Fetch", mock.Anything, int64(3)).Return(&models.ExerciseFile{
		Title: "A", Author: "B", Faculty: "C", Data: []byte("hello"),
	}, nil)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/list/3", nil))
	s.Equal(http.StatusOK, rec.Code)

	var file models.ExerciseFile
	s.decode(rec, &file)
	s.Equal("A", file.Title)
	s.Equal("B", file.Author)
	s.Equal("C", file.Faculty)
	s.Equal([]byte("hello"), file.Data)
}

// TestFetchNotFound tests an unknown id
func (s *ServerTestSuite) TestFetchNotFound() {
	s.mockService.On("Fetch", mock.Anything, int64(999)).Return(nil, notFound(999))

	rec := s.do(httptest.NewRequest(http.MethodGet, "/list/999", nil))
	s.Equal(http.StatusNotFound, rec.Code)
}

// TestFetchInvalidIDs tests ids rejected before or by the service
func (s *ServerTestSuite) TestFetchInvalidIDs() {
	s.mockService.On("Fetch", mock.Anything, int64(0)).
		Return(nil, service.ValidationError{Field: "id", Reason: "must be positive"})
	s.mockService.On("Fetch", mock.Anything, int64(-4)).
		Return(nil, service.ValidationError{Field: "id", Reason: "must be positive"})

	for _, path := range []string{"/list/abc", "/list/0", "/list/-4", "/list/1.5"} {
		rec := s.do(httptest.NewRequest(http.MethodGet, path, nil))
		s.Equal(http.StatusBadRequest, rec.Code, path)
	}
}

// TestFetchMissingBlob tests that a missing file is distinguishable from a missing exercise
func (s *ServerTestSuite) TestFetchMissingBlob() {
	s.mockService.On("Fetch", mock.Anything, int64(1)).Return(nil, service.StorageError{
		Op:   service.OpReadBlob,
		Name: "x.pdf",
		Err:  store.BlobNotFoundError{Name: "x.pdf"},
	})

	rec := s.do(httptest.NewRequest(http.MethodGet, "/list/1", nil))
	s.Equal(http.StatusInternalServerError, rec.Code)

	var response map[string]string
	s.decode(rec, &response)
	s.Equal("storage error", response["error"])
}

// TestDownload tests the raw file route
func (s *ServerTestSuite) TestDownload() {
	s.mockService.On("Get", mock.Anything, int64(1)).
		Return(&models.Exercise{ID: 1, Title: "A", StoredFileName: "sheet 1.txt"}, nil)
	s.mockService.On("Fetch", mock.Anything, int64(1)).
		Return(&models.ExerciseFile{Title: "A", Data: []byte("plain text")}, nil)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/list/1/file", nil))
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("plain text", rec.Body.String())
	s.Contains(rec.Header().Get("Content-Type"), "text/plain")
	s.Equal(`attachment; filename="sheet 1.txt"`, rec.Header().Get("Content-Disposition"))
}

// TestDownloadNotFound tests the raw file route for an unknown id
func (s *ServerTestSuite) TestDownloadNotFound() {
	s.mockService.On("Get", mock.Anything, int64(7)).Return(nil, notFound(7))

	rec := s.do(httptest.NewRequest(http.MethodGet, "/list/7/file", nil))
	s.Equal(http.StatusNotFound, rec.Code)
	s.mockService.AssertNotCalled(s.T(), "Fetch", mock.Anything, mock.Anything)
}

// TestDelete tests a successful delete
func (s *ServerTestSuite) TestDelete() {
	s.mockService.On("Delete", mock.Anything, int64(5)).
		Return(&models.DeleteResult{ID: 5, StoredFileName: "x.pdf"}, nil)

	rec := s.do(httptest.NewRequest(http.MethodDelete, "/list/5", nil))
	s.Equal(http.StatusOK, rec.Code)

	var response map[string]any
	s.decode(rec, &response)
	s.Equal("Exercise deleted successfully", response["message"])
	s.Equal(float64(5), response["id"])
	s.NotContains(response, "warning")
}

// TestDeleteBlobWarning tests that a failed blob removal is a warning, not a failure
func (s *ServerTestSuite) TestDeleteBlobWarning() {
	s.mockService.On("Delete", mock.Anything, int64(5)).Return(&models.DeleteResult{
		ID:             5,
		StoredFileName: "x.pdf",
		BlobErr:        service.StorageError{Op: service.OpRemoveBlob, Name: "x.pdf", Err: errors.New("busy")},
	}, nil)

	rec := s.do(httptest.NewRequest(http.MethodDelete, "/list/5", nil))
	s.Equal(http.StatusOK, rec.Code)

	var response map[string]any
	s.decode(rec, &response)
	s.Contains(response, "warning")
}

// TestDeleteNotFound tests deleting an unknown id
func (s *ServerTestSuite) TestDeleteNotFound() {
	s.mockService.On("Delete", mock.Anything, int64(999)).Return(nil, notFound(999))

	rec := s.do(httptest.NewRequest(http.MethodDelete, "/list/999", nil))
	s.Equal(http.StatusNotFound, rec.Code)

	var response map[string]string
	s.decode(rec, &response)
	s.Equal("exercise not found", response["error"])
}

// TestDeleteInvalidID tests deleting with a malformed id
func (s *ServerTestSuite) TestDeleteInvalidID() {
	rec := s.do(httptest.NewRequest(http.MethodDelete, "/list/x1", nil))
	s.Equal(http.StatusBadRequest, rec.Code)
	s.mockService.AssertNotCalled(s.T(), "Delete", mock.Anything, mock.Anything)
}

// TestShutdownWithoutStart tests that shutting down an idle server succeeds
func (s *ServerTestSuite) TestShutdownWithoutStart() {
	s.NoError(s.server.Shutdown())
}

func TestServerSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}
