package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"

	"exercisecatalog/pkg/models"
)

// DeleteResponse is the server's answer to a delete. Warning is set when the
// record was removed but its file was not.
type DeleteResponse struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
	Warning string `json:"warning,omitempty"`
}

// Health returns the server version.
func (c *Client) Health(ctx context.Context) (string, error) {
	var health struct {
		Status  string `json:"status"`
		Version string `json:"version"`
	}
	if err := c.getJSON(ctx, "/health", &health); err != nil {
		return "", err
	}
	return health.Version, nil
}

// List returns every record including stored file names.
func (c *Client) List(ctx context.Context) ([]models.Exercise, error) {
	var exercises []models.Exercise
	if err := c.getJSON(ctx, "/list", &exercises); err != nil {
		return nil, err
	}
	return exercises, nil
}

// ListSummaries returns the records without stored file names.
func (c *Client) ListSummaries(ctx context.Context) ([]models.ExerciseSummary, error) {
	var summaries []models.ExerciseSummary
	if err := c.getJSON(ctx, "/list-app", &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

// Fetch returns an exercise with its decoded content.
func (c *Client) Fetch(ctx context.Context, exerciseID int64) (*models.ExerciseFile, error) {
	var file models.ExerciseFile
	if err := c.getJSON(ctx, fmt.Sprintf("/list/%d", exerciseID), &file); err != nil {
		return nil, err
	}
	return &file, nil
}

// Upload sends a new exercise. The body is buffered so it can be replayed
// when the connection fails before the server answers.
func (c *Client) Upload(ctx context.Context, exercise models.NewExercise, content io.Reader) (*models.CreateResult, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for _, field := range []struct{ key, value string }{
		{"title", exercise.Title},
		{"author", exercise.Author},
		{"faculty", exercise.Faculty},
	} {
		if err := writer.WriteField(field.key, field.value); err != nil {
			return nil, err
		}
	}
	part, err := writer.CreateFormFile("file", exercise.FileName)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload-new", body.Bytes())
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer closeBody(resp)

	var result models.CreateResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Download streams the raw file of an exercise into w and returns the file
// name the server suggested.
func (c *Client) Download(ctx context.Context, exerciseID int64, w io.Writer) (string, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/list/%d/file", c.baseURL, exerciseID), nil)
	if err != nil {
		return "", err
	}
	resp, err := c.do(req)
	if err != nil {
		return "", err
	}
	defer closeBody(resp)

	if _, err := io.Copy(w, resp.Body); err != nil {
		return "", err
	}

	_, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition"))
	if err != nil {
		return "", nil //nolint:nilerr // the content was delivered, only the name is unknown
	}
	return params["filename"], nil
}

// Delete removes an exercise.
func (c *Client) Delete(ctx context.Context, exerciseID int64) (*DeleteResponse, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodDelete, fmt.Sprintf("%s/list/%d", c.baseURL, exerciseID), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer closeBody(resp)

	var result DeleteResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}
