package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"exercisecatalog/pkg/log"
)

const (
	// DefaultRetryMax is the number of retries after a failed connection.
	DefaultRetryMax = 3
	// DefaultRetryWaitMin is the first backoff between retries.
	DefaultRetryWaitMin = 100 * time.Millisecond
	// DefaultRetryWaitMax caps the backoff between retries.
	DefaultRetryWaitMax = 2 * time.Second
)

// ErrInvalidBaseURL is returned by New for an empty base URL.
var ErrInvalidBaseURL = errors.New("base URL is required")

// APIError is a non-2xx answer from the exercise server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return "server returned status " + http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("server returned status %s: %s", http.StatusText(e.StatusCode), e.Message)
}

// Client talks to a running exercise server.
type Client struct {
	baseURL string
	http    *retryablehttp.Client
}

// New creates a client for the server at baseURL, e.g. http://127.0.0.1:3000.
func New(baseURL string, retryMax int, retryWaitMin, retryWaitMax time.Duration) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, ErrInvalidBaseURL
	}
	if !strings.Contains(baseURL, "://") {
		baseURL = "http://" + baseURL
	}

	httpClient := retryablehttp.NewClient()
	httpClient.RetryMax = retryMax
	httpClient.RetryWaitMin = retryWaitMin
	httpClient.RetryWaitMax = retryWaitMax
	httpClient.Logger = nil
	httpClient.CheckRetry = retryPolicy
	httpClient.RequestLogHook = func(_ retryablehttp.Logger, req *http.Request, attempt int) {
		if attempt > 0 {
			log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Int("attempt", attempt).Msg("Retrying request")
		}
	}

	return &Client{baseURL: baseURL, http: httpClient}, nil
}

// retryPolicy retries only when no response arrived. Any status the server
// sends back, including 5xx, is final.
func retryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if resp != nil {
		return false, nil
	}
	if err != nil {
		return true, nil //nolint:nilerr // retryablehttp reports the last error itself
	}
	return false, nil
}

// do sends the request and returns the response when the status is 2xx.
// The caller closes the body.
func (c *Client) do(req *retryablehttp.Request) (*http.Response, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return resp, nil
	}
	defer closeBody(resp)

	apiErr := &APIError{StatusCode: resp.StatusCode}
	var body struct {
		Error string `json:"error"`
	}
	if json.NewDecoder(resp.Body).Decode(&body) == nil {
		apiErr.Message = body.Error
	}
	return nil, apiErr
}

func (c *Client) getJSON(ctx context.Context, path string, target any) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer closeBody(resp)
	return json.NewDecoder(resp.Body).Decode(target)
}

func closeBody(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	if err := resp.Body.Close(); err != nil {
		log.Warn().Err(err).Msg("Failed to close response body")
	}
}
