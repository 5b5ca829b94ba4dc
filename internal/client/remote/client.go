// Package remote is the typed HTTP client of the FocusMode API.
//
// Responses are mapped from the server's snake_case entities into the
// camelCase shapes of the models package. Errors follow one taxonomy:
// ErrRemoteUnavailable for network failures, timeouts and 5xx answers,
// ErrAuthRejected for 401/403, entities.ErrValidation and
// entities.ErrNotFound for definitive 400/404 answers.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/entities"
)

const (
	defaultTimeout = 10 * time.Second
	maxErrorBody   = 64 << 10
)

// TokenSource supplies the bearer token for each request. An empty token
// sends no Authorization header.
type TokenSource interface {
	Token() string
}

// Client talks to one API base URL such as http://localhost:3001/api.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

// NewClient creates a client. A zero timeout selects the default.
func NewClient(baseURL string, timeout time.Duration, tokens TokenSource) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		tokens: tokens,
	}
}

// BaseURL returns the API root the client was created with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// do issues one request. body is JSON-encoded when non-nil and the 2xx
// response is decoded into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// A cancelled caller is not an outage
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return &UnavailableError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
		return &UnavailableError{StatusCode: resp.StatusCode}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return statusError(resp.StatusCode, raw)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func statusError(status int, raw []byte) error {
	var body errorBody
	_ = json.Unmarshal(raw, &body)
	if body.Error == "" {
		body.Error = http.StatusText(status)
	}

	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return entities.NewValidationError("", pickMessage(body))
	}

	apiErr := &APIError{StatusCode: status, Code: body.Error, Message: body.Message}
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		apiErr.kind = ErrAuthRejected
	case http.StatusNotFound:
		apiErr.kind = entities.ErrNotFound
	case http.StatusConflict:
		apiErr.kind = ErrConflict
	}
	return apiErr
}

func pickMessage(body errorBody) string {
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}

// Health is the /health response.
type Health struct {
	Status    string  `json:"status"`
	Service   string  `json:"service"`
	Database  string  `json:"database"`
	Version   string  `json:"version,omitempty"`
	Timestamp string  `json:"timestamp"`
	Uptime    float64 `json:"uptime"`
}

// Health checks that the API and its database answer.
func (c *Client) Health(ctx context.Context) (Health, error) {
	var h Health
	err := c.do(ctx, http.MethodGet, "/health", nil, &h)
	return h, err
}

// Ping is Health without the body, used by the connectivity prober.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Health(ctx)
	return err
}

var errEmptyID = errors.New("record id is required")
