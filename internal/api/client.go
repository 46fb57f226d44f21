package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// defaultTimeout bounds requests whose context carries no deadline.
const defaultTimeout = 10 * time.Second

// TokenProvider supplies the bearer token attached to every request.
// Implementations read from wherever the credential actually lives
// (keyring in production, a fixed string in tests).
type TokenProvider interface {
	Token() (string, error)
}

// StaticToken is a TokenProvider returning a fixed token.
type StaticToken string

// Token returns the fixed token.
func (t StaticToken) Token() (string, error) { return string(t), nil }

// Client is a thin HTTP client for the queue-management backend API.
// It handles Bearer token authentication, JSON marshaling, per-request
// timeouts, and translation of JSON error bodies. Every failure is
// returned to the caller once; there is no retry.
type Client struct {
	baseURL    string
	tokens     TokenProvider
	httpClient *http.Client
	timeout    time.Duration
	log        zerolog.Logger
}

// NewClient creates a backend client. The baseURL should be the API root
// (e.g., http://localhost:5000/api). The token provider is consulted on
// every request.
func NewClient(baseURL string, tokens TokenProvider, log zerolog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
		httpClient: &http.Client{},
		timeout:    defaultTimeout,
		log:        log,
	}
}

// Get performs an HTTP GET request and unmarshals the JSON response.
func (c *Client) Get(ctx context.Context, path string, result interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, nil, result)
}

// Post performs an HTTP POST request with an optional JSON body and
// unmarshals the JSON response.
func (c *Client) Post(ctx context.Context, path string, body, result interface{}) error {
	return c.do(ctx, http.MethodPost, path, nil, body, result)
}

// Do performs a request with caller-supplied headers. Caller headers take
// precedence over the defaults the client would otherwise set.
func (c *Client) Do(
	ctx context.Context,
	method string,
	path string,
	header http.Header,
	body interface{},
	result interface{},
) error {
	return c.do(ctx, method, path, header, body, result)
}

// resolve joins path to the base URL. Absolute URLs pass through unchanged.
func (c *Client) resolve(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

// do is the core HTTP method that builds the request, handles auth,
// timeouts, and JSON (de)serialization.
func (c *Client) do(
	ctx context.Context,
	method string,
	path string,
	header http.Header,
	body interface{},
	result interface{},
) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.resolve(path), bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	token, err := c.tokens.Token()
	if err != nil {
		return fmt.Errorf("reading access token: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	for name, values := range header {
		req.Header.Del(name)
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("%s %s: %w", method, path, ErrTimeout)
		}
		return fmt.Errorf("executing request %s %s: %w", method, path, err)
	}

	respBody, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("%s %s: %w", method, path, ErrTimeout)
		}
		return fmt.Errorf("reading response body: %w", readErr)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &RequestError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp.StatusCode, respBody),
		}
	}

	if result == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("unmarshaling response from %s %s: %w", method, path, err)
	}

	return nil
}

// errorMessage extracts a human-readable message from a JSON error body.
// The backend uses either an "error" or a "message" field; anything else
// falls back to the HTTP status line.
func errorMessage(statusCode int, body []byte) string {
	var parsed struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Error != "" {
			return parsed.Error
		}
		if parsed.Message != "" {
			return parsed.Message
		}
	}
	return fmt.Sprintf("HTTP %d: %s", statusCode, http.StatusText(statusCode))
}
