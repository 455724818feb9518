// Package clinicapi talks to the clinic's hosted booking functions over REST.
package clinicapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wolfman30/clinic-booking/pkg/logging"
)

const (
	defaultTimeout  = 20 * time.Second
	maxErrorMessage = 300
)

var tracer = otel.Tracer("clinicbooking.internal.clinicapi")

// ErrMissingBaseURL is returned when the client was built without an endpoint.
var ErrMissingBaseURL = errors.New("clinicapi: missing base url")

// StatusError is returned for non-2xx responses that carry no booking outcome.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("clinicapi: status %d: %s", e.Status, e.Message)
}

// Client is a small REST client for the hosted functions. Requests carry the project key both as
// the apikey header and as a bearer token.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *logging.Logger
}

// NewClient creates a client. A non-positive timeout uses the default.
func NewClient(baseURL, apiKey string, timeout time.Duration, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:     strings.TrimSpace(apiKey),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// get fetches path and returns the raw body.
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "clinicapi.get")
	defer span.End()
	span.SetAttributes(attribute.String("clinicapi.path", path))

	endpoint, err := c.endpoint(path, query)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("clinicapi: create request: %w", err)
	}
	status, body, err := c.do(req)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("http.status_code", status))
	if status < 200 || status >= 300 {
		err := &StatusError{Status: status, Message: errorMessage(body)}
		span.RecordError(err)
		return nil, err
	}
	return body, nil
}

// post sends payload as JSON and returns the status and raw body without judging the status.
func (c *Client) post(ctx context.Context, path string, payload any) (int, []byte, error) {
	ctx, span := tracer.Start(ctx, "clinicapi.post")
	defer span.End()
	span.SetAttributes(attribute.String("clinicapi.path", path))

	endpoint, err := c.endpoint(path, nil)
	if err != nil {
		return 0, nil, err
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("clinicapi: marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return 0, nil, fmt.Errorf("clinicapi: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	status, body, err := c.do(req)
	if err != nil {
		span.RecordError(err)
		return 0, nil, err
	}
	span.SetAttributes(attribute.Int("http.status_code", status))
	return status, body, nil
}

func (c *Client) do(req *http.Request) (int, []byte, error) {
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("clinicapi: request failed", "method", req.Method, "path", req.URL.Path, "error", err)
		return 0, nil, fmt.Errorf("clinicapi: http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("clinicapi: read response: %w", err)
	}
	c.logger.Debug("clinicapi: request complete",
		"method", req.Method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(started).Milliseconds(),
	)
	return resp.StatusCode, body, nil
}

func (c *Client) endpoint(path string, query url.Values) (string, error) {
	if c.baseURL == "" {
		return "", ErrMissingBaseURL
	}
	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u, nil
}

// errorMessage pulls a readable message out of an error body, truncating raw text.
func errorMessage(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		if eb.Error != "" {
			return eb.Error
		}
		if eb.Message != "" {
			return eb.Message
		}
	}
	return truncateUTF8(strings.TrimSpace(string(body)), maxErrorMessage)
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
