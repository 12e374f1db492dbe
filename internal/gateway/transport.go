package gateway

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

	"github.com/rs/zerolog/log"
)

// ErrUnavailable wraps transport failures: the backend could not be reached
// or answered with something that is not JSON.
var ErrUnavailable = errors.New("backend unavailable")

// TokenSource yields the current bearer token; empty means anonymous.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Status  int
	Method  string
	Path    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Status)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.Message)
}

func statusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

func IsUnauthorized(err error) bool { return statusOf(err) == http.StatusUnauthorized }
func IsForbidden(err error) bool    { return statusOf(err) == http.StatusForbidden }
func IsNotFound(err error) bool     { return statusOf(err) == http.StatusNotFound }

// IsClientError reports a 4xx the user can act on (bad input, conflict).
func IsClientError(err error) bool {
	s := statusOf(err)
	return s >= 400 && s < 500
}

// MessageOf returns the backend's own message when there is one.
func MessageOf(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

// Transport is the base request layer bound to one backend origin.
type Transport struct {
	origin string
	client *http.Client
	tokens TokenSource
}

func NewTransport(origin string, client *http.Client, tokens TokenSource) *Transport {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	if tokens == nil {
		tokens = TokenFunc(func() string { return "" })
	}
	return &Transport{
		origin: strings.TrimRight(origin, "/"),
		client: client,
		tokens: tokens,
	}
}

// WithTokens returns a transport sharing the HTTP client but reading tokens
// from another source.
func (t *Transport) WithTokens(tokens TokenSource) *Transport {
	return NewTransport(t.origin, t.client, tokens)
}

// prepareHeaders runs on every request so a login or logout is seen by the
// very next call.
func (t *Transport) prepareHeaders(h http.Header) {
	if token := t.tokens.Token(); token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	h.Set("Content-Type", "application/json")
	h.Set("Accept", "application/json")
}

// Do sends one request and decodes the JSON answer into out (when non-nil).
func (t *Transport) Do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, t.origin+path, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	t.prepareHeaders(req.Header)

	start := time.Now()
	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read %s %s: %v", ErrUnavailable, method, path, err)
	}

	log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("backend call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Method: method, Path: path, Message: errorMessage(raw)}
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decode %s %s: %v", ErrUnavailable, method, path, err)
	}
	return nil
}

type envelope[T any] struct {
	Data T `json:"data"`
}

// getData performs a read and unwraps the `{data: T}` envelope.
func getData[T any](ctx context.Context, t *Transport, path string) (T, error) {
	var env envelope[T]
	if err := t.Do(ctx, http.MethodGet, path, nil, &env); err != nil {
		var zero T
		return zero, err
	}
	return env.Data, nil
}

// errorMessage digs the human message out of the common error bodies:
// {"message": "..."}, {"error": "..."} and {"error": {"message": "..."}}.
func errorMessage(raw []byte) string {
	var body struct {
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return strings.TrimSpace(string(raw))
	}
	if body.Message != "" {
		return body.Message
	}
	if len(body.Error) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(body.Error, &s); err == nil {
		return s
	}
	var nested struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body.Error, &nested); err == nil {
		return nested.Message
	}
	return ""
}
