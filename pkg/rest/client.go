package rest

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
)

// AuthHeader carries the bearer token. The backend does not read Authorization.
const AuthHeader = "x-auth-token"

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
)

// StatusError is returned for every non-2xx response.
type StatusError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	msg := strings.TrimSpace(e.Body)
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, msg)
}

// Is lets callers match with errors.Is(err, rest.ErrNotFound).
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
	}
	return false
}

// Auth says whether a request carries the token header and with which value.
type Auth struct {
	Send  bool
	Token string
}

// NoAuth omits the token header.
var NoAuth = Auth{}

// WithToken sends the token header, empty if there is no token.
func WithToken(token string) Auth { return Auth{Send: true, Token: token} }

// Client talks JSON to the directory backend.
type Client struct {
	base string
	http *http.Client
}

// NewClient returns a client rooted at baseURL (e.g. "https://host/api").
// A zero timeout leaves requests bounded only by their context.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: timeout},
	}
}

// Response is a raw successful response.
type Response struct {
	Status int
	Body   []byte
}

// Do sends body (JSON-encoded when non-nil) and returns the raw response.
// Non-2xx statuses come back as *StatusError.
func (c *Client) Do(ctx context.Context, method, path string, auth Auth, body any) (*Response, error) {
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		rd = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if auth.Send {
		req.Header.Set(AuthHeader, auth.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s %s: %w", method, path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Method: method, Path: path, Status: resp.StatusCode, Body: string(data)}
	}
	return &Response{Status: resp.StatusCode, Body: data}, nil
}

// JSON is Do followed by decoding the response body into out (if non-nil).
func (c *Client) JSON(ctx context.Context, method, path string, auth Auth, body, out any) error {
	resp, err := c.Do(ctx, method, path, auth, body)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(resp.Body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
