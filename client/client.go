package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sagarc03/roster"
)

// DefaultTimeout is the default HTTP client timeout.
const DefaultTimeout = 30 * time.Second

// DefaultEndpoint is the default server endpoint URL.
const DefaultEndpoint = "http://localhost:8080"

// Client talks to a roster server over its versioned HTTP API.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// New creates a Client for the server at endpoint.
func New(endpoint string, opts ...Option) (*Client, error) {
	endpoint = strings.TrimSuffix(strings.TrimSpace(endpoint), "/")
	if endpoint == "" {
		return nil, ErrEndpointRequired
	}

	u, err := url.Parse(endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid endpoint %q", endpoint)
	}

	c := &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Endpoint returns the normalized server URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Create stores a new user and returns it with its assigned id.
func (c *Client) Create(ctx context.Context, in roster.CreateUser) (roster.User, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return roster.User{}, fmt.Errorf("encode request: %w", err)
	}

	var u roster.User
	if err := c.do(ctx, http.MethodPost, "/v1/users", bytes.NewReader(body), &u); err != nil {
		return roster.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// Get fetches a user by id.
func (c *Client) Get(ctx context.Context, id int64) (roster.User, error) {
	var u roster.User
	if err := c.do(ctx, http.MethodGet, userPath(id), nil, &u); err != nil {
		return roster.User{}, fmt.Errorf("get user %d: %w", id, err)
	}
	return u, nil
}

// Delete removes each user in ids. It continues on error and reports one
// result per id in order.
func (c *Client) Delete(ctx context.Context, ids []int64) ([]DeleteResult, error) {
	if len(ids) == 0 {
		return nil, ErrNoIDs
	}

	results := make([]DeleteResult, 0, len(ids))
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		var u roster.User
		err := c.do(ctx, http.MethodDelete, userPath(id), nil, &u)
		if err != nil {
			results = append(results, DeleteResult{ID: id, Err: err})
			continue
		}
		results = append(results, DeleteResult{ID: id, Deleted: true, User: u})
	}

	return results, nil
}

// Version returns the API version the server reports.
func (c *Client) Version(ctx context.Context) (string, error) {
	var v roster.VersionInfo
	if err := c.do(ctx, http.MethodGet, "/v1/", nil, &v); err != nil {
		return "", fmt.Errorf("version: %w", err)
	}
	return v.Version, nil
}

// Health returns nil when the server and its database are reachable.
func (c *Client) Health(ctx context.Context) error {
	if err := c.do(ctx, http.MethodGet, "/healthz", nil, nil); err != nil {
		return fmt.Errorf("health: %w", err)
	}
	return nil
}

// DeleteResult is the outcome of deleting a single user.
type DeleteResult struct {
	ID      int64
	Deleted bool
	User    roster.User
	Err     error
}

// HasDeleteErrors returns true if any delete operation failed.
func HasDeleteErrors(results []DeleteResult) bool {
	for _, r := range results {
		if r.Err != nil {
			return true
		}
	}
	return false
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	if body == nil {
		body = http.NoBody
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseServerError(resp.StatusCode, data)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

func userPath(id int64) string {
	return "/v1/users/" + strconv.FormatInt(id, 10)
}

// parseServerError builds an *APIError from a response, reading the
// {"error","message"} body when it decodes.
func parseServerError(statusCode int, body []byte) error {
	apiErr := &APIError{StatusCode: statusCode}

	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		apiErr.Code = payload.Error
		apiErr.Message = payload.Message
	} else if s := strings.TrimSpace(string(body)); s != "" {
		apiErr.Message = s
	}

	return apiErr
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
