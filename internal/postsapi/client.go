// Package postsapi is a typed client for the posts REST service.
//
// Every operation returns either a Response envelope or an *Error whose Kind
// tells network failures, validation failures, missing posts, unclassified
// server errors and malformed payloads apart. Calls are never retried.
package postsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vaughan-dsouza/postboard/internal/models"
)

// maxErrorBody caps how much of an error response is kept.
const maxErrorBody = 64 << 10

// Response is the envelope returned by successful calls.
type Response[T any] struct {
	Status int
	Header http.Header
	Data   T
}

// Client talks to a single base URL, e.g. http://localhost:8000/api.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	log     *slog.Logger

	timeout    time.Duration
	hasTimeout bool
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Its transport is
// wrapped so requests still carry JSON and request id headers.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		cp := *hc
		rt := cp.Transport
		if rt == nil {
			rt = http.DefaultTransport
		}
		if _, ok := rt.(*requestIDTransport); !ok {
			cp.Transport = &requestIDTransport{underlyingTransport: rt}
		}
		c.http = &cp
	}
}

// WithTimeout sets the per-request timeout. Zero disables it. It applies
// to a client given by WithHTTPClient regardless of option order.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
		c.hasTimeout = true
	}
}

// WithLogger sets the logger. Falls back to slog.Default() if nil.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// New returns a client for baseURL. The URL must be absolute.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("postsapi: parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("postsapi: base url %q must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("postsapi: base url %q has no host", baseURL)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")

	c := &Client{
		baseURL: u,
		http:    newHTTPClient(defaultTimeout),
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.hasTimeout {
		c.http.Timeout = c.timeout
	}
	return c, nil
}

// BaseURL returns the configured base address.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// ListPosts fetches every post in server order.
func (c *Client) ListPosts(ctx context.Context) (*Response[[]models.Post], error) {
	const op = "list posts"
	var posts []models.Post
	resp, err := c.do(ctx, op, http.MethodGet, "/posts/", nil, http.StatusOK, &posts)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []models.Post{}
	}
	return &Response[[]models.Post]{Status: resp.StatusCode, Header: resp.Header, Data: posts}, nil
}

// GetPost fetches a single post.
func (c *Client) GetPost(ctx context.Context, id int64) (*Response[models.Post], error) {
	const op = "get post"
	var post models.Post
	resp, err := c.do(ctx, op, http.MethodGet, postPath(id), nil, http.StatusOK, &post)
	if err != nil {
		return nil, err
	}
	return &Response[models.Post]{Status: resp.StatusCode, Header: resp.Header, Data: post}, nil
}

// CreatePost creates a post and returns it with server-assigned fields.
func (c *Client) CreatePost(ctx context.Context, in models.PostInput) (*Response[models.Post], error) {
	const op = "create post"
	var post models.Post
	resp, err := c.do(ctx, op, http.MethodPost, "/posts/", in, http.StatusCreated, &post)
	if err != nil {
		return nil, err
	}
	return &Response[models.Post]{Status: resp.StatusCode, Header: resp.Header, Data: post}, nil
}

// UpdatePost replaces the title and content of a post.
func (c *Client) UpdatePost(ctx context.Context, id int64, in models.PostInput) (*Response[models.Post], error) {
	const op = "update post"
	var post models.Post
	resp, err := c.do(ctx, op, http.MethodPut, postPath(id), in, http.StatusOK, &post)
	if err != nil {
		return nil, err
	}
	return &Response[models.Post]{Status: resp.StatusCode, Header: resp.Header, Data: post}, nil
}

// DeletePost removes a post. The envelope carries no payload.
func (c *Client) DeletePost(ctx context.Context, id int64) (*Response[struct{}], error) {
	const op = "delete post"
	resp, err := c.do(ctx, op, http.MethodDelete, postPath(id), nil, http.StatusNoContent, nil)
	if err != nil {
		return nil, err
	}
	return &Response[struct{}]{Status: resp.StatusCode, Header: resp.Header}, nil
}

func postPath(id int64) string {
	return "/posts/" + strconv.FormatInt(id, 10) + "/"
}

// do sends one request and decodes a `want` response into out (if non-nil).
// The response body is always drained and closed.
func (c *Client) do(ctx context.Context, op, method, path string, body any, want int, out any) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%s: marshal request: %w", op, err)
		}
		reqBody = bytes.NewReader(b)
	}

	endpoint := c.baseURL.JoinPath(path)
	// Every route ends in a slash.
	endpoint.Path = strings.TrimSuffix(endpoint.Path, "/") + "/"

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reqBody)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", op, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("posts api request failed", "op", op, "method", method, "url", endpoint.String(), "err", err)
		return nil, &Error{Kind: KindNetwork, Op: op, Err: err}
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	c.log.Debug("posts api response", "op", op, "method", method, "url", endpoint.String(), "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, errorFromResponse(op, resp, errBody)
	}
	if resp.StatusCode != want {
		return nil, &Error{
			Kind:   KindServer,
			Op:     op,
			Status: resp.StatusCode,
			Msg:    fmt.Sprintf("unexpected status, want %d", want),
		}
	}

	if out == nil {
		return resp, nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if ctx.Err() != nil {
			return nil, &Error{Kind: KindNetwork, Op: op, Err: ctx.Err()}
		}
		return nil, &Error{Kind: KindMalformed, Op: op, Status: resp.StatusCode, Err: err}
	}
	return resp, nil
}
