package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fivetwenty-io/spotify-client/internal/auth"
	"github.com/fivetwenty-io/spotify-client/internal/constants"
	"github.com/fivetwenty-io/spotify-client/pkg/spotify"
)

const defaultUserAgent = "spotify-client-go/1.0"

// Client is the request pipeline: it resolves the URL, attaches headers,
// hands the request to its Backend and maps the outcome.
type Client struct {
	baseURL      *url.URL
	baseURLErr   error
	tokenManager auth.TokenManager
	backend      Backend
	logger       Logger
	debug        bool
	userAgent    string
	timeout      time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug adds an "HTTP Response" entry for every call.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithBackend selects the backend. Defaults to a BlockingBackend.
func WithBackend(backend Backend) Option {
	return func(c *Client) {
		c.backend = backend
	}
}

// WithHTTPTimeout sets the transport timeout of the default backend.
func WithHTTPTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// NewClient creates a pipeline. Relative request paths are joined onto
// baseURL, which defaults to the Web API root.
func NewClient(baseURL string, tokenManager auth.TokenManager, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = constants.DefaultAPIBaseURL
	}

	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	client := &Client{
		tokenManager: tokenManager,
		logger:       noopLogger{},
		userAgent:    defaultUserAgent,
	}

	client.baseURL, client.baseURLErr = url.Parse(baseURL)

	for _, opt := range opts {
		opt(client)
	}

	if client.logger == nil {
		client.logger = noopLogger{}
	}

	if client.backend == nil {
		client.backend = NewBlockingBackend(client.timeout, client.logger)
	}

	return client
}

// Backend returns the backend the client was built with.
func (c *Client) Backend() Backend {
	return c.backend
}

// Request describes one call.
//
// When Headers is non-nil it is applied verbatim and no Authorization header
// is synthesized. When Headers is nil, exactly one "Authorization: Bearer"
// header is attached from the token manager.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    interface{}
	Form    url.Values
	Headers map[string]string
}

// RequestOption adjusts a request before it is sent.
type RequestOption func(*Request)

// WithHeaders replaces the default authorization with headers.
func WithHeaders(headers map[string]string) RequestOption {
	return func(r *Request) {
		r.Headers = headers
	}
}

// Response is a successful exchange.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Text returns the body as a string.
func (r *Response) Text() string {
	return string(r.Body)
}

// DecodeJSON decodes the body into v.
func (r *Response) DecodeJSON(v interface{}) error {
	return DecodeJSON(r, v)
}

// DecodeJSON decodes resp's body into v. Failures are *spotify.SerializationError.
func DecodeJSON(resp *Response, v interface{}) error {
	if resp == nil {
		return &spotify.SerializationError{Err: io.ErrUnexpectedEOF}
	}

	err := json.Unmarshal(resp.Body, v)
	if err != nil {
		return &spotify.SerializationError{Err: err}
	}

	return nil
}

// Result is the outcome of a call started with Go.
type Result struct {
	Response *Response
	Err      error
}

// Do performs req. On a non-2xx status the response is returned together
// with a *spotify.StatusCodeError.
func (c *Client) Do(ctx context.Context, req *Request, opts ...RequestOption) (*Response, error) {
	call := *req
	for _, opt := range opts {
		opt(&call)
	}

	httpReq, err := c.buildRequest(ctx, &call)
	if err != nil {
		return nil, err
	}

	c.logger.Info("HTTP Request", map[string]interface{}{
		"method": httpReq.Method,
		"url":    httpReq.URL.String(),
	})

	start := time.Now()

	httpResp, err := c.backend.Send(ctx, httpReq)
	if err != nil {
		return nil, &spotify.TransportError{Method: httpReq.Method, URL: httpReq.URL.String(), Err: err}
	}

	defer func() { _ = httpResp.Body.Close() }()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &spotify.TransportError{Method: httpReq.Method, URL: httpReq.URL.String(), Err: err}
	}

	if c.debug {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"status":   httpResp.StatusCode,
			"duration": time.Since(start).String(),
			"size":     len(body),
		})
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       body,
	}

	if httpResp.StatusCode < http.StatusOK || httpResp.StatusCode >= http.StatusMultipleChoices {
		return resp, spotify.NewStatusCodeError(httpResp.StatusCode, http.StatusText(httpResp.StatusCode), body)
	}

	return resp, nil
}

// Go performs req without blocking the caller. The channel receives exactly
// one Result.
func (c *Client) Go(ctx context.Context, req *Request, opts ...RequestOption) <-chan Result {
	results := make(chan Result, 1)

	go func() {
		defer close(results)

		resp, err := c.Do(ctx, req, opts...)
		results <- Result{Response: resp, Err: err}
	}()

	return results
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query}, opts...)
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body}, opts...)
}

// PostForm performs a POST request with a form body.
func (c *Client) PostForm(ctx context.Context, path string, form url.Values, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Form: form}, opts...)
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body interface{}, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPut, Path: path, Body: body}, opts...)
}

// Delete performs a DELETE request, with a JSON body when body is non-nil.
func (c *Client) Delete(ctx context.Context, path string, body interface{}, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path, Body: body}, opts...)
}

func (c *Client) buildRequest(ctx context.Context, req *Request) (*http.Request, error) {
	target, err := c.resolveURL(req.Path, req.Query)
	if err != nil {
		return nil, err
	}

	var (
		body        io.Reader
		contentType string
	)

	switch {
	case req.Form != nil:
		body = strings.NewReader(req.Form.Encode())
		contentType = "application/x-www-form-urlencoded"
	case req.Body != nil:
		data, marshalErr := json.Marshal(req.Body)
		if marshalErr != nil {
			return nil, &spotify.SerializationError{Err: marshalErr}
		}

		body = bytes.NewReader(data)
		contentType = "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	err = c.applyHeaders(ctx, httpReq, req.Headers)
	if err != nil {
		return nil, err
	}

	return httpReq, nil
}

// applyHeaders enforces the override-or-default policy: caller headers are
// used verbatim, otherwise a single bearer header is attached.
func (c *Client) applyHeaders(ctx context.Context, httpReq *http.Request, headers map[string]string) error {
	if headers != nil {
		for key, value := range headers {
			httpReq.Header.Set(key, value)
		}

		return nil
	}

	if c.tokenManager == nil {
		return spotify.ErrNoTokenManager
	}

	token, err := c.tokenManager.GetToken(ctx)
	if err != nil {
		return fmt.Errorf("getting access token: %w", err)
	}

	httpReq.Header.Set("Authorization", "Bearer "+token)

	return nil
}

func (c *Client) resolveURL(path string, query url.Values) (*url.URL, error) {
	var (
		target *url.URL
		err    error
	)

	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		target, err = url.Parse(path)
		if err != nil {
			return nil, fmt.Errorf("parsing request URL: %w", err)
		}
	} else {
		if c.baseURLErr != nil {
			return nil, fmt.Errorf("parsing base URL: %w", c.baseURLErr)
		}

		// Relative paths arrive escaped; id segments are url.PathEscape'd by callers.
		escaped := strings.TrimPrefix(path, "/")

		var unescaped string

		unescaped, err = url.PathUnescape(escaped)
		if err != nil {
			return nil, fmt.Errorf("parsing request path: %w", err)
		}

		target = c.baseURL.ResolveReference(&url.URL{Path: unescaped, RawPath: escaped})
	}

	if len(query) > 0 {
		merged := target.Query()
		for key, values := range query {
			merged[key] = values
		}

		target.RawQuery = merged.Encode()
	}

	return target, nil
}
