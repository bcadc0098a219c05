// Package apiclient talks to the road-surface issue REST API. It attaches
// the bearer credential, serializes JSON bodies and normalizes every
// response into a Result, an AuthError or a RequestError.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
)

// TokenSource supplies the credential attached to outbound requests.
// An empty token means the request goes out unauthenticated.
type TokenSource interface {
	Get(ctx context.Context) (string, error)
}

// Client is an API client bound to one base URL
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTokenSource sets where the bearer credential is read from
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) {
		c.tokens = ts
	}
}

// New creates a client for the API rooted at baseURL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithTokens returns a copy of the client that reads its credential from ts
func (c *Client) WithTokens(ts TokenSource) *Client {
	clone := *c
	clone.tokens = ts
	return &clone
}

// BaseURL returns the API root the client was built with
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Request describes one API call
type Request struct {
	Method string
	Path   string
	Body   any
	Header http.Header
}

// Result is a successful response: empty, JSON, or raw text
type Result struct {
	StatusCode int
	NoContent  bool
	JSON       json.RawMessage
	Text       string
}

// IsJSON reports whether the response carried a JSON payload
func (r *Result) IsJSON() bool {
	return len(r.JSON) > 0
}

// Decode unmarshals a JSON payload into v. Empty and text results leave v untouched.
func (r *Result) Decode(v any) error {
	if v == nil || !r.IsJSON() {
		return nil
	}
	if err := json.Unmarshal(r.JSON, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Do performs a request and normalizes the response
func (c *Client) Do(ctx context.Context, req Request) (*Result, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+req.Path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	for key, values := range req.Header {
		httpReq.Header.Del(key)
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	if token := c.currentToken(ctx); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, req.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.failure(resp, raw)
	}

	result := &Result{StatusCode: resp.StatusCode}
	if resp.StatusCode == http.StatusNoContent {
		result.NoContent = true
		return result, nil
	}

	if isJSONContent(resp.Header.Get("Content-Type")) {
		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) == 0 {
			result.NoContent = true
			return result, nil
		}
		if !json.Valid(trimmed) {
			return nil, fmt.Errorf("decode response: invalid JSON from %s %s", method, req.Path)
		}
		result.JSON = trimmed
		return result, nil
	}

	result.Text = string(raw)
	return result, nil
}

// call performs a request and decodes a JSON result into out
func (c *Client) call(ctx context.Context, method, path string, body, out any) error {
	res, err := c.Do(ctx, Request{Method: method, Path: path, Body: body})
	if err != nil {
		return err
	}
	return res.Decode(out)
}

func (c *Client) currentToken(ctx context.Context) string {
	if c.tokens == nil {
		return ""
	}
	token, err := c.tokens.Get(ctx)
	if err != nil {
		log.Printf("⚠️ Could not read credential: %v", err)
		return ""
	}
	return token
}

// failure turns a non-2xx response into an AuthError or RequestError
func (c *Client) failure(resp *http.Response, raw []byte) error {
	fallback := statusText(resp)
	if fallback == "" {
		fallback = defaultErrorMessage(resp.StatusCode)
	}

	var message string
	if isJSONContent(resp.Header.Get("Content-Type")) {
		if json.Valid(bytes.TrimSpace(raw)) {
			message = ExtractErrorMessage(raw, defaultErrorMessage(resp.StatusCode))
		} else {
			message = fallback
		}
	} else {
		message = strings.TrimSpace(string(raw))
		if message == "" {
			message = fallback
		}
	}

	log.Printf("❌ API error: %d %s %s: %s", resp.StatusCode, resp.Request.Method, resp.Request.URL.Path, message)

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return &AuthError{StatusCode: resp.StatusCode, Message: message}
	}
	return &RequestError{StatusCode: resp.StatusCode, Message: message}
}

// isJSONContent accepts application/json and structured-syntax types such
// as application/problem+json
func isJSONContent(contentType string) bool {
	contentType = strings.ToLower(contentType)
	return strings.Contains(contentType, "application/json") || strings.Contains(contentType, "+json")
}

// statusText returns the reason phrase the server sent, falling back to the
// standard text for the code
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}
