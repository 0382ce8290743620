package gke

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/imamik/gkepool/internal/config"
)

// Client talks to the GKE node pool REST API.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	credentials CredentialSupplier
	timeouts    *config.Timeouts
	userAgent   string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL points the client at another endpoint, e.g. a test server.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithCredentials sets how requests are authorized.
func WithCredentials(cs CredentialSupplier) ClientOption {
	return func(c *Client) {
		c.credentials = cs
	}
}

// WithTimeouts sets custom timeouts for the client.
func WithTimeouts(t *config.Timeouts) ClientOption {
	return func(c *Client) {
		c.timeouts = t
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates a new Client with optional configuration. Without
// options it targets DefaultBaseURL anonymously.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:     DefaultBaseURL,
		credentials: Anonymous(),
		timeouts:    config.LoadTimeouts(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeouts.Request}
	}
	return c
}

// BaseURL returns the endpoint all links are relative to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get issues a GET for link.
func (c *Client) Get(ctx context.Context, id Identity, link string) (*Response, error) {
	return c.do(ctx, id, http.MethodGet, link, nil)
}

// Post issues a POST of body, encoded as JSON, to link.
func (c *Client) Post(ctx context.Context, id Identity, link string, body any) (*Response, error) {
	return c.do(ctx, id, http.MethodPost, link, body)
}

// Put issues a PUT of body, encoded as JSON, to link.
func (c *Client) Put(ctx context.Context, id Identity, link string, body any) (*Response, error) {
	return c.do(ctx, id, http.MethodPut, link, body)
}

// Delete issues a DELETE for link.
func (c *Client) Delete(ctx context.Context, id Identity, link string) (*Response, error) {
	return c.do(ctx, id, http.MethodDelete, link, nil)
}

// Fetch reads the object at link. A missing object is not an error and
// returns nil.
func (c *Client) Fetch(ctx context.Context, id Identity, link string) (map[string]any, error) {
	resp, err := c.Get(ctx, id, link)
	if err != nil {
		return nil, err
	}
	return ReturnIfObject(resp, true)
}

func (c *Client) do(ctx context.Context, id Identity, method, link string, body any) (*Response, error) {
	logger := log.FromContext(ctx)

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s body for %s: %w", method, link, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, link, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s %s: %w", method, link, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	ts, err := c.credentials.TokenSource(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load credentials for %s: %w", id, err)
	}
	if ts != nil {
		token, err := ts.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to obtain access token for %s: %w", id, err)
		}
		token.SetAuthHeader(req)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		recordAPICall(method, 0, time.Since(start))
		return nil, fmt.Errorf("%s %s: %w", method, link, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	recordAPICall(method, resp.StatusCode, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("failed to read response of %s %s: %w", method, link, err)
	}

	logger.V(1).Info("api call", "method", method, "url", link, "status", resp.StatusCode, "duration", time.Since(start))

	return &Response{
		Method:     method,
		URL:        link,
		StatusCode: resp.StatusCode,
		Body:       data,
	}, nil
}
