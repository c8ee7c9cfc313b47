// Package transport provides the default restnav.Transport built on
// hashicorp/go-retryablehttp. Retry, timeout, and cancellation policy live
// here; the navigator core stays free of them.
package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/fivetwenty-io/restnav/internal/constants"
	"github.com/fivetwenty-io/restnav/pkg/restnav"
	"github.com/hashicorp/go-retryablehttp"
)

// Client implements restnav.Transport.
type Client struct {
	httpClient           *retryablehttp.Client
	userAgent            string
	logger               restnav.Logger
	debug                bool
	requestInterceptors  []RequestInterceptor
	responseInterceptors []ResponseInterceptor
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger for debug output.
func WithLogger(logger restnav.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request/response debug logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithRetryConfig configures retry behavior.
func WithRetryConfig(maxRetries int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = maxRetries
		c.httpClient.RetryWaitMin = waitMin
		c.httpClient.RetryWaitMax = waitMax
	}
}

// WithHTTPClient sets the underlying standard HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient.HTTPClient = httpClient
	}
}

// WithRequestInterceptor appends a hook run before each request is sent.
func WithRequestInterceptor(interceptor RequestInterceptor) Option {
	return func(c *Client) {
		c.requestInterceptors = append(c.requestInterceptors, interceptor)
	}
}

// WithResponseInterceptor appends a hook run after each response is read.
func WithResponseInterceptor(interceptor ResponseInterceptor) Option {
	return func(c *Client) {
		c.responseInterceptors = append(c.responseInterceptors, interceptor)
	}
}

// NewClient creates a transport client.
func NewClient(opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = constants.DefaultRetryMax
	retryClient.RetryWaitMax = constants.DefaultRetryWaitMax
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout
	retryClient.Logger = nil

	client := &Client{
		httpClient: retryClient,
		userAgent:  constants.DefaultUserAgent,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Request implements restnav.Transport. It returns a Response for every
// completed exchange regardless of status code; errors are reserved for
// failures to perform the exchange at all.
func (c *Client) Request(ctx context.Context, method, rawURL string, opts *restnav.RequestOptions) (*restnav.Response, error) {
	if opts == nil {
		opts = &restnav.RequestOptions{}
	}

	target, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing URL %q: %w", rawURL, err)
	}

	if len(opts.Params) > 0 {
		query := target.Query()
		for key, values := range opts.Params {
			for _, value := range values {
				query.Add(key, value)
			}
		}

		target.RawQuery = query.Encode()
	}

	var body interface{}

	if opts.Body != nil {
		encoded, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}

		body = encoded
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	if opts.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	for key, values := range opts.Headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	for _, interceptor := range c.requestInterceptors {
		err = interceptor(ctx, req.Request)
		if err != nil {
			return nil, fmt.Errorf("request interceptor: %w", err)
		}
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("http request", map[string]interface{}{
			"method": method,
			"url":    target.String(),
		})
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, target.String(), err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	resp := &restnav.Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       respBody,
	}

	for _, interceptor := range c.responseInterceptors {
		err = interceptor(ctx, req.Request, resp)
		if err != nil {
			return nil, fmt.Errorf("response interceptor: %w", err)
		}
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("http response", map[string]interface{}{
			"method": method,
			"url":    target.String(),
			"status": httpResp.StatusCode,
			"bytes":  len(respBody),
		})
	}

	return resp, nil
}

// DecodeJSON unmarshals a response body into v.
func DecodeJSON(resp *restnav.Response, v interface{}) error {
	err := json.Unmarshal(resp.Body, v)
	if err != nil {
		return fmt.Errorf("decoding response body: %w", err)
	}

	return nil
}

var _ restnav.Transport = (*Client)(nil)
