package polygon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	// DefaultBaseURL is the public Polygon REST endpoint.
	DefaultBaseURL = "https://api.polygon.io"

	// DefaultTimeout bounds one GET attempt.
	DefaultTimeout = 30 * time.Second

	apiKeyParam = "apiKey"
)

// Client issues authenticated GET requests against the Polygon REST API.
// One Client owns one HTTP connection pool; it is safe to reuse across calls.
type Client struct {
	apiKey     string
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	rc         *resty.Client
	retry      RetryPolicy
	logger     *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL overrides DefaultBaseURL, e.g. for a proxy or a test server.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithHTTPClient sets a pre-configured HTTP client whose connections are reused.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-attempt request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRetryPolicy replaces DefaultRetryPolicy.
func WithRetryPolicy(p RetryPolicy) ClientOption {
	return func(c *Client) {
		c.retry = p
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a Client. An empty apiKey fails with ErrAuthentication.
func NewClient(apiKey string, opts ...ClientOption) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, ErrAuthentication
	}
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		timeout: DefaultTimeout,
		retry:   DefaultRetryPolicy(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = newHTTPClient()
	}
	c.rc = resty.NewWithClient(c.httpClient)
	return c, nil
}

// BaseURL returns the base URL relative paths are resolved against.
func (c *Client) BaseURL() string { return c.baseURL }

// Close releases idle pooled connections.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// Get fetches pathOrURL and decodes the JSON body into out (skipped when out is nil).
//
// A relative path is joined to the base URL. An absolute URL, such as a next_url
// continuation link, is used verbatim; params may then be nil. The API key is added
// unless the URL already carries one. Transient network failures are retried per
// the client's RetryPolicy; 429 yields *RateLimitError, other non-2xx *HTTPError,
// and an undecodable body *DecodeError, none of which are retried.
func (c *Client) Get(ctx context.Context, pathOrURL string, params url.Values, out any) error {
	target, err := c.resolve(pathOrURL, params)
	if err != nil {
		return err
	}

	var body []byte
	err = c.retry.Do(ctx, func() error {
		b, err := c.do(ctx, target)
		body = b
		return err
	}, func(attempt int, err error, delay time.Duration) {
		c.logger.Warn("polygon request failed, retrying",
			"attempt", attempt,
			"delay", delay,
			"url", redactURL(target),
			"error", err,
		)
	})
	if err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &DecodeError{Err: err, Body: body}
	}
	return nil
}

// do runs a single attempt.
func (c *Client) do(ctx context.Context, target string) ([]byte, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.rc.R().
		SetContext(reqCtx).
		SetHeader("Accept", "application/json").
		Get(target)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			urlErr.URL = redactURL(urlErr.URL)
		}
		return nil, err
	}

	body := resp.Body()
	switch {
	case resp.StatusCode() == http.StatusTooManyRequests:
		return nil, &RateLimitError{RetryAfter: resp.Header().Get("Retry-After"), Body: body}
	case !resp.IsSuccess():
		return nil, &HTTPError{StatusCode: resp.StatusCode(), Body: body}
	}
	return body, nil
}

// resolve builds the final request URL and merges params and the API key into it.
func (c *Client) resolve(pathOrURL string, params url.Values) (string, error) {
	u, err := url.Parse(pathOrURL)
	if err != nil {
		return "", fmt.Errorf("parse URL: %w", err)
	}
	if !u.IsAbs() {
		path := pathOrURL
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		if u, err = url.Parse(c.baseURL + path); err != nil {
			return "", fmt.Errorf("parse URL: %w", err)
		}
	}

	if len(params) == 0 {
		// Keep an existing query string byte for byte.
		if !u.Query().Has(apiKeyParam) {
			extra := url.Values{apiKeyParam: {c.apiKey}}.Encode()
			if u.RawQuery == "" {
				u.RawQuery = extra
			} else {
				u.RawQuery += "&" + extra
			}
		}
		return u.String(), nil
	}

	q := u.Query()
	for k, vs := range params {
		q.Del(k)
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	if !q.Has(apiKeyParam) {
		q.Set(apiKeyParam, c.apiKey)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// redactURL hides the apiKey query value so URLs can be logged.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	if !q.Has(apiKeyParam) {
		return raw
	}
	q.Set(apiKeyParam, "REDACTED")
	u.RawQuery = q.Encode()
	return u.String()
}
