// Package http provides the HTTP transport client and the two API-based
// source adapters (paginated REST-like and per-month AJAX).
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/civicmeet/civicmeet"
)

// Transport defaults.
const (
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "civicmeet/1.0 (+https://github.com/civicmeet/civicmeet)"
)

// RetryPolicy is an explicit policy value composed around the transport:
// attempt count, backoff schedule, and the retryable status-code set.
type RetryPolicy struct {
	// MaxAttempts is the total number of tries per request, including the
	// first.
	MaxAttempts int

	// InitialInterval and MaxInterval bound the exponential backoff
	// schedule between attempts.
	InitialInterval time.Duration
	MaxInterval     time.Duration

	// RetryableStatus is the set of HTTP status codes worth retrying.
	// Connection errors are always retryable.
	RetryableStatus map[int]bool
}

// DefaultRetryPolicy returns the policy used against portal backends:
// 4 attempts, backoff starting at 600ms, retrying 429 and 5xx.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:     4,
		InitialInterval: 600 * time.Millisecond,
		MaxInterval:     10 * time.Second,
		RetryableStatus: map[int]bool{
			http.StatusTooManyRequests:     true,
			http.StatusInternalServerError: true,
			http.StatusBadGateway:          true,
			http.StatusServiceUnavailable:  true,
			http.StatusGatewayTimeout:      true,
		},
	}
}

// Ensure Client implements the domain transport interfaces.
var (
	_ civicmeet.Fetcher    = (*Client)(nil)
	_ civicmeet.Downloader = (*Client)(nil)
)

// Client is the process-wide HTTP transport. It is stateless aside from
// connection pooling and the retry policy, and safe for concurrent use.
type Client struct {
	hc        *http.Client
	policy    RetryPolicy
	userAgent string
	timeout   time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout. Defaults to DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithRetryPolicy replaces the default retry policy.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(c *Client) {
		c.policy = p
	}
}

// WithUserAgent sets the User-Agent header sent on every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates a Client with bounded exponential retry for transient
// failures.
func NewClient(opts ...Option) *Client {
	c := &Client{
		policy:    DefaultRetryPolicy(),
		userAgent: DefaultUserAgent,
		timeout:   DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.hc = &http.Client{Timeout: c.timeout}
	return c
}

// Fetch retrieves text content from the URL.
func (c *Client) Fetch(ctx context.Context, url string) (string, error) {
	data, _, err := c.Download(ctx, url)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Download retrieves binary content and its declared content type.
func (c *Client) Download(ctx context.Context, url string) ([]byte, string, error) {
	return c.roundTrip(ctx, http.MethodGet, url, nil, "")
}

// GetJSON issues a GET and decodes the JSON response into v.
func (c *Client) GetJSON(ctx context.Context, url string, v any) error {
	data, _, err := c.roundTrip(ctx, http.MethodGet, url, nil, "application/json")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return civicmeet.Errorf(civicmeet.EINVALID, "decoding response from %s: %v", url, err)
	}
	return nil
}

// PostJSON issues a POST with a JSON body and decodes the JSON response
// into v.
func (c *Client) PostJSON(ctx context.Context, url string, body any, v any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return civicmeet.Errorf(civicmeet.EINVALID, "encoding request for %s: %v", url, err)
	}
	data, _, err := c.roundTrip(ctx, http.MethodPost, url, payload, "application/json")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return civicmeet.Errorf(civicmeet.EINVALID, "decoding response from %s: %v", url, err)
	}
	return nil
}

// roundTrip executes one request under the retry policy. Connection errors
// and retryable statuses back off exponentially until the attempt budget is
// exhausted; other statuses fail immediately.
func (c *Client) roundTrip(ctx context.Context, method, url string, body []byte, accept string) ([]byte, string, error) {
	var data []byte
	var contentType string

	op := func() error {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return backoff.Permanent(civicmeet.Errorf(civicmeet.EINVALID, "building request for %s: %v", url, err))
		}
		req.Header.Set("User-Agent", c.userAgent)
		if accept != "" {
			req.Header.Set("Accept", accept)
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.hc.Do(req)
		if err != nil {
			return civicmeet.Errorf(civicmeet.EUNAVAILABLE, "fetching %s: %v", url, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			statusErr := civicmeet.Errorf(civicmeet.EUNAVAILABLE, "HTTP %d for %s", resp.StatusCode, url)
			if c.policy.RetryableStatus[resp.StatusCode] {
				return statusErr
			}
			return backoff.Permanent(statusErr)
		}

		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return civicmeet.Errorf(civicmeet.EUNAVAILABLE, "reading %s: %v", url, err)
		}
		data = b
		contentType = resp.Header.Get("Content-Type")
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.policy.InitialInterval
	bo.MaxInterval = c.policy.MaxInterval

	maxRetries := uint64(0)
	if c.policy.MaxAttempts > 1 {
		maxRetries = uint64(c.policy.MaxAttempts - 1)
	}

	err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(bo, maxRetries), ctx))
	if err != nil {
		return nil, "", err
	}
	return data, contentType, nil
}
