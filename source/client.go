// Package source fetches the primary version manifest and the secondary catalog.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff"

	"github.com/modpublish/versiondb/model"
)

const (
	// DefaultUserAgent identifies the tool to upstream APIs
	DefaultUserAgent = "versiondb/v1 (github.com/modpublish/versiondb)"
	defaultInterval  = 2 * time.Second
)

// Options configures a Client
type Options struct {
	UserAgent     string
	Retries       uint64        // extra attempts after the first; 0 disables retry
	RetryInterval time.Duration // initial backoff between attempts
	HTTPClient    *http.Client
}

// Client performs JSON GET requests with a per-call deadline
type Client struct {
	httpClient    *http.Client
	userAgent     string
	retries       uint64
	retryInterval time.Duration
}

// NewClient creates a new Client
func NewClient(opts Options) *Client {
	c := &Client{
		httpClient:    opts.HTTPClient,
		userAgent:     opts.UserAgent,
		retries:       opts.Retries,
		retryInterval: opts.RetryInterval,
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	if c.userAgent == "" {
		c.userAgent = DefaultUserAgent
	}
	if c.retryInterval <= 0 {
		c.retryInterval = defaultInterval
	}
	return c
}

// getJSON fetches url and decodes the body into out. Each attempt is bounded by
// timeout; transport and status failures wrap model.ErrNetwork, decode failures
// wrap model.ErrParse.
func (c *Client) getJSON(ctx context.Context, url string, timeout time.Duration, header http.Header, out any) error {
	// WithMaxRetries treats 0 as unlimited, so a single attempt needs StopBackOff
	var bo backoff.BackOff = &backoff.StopBackOff{}
	if c.retries > 0 {
		exp := backoff.NewExponentialBackOff()
		exp.InitialInterval = c.retryInterval
		bo = backoff.WithMaxRetries(exp, c.retries)
	}

	return backoff.Retry(func() error {
		return c.fetchOnce(ctx, url, timeout, header, out)
	}, backoff.WithContext(bo, ctx))
}

func (c *Client) fetchOnce(ctx context.Context, url string, timeout time.Duration, header http.Header, out any) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return backoff.Permanent(fmt.Errorf("%w: failed to create request: %v", model.ErrNetwork, err))
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	for k, values := range header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %v", model.ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := fmt.Errorf("%w: unexpected status code: %d", model.ErrNetwork, resp.StatusCode)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return backoff.Permanent(statusErr)
		}
		return statusErr
	}

	if err := json.Unmarshal(body, out); err != nil {
		return backoff.Permanent(fmt.Errorf("%w: %v", model.ErrParse, err))
	}
	return nil
}
