package health

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

type httpCheckConfig struct {
	method       string
	retries      int
	retryWaitMin time.Duration
	retryWaitMax time.Duration
}

// HTTPCheckOption configures HTTPCheck.
type HTTPCheckOption func(*httpCheckConfig)

// WithRetries sets how many times a failed request is retried. Default: 2.
func WithRetries(n int) HTTPCheckOption {
	return func(c *httpCheckConfig) {
		c.retries = n
	}
}

// WithRetryWait sets the retry backoff bounds. Default: 100ms to 1s.
func WithRetryWait(minWait, maxWait time.Duration) HTTPCheckOption {
	return func(c *httpCheckConfig) {
		c.retryWaitMin = minWait
		c.retryWaitMax = maxWait
	}
}

// WithMethod sets the request method. Default: GET.
func WithMethod(method string) HTTPCheckOption {
	return func(c *httpCheckConfig) {
		c.method = method
	}
}

// HTTPCheck reports a dependency healthy when url answers below 400.
// Transient failures are retried before the check fails.
func HTTPCheck(url string, opts ...HTTPCheckOption) CheckFunc {
	cfg := &httpCheckConfig{
		method:       http.MethodGet,
		retries:      2,
		retryWaitMin: 100 * time.Millisecond,
		retryWaitMax: time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	client := retryablehttp.NewClient()
	client.RetryMax = cfg.retries
	client.RetryWaitMin = cfg.retryWaitMin
	client.RetryWaitMax = cfg.retryWaitMax
	client.Logger = nil
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return func(ctx context.Context) error {
		req, err := retryablehttp.NewRequestWithContext(ctx, cfg.method, url, nil)
		if err != nil {
			return err
		}

		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusBadRequest {
			return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
		}
		return nil
	}
}
