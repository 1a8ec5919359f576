package client

import (
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// Option configures HTTPClient
type Option func(*HTTPClient)

// WithBaseURL overrides DefaultBaseURL
func WithBaseURL(baseURL string) Option {
	return func(c *HTTPClient) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets the underlying HTTP client,
// the connection pool is shared by all calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-attempt request timeout, 0 disables it
func WithTimeout(timeout time.Duration) Option {
	return func(c *HTTPClient) {
		c.timeout = timeout
	}
}

// WithRetry sets the number of retries for idempotent reads,
// and the initial backoff interval.
func WithRetry(maxRetries int, initialInterval time.Duration) Option {
	return func(c *HTTPClient) {
		c.maxRetries = max(maxRetries, 0)
		c.retryInterval = initialInterval
	}
}

// WithDebug enables logging of request and response bodies
func WithDebug(debug bool) Option {
	return func(c *HTTPClient) {
		c.debug = debug
	}
}

// WithTracerProvider sets the provider of the client spans
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *HTTPClient) {
		c.tracer = tp.Tracer(tracerName)
	}
}

// WithMaxArtifactSize limits the size of downloaded artifacts
func WithMaxArtifactSize(size int64) Option {
	return func(c *HTTPClient) {
		c.maxArtifactSize = size
	}
}
