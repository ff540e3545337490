package backend

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// TransportConfig holds configuration for the backend transport
type TransportConfig struct {
	Timeout      time.Duration
	MaxRetries   int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	RateLimit    float64 // requests per second
}

// DefaultTransportConfig returns the dashboard defaults: no retries, a short
// timeout and a modest request rate.
func DefaultTransportConfig() TransportConfig {
	return TransportConfig{
		Timeout:      10 * time.Second,
		MaxRetries:   0,
		RetryWaitMin: 100 * time.Millisecond,
		RetryWaitMax: 2 * time.Second,
		RateLimit:    5.0,
	}
}

// transport wraps retryablehttp.Client with client-side rate limiting
type transport struct {
	client  *retryablehttp.Client
	limiter *rate.Limiter
}

func newTransport(cfg TransportConfig, logger *logrus.Logger) *transport {
	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient.Timeout = cfg.Timeout
	retryClient.RetryMax = cfg.MaxRetries
	retryClient.RetryWaitMin = cfg.RetryWaitMin
	retryClient.RetryWaitMax = cfg.RetryWaitMax
	retryClient.CheckRetry = customRetryPolicy()
	// Hand the last response back so callers map status codes themselves
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.Logger = leveledLogger{entry: logger.WithField("component", "backend_transport")}

	limit := rate.Limit(cfg.RateLimit)
	if cfg.RateLimit <= 0 {
		limit = rate.Inf
	}

	return &transport{
		client:  retryClient,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// do executes a request after waiting for the rate limiter
func (t *transport) do(ctx context.Context, method, url string, body []byte, header http.Header) (*http.Response, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	var reqBody interface{}
	if body != nil {
		reqBody = body
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, err
	}
	for k, values := range header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}

	return t.client.Do(req)
}

func (t *transport) close() {
	t.client.HTTPClient.CloseIdleConnections()
}

// customRetryPolicy defines which HTTP responses should trigger a retry
func customRetryPolicy() retryablehttp.CheckRetry {
	return func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		if err != nil {
			// Retry on network errors
			return true, err
		}

		switch resp.StatusCode {
		case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway,
			http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true, nil
		}

		return false, nil
	}
}

// leveledLogger adapts a logrus entry to retryablehttp.LeveledLogger
type leveledLogger struct {
	entry *logrus.Entry
}

func (l leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.with(keysAndValues).Error(msg)
}

func (l leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.with(keysAndValues).Debug(msg)
}

func (l leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.with(keysAndValues).Debug(msg)
}

func (l leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.with(keysAndValues).Warn(msg)
}

func (l leveledLogger) with(keysAndValues []interface{}) *logrus.Entry {
	fields := logrus.Fields{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return l.entry.WithFields(fields)
}

// drain discards and closes a response body so the connection can be reused
func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	resp.Body.Close()
}
