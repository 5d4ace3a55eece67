// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// HTTPStatusError occurs when a document is served with a non 2xx status.
type HTTPStatusError struct {
	URL        string
	StatusCode int
}

// Error implements the [builtin.error] interface.
func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d from %s", e.StatusCode, e.URL)
}

type httpOptions struct {
	maxRetries int
	waitMin    time.Duration
	waitMax    time.Duration
	timeout    time.Duration
	rt         http.RoundTripper
	log        *slog.Logger
}

// HTTPOption configures [HTTP].
type HTTPOption func(*httpOptions)

// MaxRetries sets how often a failed request is retried.
func MaxRetries(n int) HTTPOption {
	return func(o *httpOptions) {
		o.maxRetries = n
	}
}

// RetryWait bounds the backoff between retries.
func RetryWait(waitMin, waitMax time.Duration) HTTPOption {
	return func(o *httpOptions) {
		o.waitMin = waitMin
		o.waitMax = waitMax
	}
}

// Timeout limits every single attempt.
func Timeout(d time.Duration) HTTPOption {
	return func(o *httpOptions) {
		o.timeout = d
	}
}

// RoundTripper sets the underlying transport.
func RoundTripper(rt http.RoundTripper) HTTPOption {
	return func(o *httpOptions) {
		o.rt = rt
	}
}

// Logger sets the logger for request and retry logs.
func Logger(l *slog.Logger) HTTPOption {
	return func(o *httpOptions) {
		o.log = l
	}
}

// HTTP fetches a document with GET and returns its body.
// The caller must close the returned reader.
func HTTP(ctx context.Context, url string, opts ...HTTPOption) (io.ReadCloser, error) {
	o := &httpOptions{
		maxRetries: 3,
		waitMin:    100 * time.Millisecond,
		waitMax:    2 * time.Second,
		rt:         http.DefaultTransport,
		log:        slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(o)
	}

	rc := retryablehttp.Client{
		HTTPClient: &http.Client{
			Timeout: o.timeout,
			Transport: &logRoundTripper{
				base: o.rt,
				log:  o.log,
			},
		},
		Logger:       o.log,
		RetryWaitMin: o.waitMin,
		RetryWaitMax: o.waitMax,
		RetryMax:     o.maxRetries,
		CheckRetry:   retryablehttp.DefaultRetryPolicy,
		Backoff:      retryablehttp.DefaultBackoff,
		ErrorHandler: retryablehttp.PassthroughErrorHandler,
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := rc.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, &HTTPStatusError{URL: url, StatusCode: resp.StatusCode}
	}
	return resp.Body, nil
}

type logRoundTripper struct {
	base http.RoundTripper
	log  *slog.Logger
}

func (rt *logRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	start := time.Now()
	rt.log.DebugContext(
		ctx,
		"request sent",
		slog.String("url", req.URL.String()),
	)
	resp, err := rt.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	rt.log.DebugContext(
		ctx,
		"response received",
		slog.String("url", req.URL.String()),
		slog.Int("status_code", resp.StatusCode),
		slog.Duration("latency", time.Since(start)),
	)
	return resp, err
}
