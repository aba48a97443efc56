// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the HTTP back-off used by the board client.
package httputil

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

// RetryBaseDelay is the first back-off after an HTTP 429. Tests override
// this to avoid real sleeps.
var RetryBaseDelay = 2 * time.Second

// maxRetryAfter caps a server-provided Retry-After.
const maxRetryAfter = time.Minute

const defaultMaxRetries = 5

// Policy configures DoWithRetry.
type Policy struct {
	// MaxRetries is the number of retries after the first attempt.
	// Zero selects the default (5).
	MaxRetries int

	// Logger receives a warning per back-off. Nil discards.
	Logger *slog.Logger
}

// DoWithRetry executes req and retries on HTTP 429 (Too Many Requests).
// The wait honours a Retry-After header given in seconds; otherwise it
// starts at RetryBaseDelay and doubles each attempt.
//
// On each 429 the response body is drained and closed before sleeping. If
// ctx is cancelled during a wait, ctx.Err() is returned. After exhausting
// retries the last 429 response is returned so the caller can inspect it.
// Other statuses are returned to the caller untouched.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, p Policy) (*http.Response, error) {
	maxRetries := p.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	logger := p.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		if attempt >= maxRetries {
			return resp, nil
		}

		wait := backoff(attempt, resp.Header.Get("Retry-After"))

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		logger.Warn("rate limited, backing off",
			"url", req.URL.Redacted(), "wait", wait, "attempt", attempt+1, "max_retries", maxRetries)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

// backoff returns the wait before retry attempt+1.
func backoff(attempt int, retryAfter string) time.Duration {
	if secs, err := strconv.Atoi(retryAfter); err == nil && secs >= 0 {
		d := time.Duration(secs) * time.Second
		return min(d, maxRetryAfter)
	}
	return RetryBaseDelay << attempt
}
