package crawl

import (
	"context"
	"time"

	"github.com/fwojciec/govvideo"
)

// FetchFunc is the signature for a fetch function.
type FetchFunc func(ctx context.Context, url string) (*govvideo.Response, error)

// RetryFunc is called before each retry with the failed attempt's error.
type RetryFunc func(url string, attempt int, err error)

// DefaultRetryDelays returns the backoff delays for listing fetches: one
// retry after 2s, for two attempts in total.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{2 * time.Second}
}

// FetchWithRetryDelays calls fetch up to len(delays)+1 times, sleeping
// delays[i] after the i-th failed attempt.
//
// Only EUNAVAILABLE failures are retried. Absent pages (ENOTFOUND) and any
// other error are returned immediately.
func FetchWithRetryDelays(ctx context.Context, url string, fetch FetchFunc, onRetry RetryFunc, delays []time.Duration) (*govvideo.Response, error) {
	maxAttempts := len(delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		resp, err := fetch(ctx, url)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if govvideo.ErrorCode(err) != govvideo.EUNAVAILABLE {
			break
		}

		// Don't retry after the last attempt
		if attempt >= maxAttempts-1 {
			break
		}

		if onRetry != nil {
			onRetry(url, attempt+2, err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return nil, lastErr
}
