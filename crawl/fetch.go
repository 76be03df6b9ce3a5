package crawl

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/fwojciec/govvideo"
)

var _ govvideo.Fetcher = (*PoliteFetcher)(nil)

// PoliteFetcher paces and retries another Fetcher.
//
// Every attempt first waits on Limiter, so consecutive requests to a host
// are at least the limiter's delay apart whatever their outcome. Transient
// failures are retried after each of RetryDelays; a nil RetryDelays makes a
// single attempt.
type PoliteFetcher struct {
	Fetcher     govvideo.Fetcher
	Limiter     govvideo.DomainLimiter
	RetryDelays []time.Duration
	Logger      *slog.Logger
}

// Fetch retrieves url with pacing and bounded retries.
func (f *PoliteFetcher) Fetch(ctx context.Context, rawURL string) (*govvideo.Response, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, govvideo.Errorf(govvideo.EINVALID, "invalid URL %q: %v", rawURL, err)
	}

	fetch := func(ctx context.Context, target string) (*govvideo.Response, error) {
		if f.Limiter != nil {
			if err := f.Limiter.Wait(ctx, u.Host); err != nil {
				return nil, err
			}
		}
		return f.Fetcher.Fetch(ctx, target)
	}

	onRetry := func(target string, attempt int, err error) {
		logger(f.Logger).Warn("retrying fetch",
			"url", target,
			"attempt", attempt,
			"attempts", len(f.RetryDelays)+1,
			"err", err,
		)
	}

	return FetchWithRetryDelays(ctx, rawURL, fetch, onRetry, f.RetryDelays)
}

// Close closes the wrapped fetcher.
func (f *PoliteFetcher) Close() error {
	return f.Fetcher.Close()
}

// logger returns l, or a logger that discards everything when l is nil.
func logger(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l
}
