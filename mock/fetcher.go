package mock

import (
	"context"

	"github.com/fwojciec/govvideo"
)

var _ govvideo.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of govvideo.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (*govvideo.Response, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*govvideo.Response, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

var _ govvideo.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of govvideo.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
