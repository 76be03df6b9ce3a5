// Package http provides an HTTP-based implementation of govvideo.Fetcher.
// It issues a single GET per call and classifies the response; retries and
// politeness pacing are layered on top by crawl.PoliteFetcher.
package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/govvideo"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 30 * time.Second

// DefaultUserAgent identifies the crawler to portal operators.
const DefaultUserAgent = "govvideo/1.0 (+https://github.com/fwojciec/govvideo)"

// Ensure Fetcher implements govvideo.Fetcher at compile time.
var _ govvideo.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML content from URLs using HTTP requests.
// Redirects are followed; the final address is reported in the response.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (30s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   DefaultFetchTimeout,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the page at url.
// Returns ENOTFOUND for 404/410 and EUNAVAILABLE for network errors and any
// other non-200 status.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*govvideo.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, govvideo.Errorf(govvideo.EINVALID, "invalid URL %q: %v", url, err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, govvideo.Errorf(govvideo.EUNAVAILABLE, "request %s: %v", url, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound, http.StatusGone:
		return nil, govvideo.Errorf(govvideo.ENOTFOUND, "HTTP %d for %s", resp.StatusCode, url)
	default:
		return nil, govvideo.Errorf(govvideo.EUNAVAILABLE, "HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, govvideo.Errorf(govvideo.EUNAVAILABLE, "read %s: %v", url, err)
	}

	return &govvideo.Response{
		URL:  resp.Request.URL.String(),
		Body: string(body),
	}, nil
}

// Close releases idle connections held by the client.
func (f *Fetcher) Close() error {
	f.client.CloseIdleConnections()
	return nil
}
