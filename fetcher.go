package govvideo

import "context"

// Response is a successfully fetched page.
type Response struct {
	// URL is the final address after redirects.
	URL  string
	Body string
}

// Fetcher retrieves pages over the network.
//
// A nil error means the page was retrieved. Absent pages (HTTP 404/410)
// return ENOTFOUND; timeouts, throttling, and server errors return
// EUNAVAILABLE.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Response, error)

	// Close releases resources held by the fetcher.
	Close() error
}
