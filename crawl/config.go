package crawl

import (
	"strings"
	"time"
)

// Defaults for Config.
const (
	DefaultBaseURL     = "https://{slug}.new.swagit.com"
	DefaultMaxPages    = 500
	DefaultDelay       = 350 * time.Millisecond
	DefaultEnrichLimit = 20
)

// SlugPlaceholder is replaced by the site slug in Config.BaseURL.
const SlugPlaceholder = "{slug}"

// Config holds crawl settings. It is passed by value and not modified
// after a crawl starts.
type Config struct {
	// BaseURL is the site address template; SlugPlaceholder is replaced
	// with the site slug.
	BaseURL string

	// MaxPages caps the pages fetched per category.
	MaxPages int

	// Delay is the minimum spacing between requests to the same host.
	Delay time.Duration

	// RetryDelays are the backoff delays between attempts of a listing
	// fetch. len(RetryDelays)+1 attempts are made.
	RetryDelays []time.Duration

	// Enrich enables the detail enrichment pass for newly found videos.
	Enrich bool

	// EnrichLimit caps the detail pages fetched per site.
	EnrichLimit int

	// DryRun crawls without reading or writing the store.
	DryRun bool
}

// DefaultConfig returns the production crawl settings.
func DefaultConfig() Config {
	return Config{
		BaseURL:     DefaultBaseURL,
		MaxPages:    DefaultMaxPages,
		Delay:       DefaultDelay,
		RetryDelays: DefaultRetryDelays(),
		EnrichLimit: DefaultEnrichLimit,
	}
}

// SiteURL returns the base address of a site, without a trailing slash.
func (c Config) SiteURL(slug string) string {
	return SiteURL(c.BaseURL, slug)
}

// SiteURL expands a base address template for a slug.
func SiteURL(template, slug string) string {
	if template == "" {
		template = DefaultBaseURL
	}
	return strings.TrimRight(strings.ReplaceAll(template, SlugPlaceholder, slug), "/")
}
