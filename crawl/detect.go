package crawl

import (
	"context"
	"regexp"
	"strconv"

	"github.com/fwojciec/govvideo"
)

// viewPathRe finds the numeric view identifier in a legacy view address.
var viewPathRe = regexp.MustCompile(`/views/(\d+)`)

// Detector classifies a site into one of the supported layouts.
type Detector struct {
	Fetcher   govvideo.Fetcher
	Inspector govvideo.LayoutInspector

	// BaseURL is the site address template (see Config.BaseURL).
	BaseURL string
}

// Detect inspects the site's entry pages and returns its descriptor.
//
// The legacy default view is tried first; a redirect to /views/{id} marks a
// legacy site. Otherwise the site root is inspected for new-style category
// navigation. Returns EUNREACHABLE when the root cannot be fetched.
func (d *Detector) Detect(ctx context.Context, slug string) (*govvideo.Site, error) {
	base := SiteURL(d.BaseURL, slug)

	resp, err := d.Fetcher.Fetch(ctx, base+"/views/default/")
	if err == nil {
		if m := viewPathRe.FindStringSubmatch(resp.URL); m != nil {
			viewID, convErr := strconv.Atoi(m[1])
			if convErr == nil {
				return d.legacySite(slug, base, viewID, resp.Body), nil
			}
		}
	} else if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	resp, err = d.Fetcher.Fetch(ctx, base+"/")
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, govvideo.Errorf(govvideo.EUNREACHABLE, "could not access site %s: %s", slug, govvideo.ErrorMessage(err))
	}

	site := &govvideo.Site{
		Slug:          slug,
		Layout:        govvideo.LayoutEmpty,
		BaseURL:       base,
		Categories:    d.Inspector.NavCategories(resp.Body),
		DefaultVideos: d.Inspector.CountVideos(resp.Body),
	}
	if len(site.Categories) > 0 || site.DefaultVideos > 0 {
		site.Layout = govvideo.LayoutNewStyle
	}
	return site, nil
}

func (d *Detector) legacySite(slug, base string, viewID int, body string) *govvideo.Site {
	site := &govvideo.Site{
		Slug:          slug,
		BaseURL:       base,
		ViewID:        viewID,
		Categories:    d.Inspector.ViewCategories(body, viewID),
		DefaultVideos: d.Inspector.CountVideos(body),
	}
	switch {
	case len(site.Categories) > 0:
		site.Layout = govvideo.LayoutMultiCategory
	case site.DefaultVideos > 0:
		site.Layout = govvideo.LayoutSinglePage
	default:
		site.Layout = govvideo.LayoutEmpty
	}
	return site
}
