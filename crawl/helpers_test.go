package crawl_test

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/fwojciec/govvideo"
	"github.com/fwojciec/govvideo/mock"
)

// fakePortal serves canned bodies by URL and records every request.
// Redirects maps a requested URL to the final URL reported in the response.
type fakePortal struct {
	mu        sync.Mutex
	Pages     map[string]string
	Redirects map[string]string
	Requested []string
}

func (p *fakePortal) fetcher() *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (*govvideo.Response, error) {
			p.mu.Lock()
			p.Requested = append(p.Requested, url)
			p.mu.Unlock()

			body, ok := p.Pages[url]
			if !ok {
				return nil, govvideo.Errorf(govvideo.ENOTFOUND, "status 404")
			}
			final := url
			if to, ok := p.Redirects[url]; ok {
				final = to
			}
			return &govvideo.Response{URL: final, Body: body}, nil
		},
		CloseFn: func() error { return nil },
	}
}

func (p *fakePortal) requested() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.Requested...)
}

// fakeExtractor reads bodies of the form "10,11,12" or "10,11|next".
func fakeExtractor() *mock.Extractor {
	return &mock.Extractor{
		ExtractVideosFn: func(html string, site *govvideo.Site) []*govvideo.Video {
			ids, _, _ := strings.Cut(html, "|")
			var videos []*govvideo.Video
			for _, s := range strings.Split(ids, ",") {
				id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
				if err != nil {
					continue
				}
				videos = append(videos, &govvideo.Video{
					SiteSlug:    site.Slug,
					VideoID:     id,
					Title:       "Meeting " + s,
					DownloadURL: govvideo.DownloadURL(site.BaseURL, id),
				})
			}
			return videos
		},
		HasNextPageFn: func(html string) bool {
			return strings.HasSuffix(html, "|next")
		},
	}
}

// fakeInspector returns fixed detection markers regardless of the page.
func fakeInspector(view, nav []govvideo.Category, count int) *mock.LayoutInspector {
	return &mock.LayoutInspector{
		ViewCategoriesFn: func(_ string, _ int) []govvideo.Category { return view },
		NavCategoriesFn:  func(_ string) []govvideo.Category { return nav },
		CountVideosFn:    func(_ string) int { return count },
	}
}

func videoIDs(videos []*govvideo.Video) []int64 {
	ids := make([]int64, len(videos))
	for i, v := range videos {
		ids[i] = v.VideoID
	}
	return ids
}
