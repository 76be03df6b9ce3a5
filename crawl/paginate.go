package crawl

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/fwojciec/govvideo"
)

// Paginator walks the numbered pages of one category.
type Paginator struct {
	Fetcher   govvideo.Fetcher
	Extractor govvideo.Extractor
	MaxPages  int
	Logger    *slog.Logger
}

// Paginate fetches pages 1..MaxPages of path and returns the distinct videos
// found, in first-seen order.
//
// It stops early when a page cannot be fetched, adds no unseen videos, or
// has no "Next" link. A failed page ends the category without an error; only
// context cancellation is returned.
func (p *Paginator) Paginate(ctx context.Context, site *govvideo.Site, path string) ([]*govvideo.Video, error) {
	maxPages := p.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}

	var set videoSet
	for page := 1; page <= maxPages; page++ {
		u := PageURL(site.BaseURL, path, page)

		resp, err := p.Fetcher.Fetch(ctx, u)
		if err != nil {
			if ctx.Err() != nil {
				return set.videos, ctx.Err()
			}
			logger(p.Logger).Warn("page fetch failed",
				"site", site.Slug,
				"url", u,
				"page", page,
				"err", err,
			)
			break
		}

		if set.add(p.Extractor.ExtractVideos(resp.Body, site)) == 0 {
			break
		}
		if !p.Extractor.HasNextPage(resp.Body) {
			break
		}
	}

	return set.videos, nil
}

// PageURL returns the address of a page of a category listing.
// Page 1 is the bare path; later pages add a page query parameter.
func PageURL(baseURL, path string, page int) string {
	u := path
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		u = baseURL + path
	}
	if page <= 1 {
		return u
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return u + sep + "page=" + strconv.Itoa(page)
}

// videoSet accumulates videos deduplicated by id, keeping the first seen.
type videoSet struct {
	seen   map[int64]struct{}
	videos []*govvideo.Video
}

// add appends the videos not seen before and returns how many were added.
func (s *videoSet) add(videos []*govvideo.Video) int {
	if s.seen == nil {
		s.seen = make(map[int64]struct{})
	}
	added := 0
	for _, v := range videos {
		if _, ok := s.seen[v.VideoID]; ok {
			continue
		}
		s.seen[v.VideoID] = struct{}{}
		s.videos = append(s.videos, v)
		added++
	}
	return added
}
