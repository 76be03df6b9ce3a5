package crawl

import (
	"context"
	"log/slog"
	"regexp"
	"sort"

	"github.com/fwojciec/govvideo"
	"github.com/google/uuid"
)

var (
	// streamURLRe matches HLS playlist addresses embedded in a detail page.
	streamURLRe = regexp.MustCompile(`https://archive-stream\.granicus\.com/[^\s"'<>]+\.m3u8[^\s"'<>]*`)

	// streamIDRe matches the first UUID-shaped token in a detail page.
	streamIDRe = regexp.MustCompile(`[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)
)

// Enricher fetches detail pages of newly found videos and stores their
// streaming metadata. It is best-effort: failures are counted, not returned.
type Enricher struct {
	// Fetcher should make a single attempt per page.
	Fetcher govvideo.Fetcher
	Videos  govvideo.VideoService
	Limit   int
	Logger  *slog.Logger
}

// Enrich processes up to Limit videos absent from existing, newest first.
// It returns how many videos were updated and how many failed.
func (e *Enricher) Enrich(ctx context.Context, site *govvideo.Site, videos []*govvideo.Video, existing map[int64]struct{}) (enriched, failed int) {
	candidates := NewVideos(videos, existing)
	limit := e.Limit
	if limit <= 0 {
		limit = DefaultEnrichLimit
	}
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	for _, v := range candidates {
		if ctx.Err() != nil {
			break
		}

		resp, err := e.Fetcher.Fetch(ctx, govvideo.VideoURL(site.BaseURL, v.VideoID))
		if err != nil {
			failed++
			logger(e.Logger).Debug("detail fetch failed", "site", site.Slug, "video", v.VideoID, "err", err)
			continue
		}

		upd := FindStream(resp.Body)
		if upd.StreamURL == nil && upd.StreamID == nil {
			continue
		}

		if err := e.Videos.UpdateStream(ctx, site.Slug, v.VideoID, upd); err != nil {
			failed++
			logger(e.Logger).Warn("stream update failed", "site", site.Slug, "video", v.VideoID, "err", err)
			continue
		}
		enriched++
	}

	if len(candidates) > 0 {
		logger(e.Logger).Info("enriched new videos",
			"site", site.Slug,
			"enriched", enriched,
			"failed", failed,
			"candidates", len(candidates),
		)
	}
	return enriched, failed
}

// NewVideos returns the videos whose ids are not in existing, ordered by
// date descending with undated videos last.
func NewVideos(videos []*govvideo.Video, existing map[int64]struct{}) []*govvideo.Video {
	var out []*govvideo.Video
	for _, v := range videos {
		if _, ok := existing[v.VideoID]; !ok {
			out = append(out, v)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Date, out[j].Date
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
	return out
}

// FindStream searches a detail page for a stream URL and stream identifier.
func FindStream(body string) govvideo.StreamUpdate {
	var upd govvideo.StreamUpdate
	if m := streamURLRe.FindString(body); m != "" {
		upd.StreamURL = &m
	}
	if m := streamIDRe.FindString(body); m != "" {
		if id, err := uuid.Parse(m); err == nil {
			s := id.String()
			upd.StreamID = &s
		}
	}
	return upd
}
