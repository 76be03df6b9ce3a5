// Package crawl coordinates layout detection, pagination, deduplication,
// persistence, and detail enrichment for meeting-video portals.
//
// All work is sequential: one site, category, and page at a time.
package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fwojciec/govvideo"
)

// Crawler crawls a single site end to end.
type Crawler struct {
	// Fetcher retrieves entry and listing pages; it should pace and retry.
	Fetcher govvideo.Fetcher

	// DetailFetcher retrieves detail pages for enrichment; it should pace
	// but make a single attempt. Falls back to Fetcher when nil.
	DetailFetcher govvideo.Fetcher

	Extractor govvideo.Extractor
	Inspector govvideo.LayoutInspector
	Videos    govvideo.VideoService
	Clients   govvideo.ClientService
	Progress  govvideo.ProgressService
	Config    Config
	Logger    *slog.Logger
}

// CrawlSite crawls one site and returns its result. It never fails: any
// error is recorded on the result, which is also written as the site's
// progress record unless the crawl is a dry run.
func (c *Crawler) CrawlSite(ctx context.Context, slug string) *govvideo.ScrapeResult {
	begin := time.Now()
	log := logger(c.Logger).With("site", slug)
	result := &govvideo.ScrapeResult{Slug: slug}

	err := c.crawlSite(ctx, slug, result, log)
	result.Elapsed = time.Since(begin)

	if err != nil {
		result.Err = err
		log.Error("crawl failed", "duration", result.Elapsed, "err", err)
	} else {
		result.Success = true
		log.Info("crawl complete",
			"found", result.Found,
			"new", result.New,
			"updated", result.Updated,
			"enriched", result.Enriched,
			"enrich_failed", result.EnrichFailed,
			"categories", result.Categories,
			"duration", result.Elapsed,
		)
	}

	if !c.Config.DryRun {
		if err := c.Progress.UpsertProgress(ctx, govvideo.NewProgress(result, time.Now().UTC())); err != nil {
			log.Warn("progress update failed", "err", err)
		}
	}

	return result
}

func (c *Crawler) crawlSite(ctx context.Context, slug string, result *govvideo.ScrapeResult, log *slog.Logger) error {
	var existing map[int64]struct{}
	if !c.Config.DryRun {
		ids, err := c.Videos.FindVideoIDs(ctx, slug)
		if err != nil {
			return fmt.Errorf("load existing videos: %w", err)
		}
		existing = ids
	}

	detector := &Detector{Fetcher: c.Fetcher, Inspector: c.Inspector, BaseURL: c.Config.BaseURL}
	site, err := detector.Detect(ctx, slug)
	if err != nil {
		return err
	}
	log.Info("layout detected",
		"layout", site.Layout,
		"view", site.ViewID,
		"categories", len(site.Categories),
		"default_videos", site.DefaultVideos,
	)

	videos, categories, err := c.collect(ctx, site, log)
	if err != nil {
		return err
	}
	result.Found = len(videos)
	result.Categories = categories

	if c.Config.DryRun {
		log.Info("dry run, skipping store", "videos", len(videos))
		return nil
	}

	upserted, err := c.Videos.UpsertVideos(ctx, videos)
	if err != nil {
		return fmt.Errorf("store videos: %w", err)
	}
	result.New = upserted.Inserted
	result.Updated = upserted.Updated

	if err := c.Clients.RefreshVideoCount(ctx, slug); err != nil {
		return fmt.Errorf("refresh video count: %w", err)
	}

	if c.Config.Enrich && result.New > 0 {
		fetcher := c.DetailFetcher
		if fetcher == nil {
			fetcher = c.Fetcher
		}
		enricher := &Enricher{
			Fetcher: fetcher,
			Videos:  c.Videos,
			Limit:   c.Config.EnrichLimit,
			Logger:  log,
		}
		result.Enriched, result.EnrichFailed = enricher.Enrich(ctx, site, videos, existing)
	}

	return nil
}

// collect gathers the site's videos according to its layout and returns
// them with the number of categories processed.
func (c *Crawler) collect(ctx context.Context, site *govvideo.Site, log *slog.Logger) ([]*govvideo.Video, int, error) {
	var set videoSet
	categories := 0

	switch site.Layout {
	case govvideo.LayoutEmpty:
		log.Warn("empty site, no videos or categories")
		return nil, 0, nil

	case govvideo.LayoutSinglePage:
		found, err := c.extractView(ctx, site, log)
		if err != nil {
			return nil, 0, err
		}
		if found != nil {
			set.add(found)
			categories = 1
		}
		return set.videos, categories, nil

	case govvideo.LayoutMultiCategory:
		found, err := c.extractView(ctx, site, log)
		if err != nil {
			return nil, 0, err
		}
		if len(found) > 0 {
			set.add(found)
			categories = 1
		}

	case govvideo.LayoutNewStyle:

	default:
		return nil, 0, govvideo.Errorf(govvideo.EINTERNAL, "unknown layout %q", site.Layout)
	}

	paginator := &Paginator{
		Fetcher:   c.Fetcher,
		Extractor: c.Extractor,
		MaxPages:  c.Config.MaxPages,
		Logger:    log,
	}
	for _, cat := range site.Categories {
		videos, err := paginator.Paginate(ctx, site, cat.Path)
		if err != nil {
			return nil, 0, err
		}
		added := set.add(videos)
		categories++
		log.Info("category scraped",
			"category", cat.Name,
			"path", cat.Path,
			"new", added,
			"total", len(videos),
		)
	}

	return set.videos, categories, nil
}

// extractView fetches the legacy view page once and extracts its videos.
// A nil slice with a nil error means the page could not be fetched.
func (c *Crawler) extractView(ctx context.Context, site *govvideo.Site, log *slog.Logger) ([]*govvideo.Video, error) {
	resp, err := c.Fetcher.Fetch(ctx, site.ViewURL())
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Warn("view page fetch failed", "url", site.ViewURL(), "err", err)
		return nil, nil
	}
	videos := c.Extractor.ExtractVideos(resp.Body, site)
	if videos == nil {
		videos = []*govvideo.Video{}
	}
	return videos, nil
}
