package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fwojciec/govvideo"
)

// SiteCrawler crawls a single site.
type SiteCrawler interface {
	CrawlSite(ctx context.Context, slug string) *govvideo.ScrapeResult
}

var _ SiteCrawler = (*Crawler)(nil)

// Runner crawls a list of sites one after another.
type Runner struct {
	Crawler SiteCrawler
	Clients govvideo.ClientService
	Logger  *slog.Logger
}

// Run crawls each slug in order and returns the collected results. When
// slugs is empty every registered client is crawled. A failing site never
// stops the run; only a failure to list clients or a canceled context ends
// it early.
func (r *Runner) Run(ctx context.Context, slugs []string) (*govvideo.RunSummary, error) {
	log := logger(r.Logger)
	begin := time.Now()

	if len(slugs) == 0 {
		all, err := r.Clients.FindClientSlugs(ctx)
		if err != nil {
			return nil, fmt.Errorf("list clients: %w", err)
		}
		slugs = all
	}

	log.Info("run started", "sites", len(slugs))

	summary := &govvideo.RunSummary{}
	for i, slug := range slugs {
		if err := ctx.Err(); err != nil {
			summary.Elapsed = time.Since(begin)
			return summary, err
		}
		log.Info("crawling site", "site", slug, "index", i+1, "total", len(slugs))
		summary.Results = append(summary.Results, r.Crawler.CrawlSite(ctx, slug))
	}
	summary.Elapsed = time.Since(begin)

	found, created, updated := summary.Totals()
	log.Info("run complete",
		"sites", len(summary.Results),
		"failed", len(summary.Failed()),
		"found", found,
		"new", created,
		"updated", updated,
		"duration", summary.Elapsed,
	)

	return summary, nil
}
