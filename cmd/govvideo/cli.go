package main

import (
	"context"
	"io"

	"github.com/fwojciec/govvideo"
	"github.com/fwojciec/govvideo/crawl"
)

// Runner runs a crawl over a list of sites.
type Runner interface {
	Run(ctx context.Context, slugs []string) (*govvideo.RunSummary, error)
}

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Videos   govvideo.VideoService
	Progress govvideo.ProgressService
	Clients  govvideo.ClientService
	Runner   Runner
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	DB     string `help:"Database path or postgres:// DSN (overrides GOVVIDEO_DB)"`
	Config string `help:"Config file path (default ~/.govvideo/config.yaml)"`

	Crawl  CrawlCmd  `cmd:"" help:"Crawl portals and store their videos"`
	Status StatusCmd `cmd:"" help:"Show the last crawl status of each portal"`
	Videos VideosCmd `cmd:"" help:"List stored videos for a portal"`
	Add    AddCmd    `cmd:"" help:"Register portal slugs to crawl"`
	Export ExportCmd `cmd:"" help:"Write a portal's stored videos to a directory as YAML files"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	Slug        []string `short:"s" help:"Portal slug to crawl (repeatable, default all registered)"`
	DryRun      bool     `help:"Crawl without reading or writing the database"`
	MaxPages    int      `help:"Maximum pages per category (default 500)"`
	Enrich      bool     `help:"Fetch detail pages of new videos for stream metadata"`
	EnrichLimit int      `help:"Maximum detail pages per portal (default 20)"`
	Verbose     bool     `short:"v" help:"Log every request"`
}

// apply overrides configured crawl settings with the flags that were set.
func (c *CrawlCmd) apply(cfg crawl.Config) crawl.Config {
	cfg.DryRun = c.DryRun
	cfg.Enrich = c.Enrich
	if c.MaxPages > 0 {
		cfg.MaxPages = c.MaxPages
	}
	if c.EnrichLimit > 0 {
		cfg.EnrichLimit = c.EnrichLimit
	}
	return cfg
}

// StatusCmd is the "status" subcommand.
type StatusCmd struct {
	Failed bool `help:"Only show portals whose last crawl failed"`
}

// VideosCmd is the "videos" subcommand.
type VideosCmd struct {
	Slug  string `arg:"" help:"Portal slug"`
	Limit int    `short:"n" default:"20" help:"Maximum videos to show"`
}

// AddCmd is the "add" subcommand.
type AddCmd struct {
	Slugs []string `arg:"" help:"Portal slugs"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	Slug string `arg:"" help:"Portal slug"`
	Dir  string `short:"d" required:"" type:"path" help:"Parent directory; files go to DIR/SLUG"`
}
