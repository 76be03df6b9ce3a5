package main

import (
	"fmt"

	"github.com/fwojciec/govvideo"
)

// Run executes the videos command.
func (c *VideosCmd) Run(deps *Dependencies) error {
	videos, err := deps.Videos.FindVideos(deps.Ctx, govvideo.VideoFilter{
		SiteSlug: &c.Slug,
		Limit:    c.Limit,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", govvideo.ErrorMessage(err))
		return err
	}

	if len(videos) == 0 {
		fmt.Fprintf(deps.Stdout, "No videos stored for %s. Use 'govvideo crawl --slug %s' to fetch them.\n", c.Slug, c.Slug)
		return nil
	}

	for _, v := range videos {
		date := v.DateString()
		if date == "" {
			date = "-"
		}
		duration := "-"
		if v.Duration != nil {
			duration = *v.Duration
		}
		fmt.Fprintf(deps.Stdout, "%-10d %-10s %-10s %s\n", v.VideoID, date, duration, v.Title)
	}
	return nil
}
