package main

import (
	"fmt"

	"github.com/fwojciec/govvideo"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	summary, err := deps.Runner.Run(deps.Ctx, c.Slug)
	if summary != nil {
		fmt.Fprint(deps.Stdout, govvideo.FormatSummary(summary))
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", govvideo.ErrorMessage(err))
		return err
	}

	if n := len(summary.Failed()); n > 0 {
		return fmt.Errorf("%d of %d sites failed", n, len(summary.Results))
	}
	return nil
}
