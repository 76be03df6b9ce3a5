package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/govvideo"
)

// Run executes the status command.
func (c *StatusCmd) Run(deps *Dependencies) error {
	var filter govvideo.ProgressFilter
	if c.Failed {
		status := govvideo.StatusError
		filter.Status = &status
	}

	records, err := deps.Progress.FindProgress(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", govvideo.ErrorMessage(err))
		return err
	}

	if len(records) == 0 {
		fmt.Fprintln(deps.Stdout, "No crawls recorded. Use 'govvideo crawl' to run one.")
		return nil
	}

	fmt.Fprintf(deps.Stdout, "%-30s %-10s %8s  %-20s %s\n", "SITE", "STATUS", "RECORDS", "COMPLETED", "ERROR")
	for _, p := range records {
		errMsg := ""
		if p.ErrorMessage != nil {
			errMsg = *p.ErrorMessage
		}
		fmt.Fprintf(deps.Stdout, "%-30s %-10s %8d  %-20s %s\n",
			p.SiteSlug, p.Status, p.RecordsScraped, p.CompletedAt.UTC().Format(time.DateTime), errMsg)
	}
	return nil
}
