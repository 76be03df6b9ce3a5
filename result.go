package govvideo

import "time"

// ScrapeResult is the outcome of crawling one site.
type ScrapeResult struct {
	Slug         string
	Success      bool
	Found        int
	New          int
	Updated      int
	Enriched     int
	EnrichFailed int
	Categories   int
	Err          error
	Elapsed      time.Duration
}

// RunSummary aggregates the results of one run over many sites.
type RunSummary struct {
	Results []*ScrapeResult
	Elapsed time.Duration
}

// Failed returns the results of sites that did not complete.
func (s *RunSummary) Failed() []*ScrapeResult {
	var failed []*ScrapeResult
	for _, r := range s.Results {
		if !r.Success {
			failed = append(failed, r)
		}
	}
	return failed
}

// Totals returns the found, new, and updated counts summed over all sites.
func (s *RunSummary) Totals() (found, created, updated int) {
	for _, r := range s.Results {
		found += r.Found
		created += r.New
		updated += r.Updated
	}
	return found, created, updated
}
