package govvideo

import (
	"fmt"
	"sort"
	"strings"
)

// FormatSummary renders a run summary as plain text: totals, failures, and a
// per-site table ordered by videos found.
func FormatSummary(s *RunSummary) string {
	var b strings.Builder

	failed := s.Failed()
	found, created, updated := s.Totals()

	fmt.Fprintf(&b, "Scrape complete in %.1f seconds\n", s.Elapsed.Seconds())
	fmt.Fprintf(&b, "  Sites:  %d succeeded, %d failed out of %d total\n",
		len(s.Results)-len(failed), len(failed), len(s.Results))
	fmt.Fprintf(&b, "  Videos: %d found, %d new, %d updated\n", found, created, updated)

	if len(failed) > 0 {
		b.WriteString("\nFailures:\n")
		for _, r := range failed {
			fmt.Fprintf(&b, "  %s: %s\n", r.Slug, errorText(r))
		}
	}

	rows := make([]*ScrapeResult, len(s.Results))
	copy(rows, s.Results)
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Found > rows[j].Found
	})

	b.WriteString("\n")
	fmt.Fprintf(&b, "%-30s %8s %8s %8s %6s %s\n", "SITE", "FOUND", "NEW", "UPDATED", "SECS", "STATUS")
	b.WriteString(strings.Repeat("-", 85) + "\n")
	for _, r := range rows {
		status := "OK"
		if !r.Success {
			status = "ERR: " + truncate(errorText(r), 30)
		}
		fmt.Fprintf(&b, "%-30s %8d %8d %8d %6.1f %s\n",
			r.Slug, r.Found, r.New, r.Updated, r.Elapsed.Seconds(), status)
	}

	return b.String()
}

func errorText(r *ScrapeResult) string {
	return ErrorText(r.Err)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
