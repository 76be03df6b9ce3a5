// Package goquery implements govvideo.Extractor and govvideo.LayoutInspector
// on top of github.com/PuerkitoBio/goquery.
package goquery

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/govvideo"
	"golang.org/x/net/html"
)

// Compile-time interface verification.
var _ govvideo.Extractor = (*Extractor)(nil)

// videoHrefRe matches links to a video detail page.
var videoHrefRe = regexp.MustCompile(`/videos/(\d+)$`)

// dateLayouts are tried in order; the first that parses wins.
var dateLayouts = []string{
	"Jan 2, 2006",
	"January 2, 2006",
	"01/02/2006",
	"1/2/2006",
	"2006-01-02",
}

// rowShape is the structural variant of a listing row.
type rowShape int

const (
	// rowBare has no cells; only the link is usable.
	rowBare rowShape = iota
	// rowStacked packs title and date into the first cell separated by <br>,
	// with duration above a <br> in the second cell.
	rowStacked
	// rowLegacy has separate title, date, and duration cells.
	rowLegacy
)

// rowFields holds the raw text pulled from a row before normalization.
type rowFields struct {
	title    string
	date     string
	duration string
}

// rowStrategies maps each row shape to its extraction strategy.
var rowStrategies = map[rowShape]func(link, cells *goquery.Selection) rowFields{
	rowBare:    extractBareRow,
	rowStacked: extractStackedRow,
	rowLegacy:  extractLegacyRow,
}

// Extractor parses listing pages into videos.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractVideos returns the videos listed in the page's tables.
// Only rows linking to a video detail page qualify.
func (e *Extractor) ExtractVideos(page string, site *govvideo.Site) []*govvideo.Video {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil
	}

	base, _ := url.Parse(site.BaseURL)

	var videos []*govvideo.Video
	seen := make(map[int64]bool)

	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		link, id, ok := findVideoLink(row)
		if !ok || seen[id] {
			return
		}
		seen[id] = true

		cells := row.Find("td")
		fields := rowStrategies[classifyRow(cells)](link, cells)

		title := govvideo.TruncateTitle(rowTitle(fields.title, link, id))
		date := ParseDate(fields.date)

		v := &govvideo.Video{
			SiteSlug:    site.Slug,
			VideoID:     id,
			Title:       title,
			Date:        date,
			Duration:    govvideo.OptString(fields.duration),
			DownloadURL: govvideo.DownloadURL(site.BaseURL, id),
			AgendaURL:   findAgendaURL(row, base),
			Payload: govvideo.Payload{
				VideoID:  id,
				Title:    title,
				Duration: fields.duration,
			},
		}
		if date != nil {
			s := date.Format(govvideo.DateLayout)
			v.Payload.Date = &s
		}
		videos = append(videos, v)
	})

	return videos
}

// HasNextPage reports whether any link on the page reads "Next".
func (e *Extractor) HasNextPage(page string) bool {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return false
	}
	next := doc.Find("a[href]").FilterFunction(func(_ int, a *goquery.Selection) bool {
		return strings.HasPrefix(cleanText(a.Text()), "Next")
	})
	return next.Length() > 0
}

// ParseDate parses listing date text against the known layouts.
// Returns nil when no layout matches.
func ParseDate(text string) *time.Time {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return &t
		}
	}
	return nil
}

func classifyRow(cells *goquery.Selection) rowShape {
	switch n := cells.Length(); {
	case n >= 3:
		return rowLegacy
	case n >= 1:
		return rowStacked
	default:
		return rowBare
	}
}

func extractBareRow(link, _ *goquery.Selection) rowFields {
	return rowFields{title: cleanText(link.Text())}
}

func extractLegacyRow(_, cells *goquery.Selection) rowFields {
	return rowFields{
		title:    cleanText(cells.Eq(0).Text()),
		date:     cleanText(cells.Eq(1).Text()),
		duration: cleanText(cells.Eq(2).Text()),
	}
}

func extractStackedRow(link, cells *goquery.Selection) rowFields {
	fields := rowFields{title: cleanText(link.Text())}

	if br := cells.Eq(0).Find("br").First(); br.Length() > 0 {
		if sib := br.Get(0).NextSibling; sib != nil {
			fields.date = nodeText(sib)
		}
	}

	if cells.Length() < 2 {
		return fields
	}
	durCell := cells.Eq(1)
	if durCell.Find("br").Length() > 0 {
		for n := durCell.Get(0).FirstChild; n != nil; n = n.NextSibling {
			if n.Type == html.ElementNode && n.Data == "br" {
				break
			}
			if n.Type == html.TextNode {
				if text := cleanText(n.Data); text != "" {
					fields.duration = text
					break
				}
			}
		}
		return fields
	}
	if text := cleanText(durCell.Text()); !strings.HasSuffix(text, "items") {
		fields.duration = text
	}
	return fields
}

// rowTitle falls back to the video link text, then to a placeholder
// naming the video id, so every extracted video carries a title.
func rowTitle(title string, link *goquery.Selection, id int64) string {
	if title != "" {
		return title
	}
	if text := cleanText(link.Text()); text != "" {
		return text
	}
	return fmt.Sprintf("Video %d", id)
}

// findVideoLink returns the first link in the row pointing at a video page.
func findVideoLink(row *goquery.Selection) (*goquery.Selection, int64, bool) {
	var (
		link *goquery.Selection
		id   int64
	)
	row.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		m := videoHrefRe.FindStringSubmatch(href)
		if m == nil {
			return true
		}
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return true
		}
		link, id = a, n
		return false
	})
	return link, id, link != nil
}

// findAgendaURL returns the row's agenda link as an absolute URL.
func findAgendaURL(row *goquery.Selection, base *url.URL) *string {
	var agenda string
	row.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		if !strings.Contains(href, "/agenda") {
			return true
		}
		agenda = absoluteURL(base, href)
		return false
	})
	return govvideo.OptString(agenda)
}

func absoluteURL(base *url.URL, href string) string {
	if strings.HasPrefix(href, "http") || base == nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

// nodeText returns the trimmed text of a text node or element.
func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return cleanText(n.Data)
	}
	return cleanText(goquery.NewDocumentFromNode(n).Text())
}

// cleanText collapses runs of whitespace and trims the result.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
