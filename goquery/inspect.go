package goquery

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/govvideo"
)

// Compile-time interface verification.
var _ govvideo.LayoutInspector = (*Inspector)(nil)

var (
	// videoIDRe finds every video id referenced anywhere in a page.
	videoIDRe = regexp.MustCompile(`/videos/(\d+)`)

	// navClassRe matches the stacked or tabbed navigation lists that hold
	// new-style category links.
	navClassRe = regexp.MustCompile(`(?i)nav.*(pills|tabs).*swagit`)

	// videoPathRe matches root-relative video detail paths.
	videoPathRe = regexp.MustCompile(`^/videos/\d+`)
)

// Inspector reads layout markers from entry pages.
type Inspector struct{}

// NewInspector creates a new Inspector.
func NewInspector() *Inspector {
	return &Inspector{}
}

// ViewCategories returns the tab links scoped to the given legacy view.
func (i *Inspector) ViewCategories(page string, viewID int) []govvideo.Category {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil
	}

	scope := "/views/" + strconv.Itoa(viewID) + "/"
	var c categoryList
	doc.Find(`li[role="presentation"]`).Each(func(_ int, li *goquery.Selection) {
		a := li.Find("a[href]").First()
		href, ok := a.Attr("href")
		if !ok || !strings.Contains(href, scope) {
			return
		}
		c.add(href, cleanText(a.Text()))
	})
	return c.items
}

// NavCategories returns root-level category paths from the site navigation.
// When no navigation list is present, every qualifying link on the page is
// considered instead.
func (i *Inspector) NavCategories(page string) []govvideo.Category {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil
	}

	var c categoryList
	doc.Find("ul[class]").Each(func(_ int, ul *goquery.Selection) {
		class, _ := ul.Attr("class")
		if !navClassRe.MatchString(class) {
			return
		}
		ul.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
			href, _ := a.Attr("href")
			if isCategoryPath(href) {
				c.add(href, cleanText(a.Text()))
			}
		})
	})
	if len(c.items) > 0 {
		return c.items
	}

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if isCategoryPath(href) {
			c.add(href, cleanText(a.Text()))
		}
	})
	return c.items
}

// CountVideos returns the number of distinct video ids referenced in the page.
func (i *Inspector) CountVideos(page string) int {
	seen := make(map[string]struct{})
	for _, m := range videoIDRe.FindAllStringSubmatch(page, -1) {
		seen[m[1]] = struct{}{}
	}
	return len(seen)
}

// isCategoryPath reports whether href is a root-level listing path rather
// than a video, admin, event, or pagination link.
func isCategoryPath(href string) bool {
	switch {
	case !strings.HasPrefix(href, "/") || len(href) <= 1:
		return false
	case videoPathRe.MatchString(href), strings.HasPrefix(href, "/videos/"):
		return false
	case strings.HasPrefix(href, "/admin"), strings.HasPrefix(href, "/events"):
		return false
	case strings.Contains(href, "page="):
		return false
	}
	return true
}

// categoryList accumulates categories deduplicated by path.
type categoryList struct {
	seen  map[string]bool
	items []govvideo.Category
}

func (c *categoryList) add(path, name string) {
	if c.seen == nil {
		c.seen = make(map[string]bool)
	}
	if c.seen[path] {
		return
	}
	c.seen[path] = true
	if name == "" {
		name = govvideo.CategoryName(path)
	}
	if name == "" {
		name = path
	}
	c.items = append(c.items, govvideo.Category{Path: path, Name: name})
}
