package govvideo

import (
	"fmt"
	"strings"
	"unicode"
)

// Layout identifies one of the structurally distinct portal layouts.
type Layout string

// Supported site layouts.
const (
	// LayoutEmpty has neither videos nor categories.
	LayoutEmpty Layout = "empty"
	// LayoutSinglePage lists every video on one legacy view page.
	LayoutSinglePage Layout = "single_page"
	// LayoutMultiCategory scopes paginated category tabs under a legacy view.
	LayoutMultiCategory Layout = "multi_category"
	// LayoutNewStyle exposes categories as paginated root-level paths.
	LayoutNewStyle Layout = "new_style"
)

// Category is a named grouping of videos reached via a distinct path.
type Category struct {
	Path string
	Name string
}

// Site describes the discovered structure of one portal.
// It is recomputed at the start of every crawl and never persisted.
type Site struct {
	Slug          string
	Layout        Layout
	BaseURL       string
	ViewID        int
	Categories    []Category
	DefaultVideos int
}

// ViewURL returns the address of the legacy view page, or "" if the site
// has no view identifier.
func (s *Site) ViewURL() string {
	if s.ViewID == 0 {
		return ""
	}
	return fmt.Sprintf("%s/views/%d", s.BaseURL, s.ViewID)
}

// CategoryName derives a display name from a category path.
// "/city-council?x=1" becomes "City Council".
func CategoryName(path string) string {
	name, _, _ := strings.Cut(path, "?")
	name = strings.Trim(name, "/")
	words := strings.Fields(strings.ReplaceAll(name, "-", " "))
	for i, w := range words {
		r := []rune(strings.ToLower(w))
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
