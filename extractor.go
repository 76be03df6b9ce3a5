package govvideo

// Extractor turns one listing page into candidate videos.
type Extractor interface {
	// ExtractVideos returns the videos listed on the page in document order.
	// Duplicate ids within the page are dropped, keeping the first.
	// Unrecognized rows and unparseable fields never produce errors.
	ExtractVideos(html string, site *Site) []*Video

	// HasNextPage reports whether the page offers a "next page" link.
	HasNextPage(html string) bool
}

// LayoutInspector reads the structural markers used for layout detection.
type LayoutInspector interface {
	// ViewCategories returns category tabs scoped to a legacy view.
	ViewCategories(html string, viewID int) []Category

	// NavCategories returns root-level category paths from the site navigation.
	NavCategories(html string) []Category

	// CountVideos returns the number of distinct video ids linked from the page.
	CountVideos(html string) int
}
