package mock

import "github.com/fwojciec/govvideo"

var _ govvideo.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of govvideo.Extractor.
type Extractor struct {
	ExtractVideosFn func(html string, site *govvideo.Site) []*govvideo.Video
	HasNextPageFn   func(html string) bool
}

func (e *Extractor) ExtractVideos(html string, site *govvideo.Site) []*govvideo.Video {
	return e.ExtractVideosFn(html, site)
}

func (e *Extractor) HasNextPage(html string) bool {
	return e.HasNextPageFn(html)
}

var _ govvideo.LayoutInspector = (*LayoutInspector)(nil)

// LayoutInspector is a mock implementation of govvideo.LayoutInspector.
type LayoutInspector struct {
	ViewCategoriesFn func(html string, viewID int) []govvideo.Category
	NavCategoriesFn  func(html string) []govvideo.Category
	CountVideosFn    func(html string) int
}

func (i *LayoutInspector) ViewCategories(html string, viewID int) []govvideo.Category {
	return i.ViewCategoriesFn(html, viewID)
}

func (i *LayoutInspector) NavCategories(html string) []govvideo.Category {
	return i.NavCategoriesFn(html)
}

func (i *LayoutInspector) CountVideos(html string) int {
	return i.CountVideosFn(html)
}
