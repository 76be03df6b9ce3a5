package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/govvideo"
)

// Ensure LoggingInspector implements govvideo.LayoutInspector.
var _ govvideo.LayoutInspector = (*LoggingInspector)(nil)

// LoggingInspector wraps a LayoutInspector with debug logging of the
// detection markers it finds.
type LoggingInspector struct {
	next   govvideo.LayoutInspector
	logger *slog.Logger
}

// NewLoggingInspector creates a new LoggingInspector.
func NewLoggingInspector(next govvideo.LayoutInspector, logger *slog.Logger) *LoggingInspector {
	return &LoggingInspector{next: next, logger: logger}
}

// ViewCategories delegates to the wrapped inspector and logs the tabs found.
func (i *LoggingInspector) ViewCategories(html string, viewID int) []govvideo.Category {
	begin := time.Now()
	cats := i.next.ViewCategories(html, viewID)
	i.logger.Debug("view categories",
		"view", viewID,
		"categories", len(cats),
		"duration", time.Since(begin),
	)
	return cats
}

// NavCategories delegates to the wrapped inspector and logs the paths found.
func (i *LoggingInspector) NavCategories(html string) []govvideo.Category {
	begin := time.Now()
	cats := i.next.NavCategories(html)
	i.logger.Debug("nav categories",
		"categories", len(cats),
		"duration", time.Since(begin),
	)
	return cats
}

// CountVideos delegates to the wrapped inspector.
func (i *LoggingInspector) CountVideos(html string) int {
	n := i.next.CountVideos(html)
	i.logger.Debug("video links", "videos", n)
	return n
}
