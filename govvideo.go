// Package govvideo crawls municipal meeting-video portals and keeps a
// normalized, deduplicated record of every published video.
//
// Portals expose no API, only paginated HTML in one of several layouts, so
// the crawler discovers each site's layout, walks its categories page by page,
// and upserts what it finds. Re-running a crawl is always safe: records are
// keyed by (site, video id) and updates never erase known values.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, postgres/, goquery/).
package govvideo
