package govvideo

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
)

// MaxTitleLength is the maximum number of runes kept from a video title.
const MaxTitleLength = 500

// DateLayout is the canonical text form of a video date.
const DateLayout = "2006-01-02"

// Video represents one published meeting video on one site.
// (SiteSlug, VideoID) is unique across the store.
type Video struct {
	SiteSlug    string     `json:"siteSlug"`
	VideoID     int64      `json:"videoId"`
	Title       string     `json:"title"`
	Date        *time.Time `json:"date,omitempty"`
	Duration    *string    `json:"duration,omitempty"`
	StreamID    *string    `json:"streamId,omitempty"`
	StreamURL   *string    `json:"streamUrl,omitempty"`
	DownloadURL string     `json:"downloadUrl"`
	AgendaURL   *string    `json:"agendaUrl,omitempty"`
	Payload     Payload    `json:"payload"`
	PayloadHash string     `json:"payloadHash,omitempty"`
}

// Payload captures the listing fields as they were extracted from the page.
type Payload struct {
	VideoID  int64   `json:"video_id"`
	Title    string  `json:"title"`
	Date     *string `json:"date"`
	Duration string  `json:"duration"`
}

// Validate returns an error if the video contains invalid fields.
func (v *Video) Validate() error {
	if v.SiteSlug == "" {
		return Errorf(EINVALID, "video site slug required")
	}
	if v.VideoID <= 0 {
		return Errorf(EINVALID, "video id must be positive")
	}
	if v.Title == "" {
		return Errorf(EINVALID, "video %d title required", v.VideoID)
	}
	if v.DownloadURL == "" {
		return Errorf(EINVALID, "video %d download URL required", v.VideoID)
	}
	return nil
}

// DateString returns the video date in DateLayout, or "" when unknown.
func (v *Video) DateString() string {
	if v.Date == nil {
		return ""
	}
	return v.Date.Format(DateLayout)
}

// VideoURL returns the detail page address of a video.
func VideoURL(baseURL string, videoID int64) string {
	return fmt.Sprintf("%s/videos/%d", strings.TrimRight(baseURL, "/"), videoID)
}

// DownloadURL returns the download address of a video.
// It is derived from the site and id, never scraped.
func DownloadURL(baseURL string, videoID int64) string {
	return VideoURL(baseURL, videoID) + "/download"
}

// TruncateTitle shortens a title to MaxTitleLength runes.
func TruncateTitle(title string) string {
	if utf8.RuneCountInString(title) <= MaxTitleLength {
		return title
	}
	return string([]rune(title)[:MaxTitleLength])
}

// OptString returns a pointer to s, or nil when s is empty.
func OptString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// UpsertOutcome classifies what an upsert did to a single record.
type UpsertOutcome int

// UpsertOutcome values.
const (
	OutcomeInserted UpsertOutcome = iota + 1
	OutcomeUpdated
)

// UpsertResult summarizes a batch upsert.
// Outcomes is parallel to the input slice.
type UpsertResult struct {
	Inserted int
	Updated  int
	Outcomes []UpsertOutcome
}

// StreamUpdate carries streaming metadata found by detail enrichment.
// Nil fields leave the stored value unchanged.
type StreamUpdate struct {
	StreamURL *string
	StreamID  *string
}

// VideoService represents a service for managing videos.
type VideoService interface {
	// UpsertVideos inserts or updates videos in a single transaction.
	// On conflict, title and payload are replaced; every other field keeps
	// its stored value unless the incoming value is non-nil.
	UpsertVideos(ctx context.Context, videos []*Video) (*UpsertResult, error)

	// FindVideoIDs returns the ids of all stored videos for a site.
	FindVideoIDs(ctx context.Context, slug string) (map[int64]struct{}, error)

	// FindVideo retrieves a single video.
	// Returns ENOTFOUND if the video does not exist.
	FindVideo(ctx context.Context, slug string, videoID int64) (*Video, error)

	// FindVideos retrieves videos matching the filter, newest first.
	FindVideos(ctx context.Context, filter VideoFilter) ([]*Video, error)

	// UpdateStream sets streaming metadata on a stored video.
	// Returns ENOTFOUND if the video does not exist.
	UpdateStream(ctx context.Context, slug string, videoID int64, upd StreamUpdate) error
}

// VideoFilter represents a filter for FindVideos.
type VideoFilter struct {
	SiteSlug *string `json:"siteSlug"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// EncodePayload returns the JSON encoding of a payload and its hash.
func EncodePayload(p Payload) (raw []byte, hash string, err error) {
	raw, err = json.Marshal(p)
	if err != nil {
		return nil, "", err
	}
	return raw, strconv.FormatUint(xxhash.Sum64(raw), 16), nil
}
