package govvideo

import (
	"context"
	"time"
)

// EndpointFullRescrape names the progress record written by a full crawl.
const EndpointFullRescrape = "full_rescrape"

// MaxErrorMessageLength bounds the error text stored on a progress record.
const MaxErrorMessageLength = 500

// Progress status values.
const (
	StatusCompleted = "completed"
	StatusError     = "error"
)

// Progress is the last known crawl status for a site.
type Progress struct {
	SiteSlug       string    `json:"siteSlug"`
	Endpoint       string    `json:"endpoint"`
	Status         string    `json:"status"`
	RecordsScraped int       `json:"recordsScraped"`
	ErrorMessage   *string   `json:"errorMessage,omitempty"`
	StartedAt      time.Time `json:"startedAt"`
	CompletedAt    time.Time `json:"completedAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Validate returns an error if the progress record contains invalid fields.
func (p *Progress) Validate() error {
	if p.SiteSlug == "" {
		return Errorf(EINVALID, "progress site slug required")
	}
	if p.Endpoint == "" {
		return Errorf(EINVALID, "progress endpoint required")
	}
	if p.Status != StatusCompleted && p.Status != StatusError {
		return Errorf(EINVALID, "invalid progress status %q", p.Status)
	}
	return nil
}

// NewProgress builds the progress record for a finished crawl.
func NewProgress(r *ScrapeResult, now time.Time) *Progress {
	p := &Progress{
		SiteSlug:       r.Slug,
		Endpoint:       EndpointFullRescrape,
		Status:         StatusCompleted,
		RecordsScraped: r.Found,
		StartedAt:      now,
		CompletedAt:    now,
		UpdatedAt:      now,
	}
	if !r.Success {
		p.Status = StatusError
	}
	if r.Err != nil {
		msg := ErrorText(r.Err)
		if len(msg) > MaxErrorMessageLength {
			msg = msg[:MaxErrorMessageLength]
		}
		p.ErrorMessage = &msg
	}
	return p
}

// ProgressService represents a service for managing crawl progress records.
type ProgressService interface {
	// UpsertProgress stores the record, overwriting any previous record for
	// the same site and endpoint. StartedAt is kept from the first insert.
	UpsertProgress(ctx context.Context, p *Progress) error

	// FindProgress retrieves progress records matching the filter.
	FindProgress(ctx context.Context, filter ProgressFilter) ([]*Progress, error)
}

// ProgressFilter represents a filter for FindProgress.
type ProgressFilter struct {
	SiteSlug *string `json:"siteSlug"`
	Status   *string `json:"status"`
}
