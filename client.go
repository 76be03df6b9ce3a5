package govvideo

import (
	"context"
	"time"
)

// Client is a portal the crawler knows about.
type Client struct {
	Slug       string    `json:"slug"`
	VideoCount int       `json:"videoCount"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Validate returns an error if the client contains invalid fields.
func (c *Client) Validate() error {
	if c.Slug == "" {
		return Errorf(EINVALID, "client slug required")
	}
	return nil
}

// ClientService represents a service for managing known portals.
type ClientService interface {
	// CreateClient registers a portal. Registering an existing slug is a no-op.
	CreateClient(ctx context.Context, client *Client) error

	// FindClientSlugs returns all registered slugs in ascending order.
	FindClientSlugs(ctx context.Context) ([]string, error)

	// RefreshVideoCount recomputes the stored video count for a portal.
	RefreshVideoCount(ctx context.Context, slug string) error
}
