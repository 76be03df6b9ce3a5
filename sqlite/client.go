package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/fwojciec/govvideo"
)

// Compile-time interface verification.
var _ govvideo.ClientService = (*ClientService)(nil)

// ClientService implements govvideo.ClientService using SQLite.
type ClientService struct {
	db *DB
}

// NewClientService creates a new ClientService.
func NewClientService(db *DB) *ClientService {
	return &ClientService{db: db}
}

// CreateClient registers a portal. Existing slugs are left unchanged.
func (s *ClientService) CreateClient(ctx context.Context, client *govvideo.Client) error {
	if err := client.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()
	client.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO clients (slug, video_count, created_at, updated_at)
		VALUES (?, 0, ?, ?)
		ON CONFLICT (slug) DO NOTHING
	`, client.Slug, now.Format(time.RFC3339), now.Format(time.RFC3339))
	return err
}

// FindClientSlugs returns all registered slugs in ascending order.
func (s *ClientService) FindClientSlugs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT slug FROM clients ORDER BY slug ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slugs []string
	for rows.Next() {
		var slug string
		if err := rows.Scan(&slug); err != nil {
			return nil, err
		}
		slugs = append(slugs, slug)
	}
	return slugs, rows.Err()
}

// RefreshVideoCount recomputes the stored video count for a portal,
// registering the portal if it is not known yet.
func (s *ClientService) RefreshVideoCount(ctx context.Context, slug string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO clients (slug, video_count, created_at, updated_at)
		VALUES (?, (SELECT COUNT(*) FROM videos WHERE site_slug = ?), ?, ?)
		ON CONFLICT (slug) DO UPDATE SET
			video_count = excluded.video_count,
			updated_at = excluded.updated_at
	`, slug, slug, now, now)
	return err
}

// FindClient retrieves a registered portal.
func (s *ClientService) FindClient(ctx context.Context, slug string) (*govvideo.Client, error) {
	var c govvideo.Client
	var updatedAt string
	err := s.db.QueryRowContext(ctx,
		"SELECT slug, video_count, updated_at FROM clients WHERE slug = ?", slug,
	).Scan(&c.Slug, &c.VideoCount, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, govvideo.Errorf(govvideo.ENOTFOUND, "client %s not found", slug)
	}
	if err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &c, nil
}
