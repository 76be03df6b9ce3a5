package postgres

import (
	"context"
	"errors"

	"github.com/fwojciec/govvideo"
	"github.com/jackc/pgx/v5"
)

// Compile-time interface verification.
var _ govvideo.ClientService = (*ClientService)(nil)

// ClientService implements govvideo.ClientService using PostgreSQL.
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
	_, err := s.db.pool.Exec(ctx,
		"INSERT INTO clients (slug) VALUES ($1) ON CONFLICT (slug) DO NOTHING",
		client.Slug)
	return err
}

// FindClientSlugs returns all registered slugs in ascending order.
func (s *ClientService) FindClientSlugs(ctx context.Context) ([]string, error) {
	rows, err := s.db.pool.Query(ctx, "SELECT slug FROM clients ORDER BY slug ASC")
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// RefreshVideoCount recomputes the stored video count for a portal,
// registering the portal if it is not known yet.
func (s *ClientService) RefreshVideoCount(ctx context.Context, slug string) error {
	_, err := s.db.pool.Exec(ctx, `
		INSERT INTO clients (slug, video_count)
		VALUES ($1, (SELECT COUNT(*) FROM videos WHERE site_slug = $1))
		ON CONFLICT (slug) DO UPDATE SET
			video_count = EXCLUDED.video_count,
			updated_at = now()
	`, slug)
	return err
}

// FindClient retrieves a registered portal.
func (s *ClientService) FindClient(ctx context.Context, slug string) (*govvideo.Client, error) {
	var c govvideo.Client
	err := s.db.pool.QueryRow(ctx,
		"SELECT slug, video_count, updated_at FROM clients WHERE slug = $1", slug,
	).Scan(&c.Slug, &c.VideoCount, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, govvideo.Errorf(govvideo.ENOTFOUND, "client %s not found", slug)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
