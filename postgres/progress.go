package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/govvideo"
)

// Compile-time interface verification.
var _ govvideo.ProgressService = (*ProgressService)(nil)

// ProgressService implements govvideo.ProgressService using PostgreSQL.
type ProgressService struct {
	db *DB
}

// NewProgressService creates a new ProgressService.
func NewProgressService(db *DB) *ProgressService {
	return &ProgressService{db: db}
}

// UpsertProgress stores a progress record, keeping started_at from the
// first insert.
func (s *ProgressService) UpsertProgress(ctx context.Context, p *govvideo.Progress) error {
	if err := p.Validate(); err != nil {
		return err
	}

	_, err := s.db.pool.Exec(ctx, `
		INSERT INTO scrape_progress (
			site_slug, endpoint, status, records_scraped, error_message,
			started_at, completed_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (site_slug, endpoint) DO UPDATE SET
			status = EXCLUDED.status,
			records_scraped = EXCLUDED.records_scraped,
			error_message = EXCLUDED.error_message,
			completed_at = EXCLUDED.completed_at,
			updated_at = EXCLUDED.updated_at
	`, p.SiteSlug, p.Endpoint, p.Status, p.RecordsScraped, p.ErrorMessage,
		p.StartedAt.UTC(), p.CompletedAt.UTC(), p.UpdatedAt.UTC())
	return err
}

// FindProgress retrieves progress records matching the filter, ordered by slug.
func (s *ProgressService) FindProgress(ctx context.Context, filter govvideo.ProgressFilter) ([]*govvideo.Progress, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`SELECT site_slug, endpoint, status, records_scraped, error_message,
		started_at, completed_at, updated_at FROM scrape_progress WHERE TRUE`)
	if filter.SiteSlug != nil {
		args = append(args, *filter.SiteSlug)
		fmt.Fprintf(&query, " AND site_slug = $%d", len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		fmt.Fprintf(&query, " AND status = $%d", len(args))
	}
	query.WriteString(" ORDER BY site_slug ASC, endpoint ASC")

	rows, err := s.db.pool.Query(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*govvideo.Progress
	for rows.Next() {
		var p govvideo.Progress
		if err := rows.Scan(&p.SiteSlug, &p.Endpoint, &p.Status, &p.RecordsScraped, &p.ErrorMessage,
			&p.StartedAt, &p.CompletedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		records = append(records, &p)
	}
	return records, rows.Err()
}
