package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/fwojciec/govvideo"
)

// Compile-time interface verification.
var _ govvideo.ProgressService = (*ProgressService)(nil)

// ProgressService implements govvideo.ProgressService using SQLite.
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

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO scrape_progress (
			site_slug, endpoint, status, records_scraped, error_message,
			started_at, completed_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (site_slug, endpoint) DO UPDATE SET
			status = excluded.status,
			records_scraped = excluded.records_scraped,
			error_message = excluded.error_message,
			completed_at = excluded.completed_at,
			updated_at = excluded.updated_at
	`, p.SiteSlug, p.Endpoint, p.Status, p.RecordsScraped, nullString(p.ErrorMessage),
		p.StartedAt.UTC().Format(time.RFC3339), p.CompletedAt.UTC().Format(time.RFC3339),
		p.UpdatedAt.UTC().Format(time.RFC3339))
	return err
}

// FindProgress retrieves progress records matching the filter, ordered by slug.
func (s *ProgressService) FindProgress(ctx context.Context, filter govvideo.ProgressFilter) ([]*govvideo.Progress, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`SELECT site_slug, endpoint, status, records_scraped, error_message,
		started_at, completed_at, updated_at FROM scrape_progress WHERE 1=1`)
	if filter.SiteSlug != nil {
		query.WriteString(" AND site_slug = ?")
		args = append(args, *filter.SiteSlug)
	}
	if filter.Status != nil {
		query.WriteString(" AND status = ?")
		args = append(args, *filter.Status)
	}
	query.WriteString(" ORDER BY site_slug ASC, endpoint ASC")

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*govvideo.Progress
	for rows.Next() {
		var p govvideo.Progress
		var errMsg sql.NullString
		var startedAt, completedAt, updatedAt string

		if err := rows.Scan(&p.SiteSlug, &p.Endpoint, &p.Status, &p.RecordsScraped, &errMsg,
			&startedAt, &completedAt, &updatedAt); err != nil {
			return nil, err
		}
		p.ErrorMessage = stringPtr(errMsg)

		if p.StartedAt, err = parseRFC3339(startedAt, "started_at"); err != nil {
			return nil, err
		}
		if p.CompletedAt, err = parseRFC3339(completedAt, "completed_at"); err != nil {
			return nil, err
		}
		if p.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
			return nil, err
		}
		records = append(records, &p)
	}
	return records, rows.Err()
}
