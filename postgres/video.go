package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/fwojciec/govvideo"
	"github.com/jackc/pgx/v5"
)

// Compile-time interface verification.
var _ govvideo.VideoService = (*VideoService)(nil)

// VideoService implements govvideo.VideoService using PostgreSQL.
type VideoService struct {
	db *DB
}

// NewVideoService creates a new VideoService.
func NewVideoService(db *DB) *VideoService {
	return &VideoService{db: db}
}

// xmax is zero only for rows created by this statement, which tells an
// insert from a conflict update.
const upsertVideoSQL = `
	INSERT INTO videos (
		site_slug, video_id, title, video_date, duration, video_uuid, hls_url,
		download_url, agenda_url, raw_payload, payload_hash
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	ON CONFLICT (site_slug, video_id) DO UPDATE SET
		title = EXCLUDED.title,
		video_date = COALESCE(EXCLUDED.video_date, videos.video_date),
		duration = COALESCE(EXCLUDED.duration, videos.duration),
		video_uuid = COALESCE(EXCLUDED.video_uuid, videos.video_uuid),
		hls_url = COALESCE(EXCLUDED.hls_url, videos.hls_url),
		download_url = COALESCE(EXCLUDED.download_url, videos.download_url),
		agenda_url = COALESCE(EXCLUDED.agenda_url, videos.agenda_url),
		raw_payload = EXCLUDED.raw_payload,
		payload_hash = EXCLUDED.payload_hash,
		updated_at = now()
	RETURNING (xmax = 0)
`

// UpsertVideos inserts or merges videos in a single transaction, sending
// the statements as one batch.
func (s *VideoService) UpsertVideos(ctx context.Context, videos []*govvideo.Video) (*govvideo.UpsertResult, error) {
	res := &govvideo.UpsertResult{Outcomes: make([]govvideo.UpsertOutcome, 0, len(videos))}
	if len(videos) == 0 {
		return res, nil
	}

	b := &pgx.Batch{}
	for _, v := range videos {
		if err := v.Validate(); err != nil {
			return nil, err
		}
		raw, hash, err := govvideo.EncodePayload(v.Payload)
		if err != nil {
			return nil, err
		}
		v.PayloadHash = hash

		b.Queue(upsertVideoSQL,
			v.SiteSlug, v.VideoID, v.Title, v.Date, v.Duration, v.StreamID, v.StreamURL,
			v.DownloadURL, v.AgendaURL, string(raw), hash,
		)
	}

	tx, err := s.db.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	br := tx.SendBatch(ctx, b)
	for range videos {
		var inserted bool
		if err := br.QueryRow().Scan(&inserted); err != nil {
			_ = br.Close()
			return nil, err
		}
		if inserted {
			res.Inserted++
			res.Outcomes = append(res.Outcomes, govvideo.OutcomeInserted)
		} else {
			res.Updated++
			res.Outcomes = append(res.Outcomes, govvideo.OutcomeUpdated)
		}
	}
	if err := br.Close(); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return res, nil
}

// FindVideoIDs returns the ids of all stored videos for a site.
func (s *VideoService) FindVideoIDs(ctx context.Context, slug string) (map[int64]struct{}, error) {
	rows, err := s.db.pool.Query(ctx, "SELECT video_id FROM videos WHERE site_slug = $1", slug)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make(map[int64]struct{})
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = struct{}{}
	}
	return ids, rows.Err()
}

const selectVideoColumns = `SELECT site_slug, video_id, title, video_date, duration, video_uuid, hls_url,
	download_url, agenda_url, raw_payload::text, payload_hash FROM videos`

// FindVideo retrieves a single video.
func (s *VideoService) FindVideo(ctx context.Context, slug string, videoID int64) (*govvideo.Video, error) {
	row := s.db.pool.QueryRow(ctx, selectVideoColumns+" WHERE site_slug = $1 AND video_id = $2", slug, videoID)
	v, err := scanVideo(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, govvideo.Errorf(govvideo.ENOTFOUND, "video %s/%d not found", slug, videoID)
	}
	return v, err
}

// FindVideos retrieves videos matching the filter, newest first.
func (s *VideoService) FindVideos(ctx context.Context, filter govvideo.VideoFilter) ([]*govvideo.Video, error) {
	var query strings.Builder
	var args []any

	query.WriteString(selectVideoColumns + " WHERE TRUE")
	if filter.SiteSlug != nil {
		args = append(args, *filter.SiteSlug)
		fmt.Fprintf(&query, " AND site_slug = $%d", len(args))
	}
	query.WriteString(" ORDER BY video_date DESC NULLS LAST, video_id DESC")
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		fmt.Fprintf(&query, " LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		fmt.Fprintf(&query, " OFFSET $%d", len(args))
	}

	rows, err := s.db.pool.Query(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var videos []*govvideo.Video
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}

// UpdateStream sets streaming metadata on a stored video.
func (s *VideoService) UpdateStream(ctx context.Context, slug string, videoID int64, upd govvideo.StreamUpdate) error {
	tag, err := s.db.pool.Exec(ctx, `
		UPDATE videos
		SET hls_url = COALESCE($1, hls_url),
			video_uuid = COALESCE($2, video_uuid),
			updated_at = now()
		WHERE site_slug = $3 AND video_id = $4
	`, upd.StreamURL, upd.StreamID, slug, videoID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return govvideo.Errorf(govvideo.ENOTFOUND, "video %s/%d not found", slug, videoID)
	}
	return nil
}

func scanVideo(row pgx.Row) (*govvideo.Video, error) {
	var v govvideo.Video
	var raw string

	if err := row.Scan(&v.SiteSlug, &v.VideoID, &v.Title, &v.Date, &v.Duration, &v.StreamID,
		&v.StreamURL, &v.DownloadURL, &v.AgendaURL, &raw, &v.PayloadHash); err != nil {
		return nil, err
	}
	if v.Date != nil {
		d := v.Date.UTC()
		v.Date = &d
	}
	if err := json.Unmarshal([]byte(raw), &v.Payload); err != nil {
		return nil, govvideo.Errorf(govvideo.EINTERNAL, "corrupt payload for video %s/%d", v.SiteSlug, v.VideoID)
	}
	return &v, nil
}
