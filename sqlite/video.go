package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/fwojciec/govvideo"
)

// Compile-time interface verification.
var _ govvideo.VideoService = (*VideoService)(nil)

// VideoService implements govvideo.VideoService using SQLite.
type VideoService struct {
	db *DB
}

// NewVideoService creates a new VideoService.
func NewVideoService(db *DB) *VideoService {
	return &VideoService{db: db}
}

const upsertVideoSQL = `
	INSERT INTO videos (
		site_slug, video_id, title, video_date, duration, video_uuid, hls_url,
		download_url, agenda_url, raw_payload, payload_hash, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (site_slug, video_id) DO UPDATE SET
		title = excluded.title,
		video_date = COALESCE(excluded.video_date, videos.video_date),
		duration = COALESCE(excluded.duration, videos.duration),
		video_uuid = COALESCE(excluded.video_uuid, videos.video_uuid),
		hls_url = COALESCE(excluded.hls_url, videos.hls_url),
		download_url = COALESCE(excluded.download_url, videos.download_url),
		agenda_url = COALESCE(excluded.agenda_url, videos.agenda_url),
		raw_payload = excluded.raw_payload,
		payload_hash = excluded.payload_hash,
		updated_at = excluded.updated_at
`

// UpsertVideos inserts or merges videos in a single transaction.
func (s *VideoService) UpsertVideos(ctx context.Context, videos []*govvideo.Video) (*govvideo.UpsertResult, error) {
	res := &govvideo.UpsertResult{Outcomes: make([]govvideo.UpsertOutcome, 0, len(videos))}
	if len(videos) == 0 {
		return res, nil
	}

	for _, v := range videos {
		if err := v.Validate(); err != nil {
			return nil, err
		}
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, v := range videos {
		raw, hash, err := govvideo.EncodePayload(v.Payload)
		if err != nil {
			return nil, err
		}
		v.PayloadHash = hash

		var exists int
		err = tx.QueryRowContext(ctx,
			"SELECT 1 FROM videos WHERE site_slug = ? AND video_id = ?",
			v.SiteSlug, v.VideoID,
		).Scan(&exists)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}

		if _, err := tx.ExecContext(ctx, upsertVideoSQL,
			v.SiteSlug, v.VideoID, v.Title, nullDate(v.Date), nullString(v.Duration),
			nullString(v.StreamID), nullString(v.StreamURL), v.DownloadURL,
			nullString(v.AgendaURL), string(raw), hash, now, now,
		); err != nil {
			return nil, err
		}

		if exists == 1 {
			res.Updated++
			res.Outcomes = append(res.Outcomes, govvideo.OutcomeUpdated)
		} else {
			res.Inserted++
			res.Outcomes = append(res.Outcomes, govvideo.OutcomeInserted)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return res, nil
}

// FindVideoIDs returns the ids of all stored videos for a site.
func (s *VideoService) FindVideoIDs(ctx context.Context, slug string) (map[int64]struct{}, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT video_id FROM videos WHERE site_slug = ?", slug)
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
	download_url, agenda_url, raw_payload, payload_hash FROM videos`

// FindVideo retrieves a single video.
func (s *VideoService) FindVideo(ctx context.Context, slug string, videoID int64) (*govvideo.Video, error) {
	row := s.db.QueryRowContext(ctx, selectVideoColumns+" WHERE site_slug = ? AND video_id = ?", slug, videoID)
	v, err := scanVideo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, govvideo.Errorf(govvideo.ENOTFOUND, "video %s/%d not found", slug, videoID)
	}
	return v, err
}

// FindVideos retrieves videos matching the filter, newest first.
func (s *VideoService) FindVideos(ctx context.Context, filter govvideo.VideoFilter) ([]*govvideo.Video, error) {
	var query strings.Builder
	var args []any

	query.WriteString(selectVideoColumns + " WHERE 1=1")
	if filter.SiteSlug != nil {
		query.WriteString(" AND site_slug = ?")
		args = append(args, *filter.SiteSlug)
	}
	query.WriteString(" ORDER BY video_date DESC, video_id DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
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
	result, err := s.db.ExecContext(ctx, `
		UPDATE videos
		SET hls_url = COALESCE(?, hls_url),
			video_uuid = COALESCE(?, video_uuid),
			updated_at = ?
		WHERE site_slug = ? AND video_id = ?
	`, nullString(upd.StreamURL), nullString(upd.StreamID),
		time.Now().UTC().Format(time.RFC3339), slug, videoID)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return govvideo.Errorf(govvideo.ENOTFOUND, "video %s/%d not found", slug, videoID)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanVideo(row scanner) (*govvideo.Video, error) {
	var v govvideo.Video
	var date, duration, streamID, streamURL, agendaURL sql.NullString
	var raw string

	if err := row.Scan(&v.SiteSlug, &v.VideoID, &v.Title, &date, &duration, &streamID,
		&streamURL, &v.DownloadURL, &agendaURL, &raw, &v.PayloadHash); err != nil {
		return nil, err
	}

	var err error
	if v.Date, err = datePtr(date); err != nil {
		return nil, err
	}
	v.Duration = stringPtr(duration)
	v.StreamID = stringPtr(streamID)
	v.StreamURL = stringPtr(streamURL)
	v.AgendaURL = stringPtr(agendaURL)

	if err := json.Unmarshal([]byte(raw), &v.Payload); err != nil {
		return nil, govvideo.Errorf(govvideo.EINTERNAL, "corrupt payload for video %s/%d", v.SiteSlug, v.VideoID)
	}
	return &v, nil
}
