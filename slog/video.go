package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/govvideo"
)

// Ensure LoggingVideoService implements govvideo.VideoService.
var _ govvideo.VideoService = (*LoggingVideoService)(nil)

// LoggingVideoService wraps a VideoService and logs writes.
type LoggingVideoService struct {
	next   govvideo.VideoService
	logger *slog.Logger
}

// NewLoggingVideoService creates a new LoggingVideoService.
func NewLoggingVideoService(next govvideo.VideoService, logger *slog.Logger) *LoggingVideoService {
	return &LoggingVideoService{next: next, logger: logger}
}

// UpsertVideos delegates to the wrapped service and logs the batch outcome.
func (s *LoggingVideoService) UpsertVideos(ctx context.Context, videos []*govvideo.Video) (*govvideo.UpsertResult, error) {
	begin := time.Now()
	res, err := s.next.UpsertVideos(ctx, videos)
	if err != nil {
		s.logger.Error("upsert videos",
			"videos", len(videos),
			"duration", time.Since(begin),
			"err", err,
		)
		return nil, err
	}
	s.logger.Info("upsert videos",
		"videos", len(videos),
		"inserted", res.Inserted,
		"updated", res.Updated,
		"duration", time.Since(begin),
	)
	return res, nil
}

// FindVideoIDs delegates to the wrapped service.
func (s *LoggingVideoService) FindVideoIDs(ctx context.Context, slug string) (map[int64]struct{}, error) {
	return s.next.FindVideoIDs(ctx, slug)
}

// FindVideo delegates to the wrapped service.
func (s *LoggingVideoService) FindVideo(ctx context.Context, slug string, videoID int64) (*govvideo.Video, error) {
	return s.next.FindVideo(ctx, slug, videoID)
}

// FindVideos delegates to the wrapped service.
func (s *LoggingVideoService) FindVideos(ctx context.Context, filter govvideo.VideoFilter) ([]*govvideo.Video, error) {
	return s.next.FindVideos(ctx, filter)
}

// UpdateStream delegates to the wrapped service and logs the update.
func (s *LoggingVideoService) UpdateStream(ctx context.Context, slug string, videoID int64, upd govvideo.StreamUpdate) error {
	err := s.next.UpdateStream(ctx, slug, videoID, upd)
	s.logger.Debug("update stream",
		"site", slug,
		"video", videoID,
		"stream_url", upd.StreamURL != nil,
		"stream_id", upd.StreamID != nil,
		"err", err,
	)
	return err
}
