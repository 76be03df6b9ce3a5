package mock

import (
	"context"

	"github.com/fwojciec/govvideo"
)

var _ govvideo.VideoService = (*VideoService)(nil)

// VideoService is a mock implementation of govvideo.VideoService.
type VideoService struct {
	UpsertVideosFn func(ctx context.Context, videos []*govvideo.Video) (*govvideo.UpsertResult, error)
	FindVideoIDsFn func(ctx context.Context, slug string) (map[int64]struct{}, error)
	FindVideoFn    func(ctx context.Context, slug string, videoID int64) (*govvideo.Video, error)
	FindVideosFn   func(ctx context.Context, filter govvideo.VideoFilter) ([]*govvideo.Video, error)
	UpdateStreamFn func(ctx context.Context, slug string, videoID int64, upd govvideo.StreamUpdate) error
}

func (s *VideoService) UpsertVideos(ctx context.Context, videos []*govvideo.Video) (*govvideo.UpsertResult, error) {
	return s.UpsertVideosFn(ctx, videos)
}

func (s *VideoService) FindVideoIDs(ctx context.Context, slug string) (map[int64]struct{}, error) {
	return s.FindVideoIDsFn(ctx, slug)
}

func (s *VideoService) FindVideo(ctx context.Context, slug string, videoID int64) (*govvideo.Video, error) {
	return s.FindVideoFn(ctx, slug, videoID)
}

func (s *VideoService) FindVideos(ctx context.Context, filter govvideo.VideoFilter) ([]*govvideo.Video, error) {
	return s.FindVideosFn(ctx, filter)
}

func (s *VideoService) UpdateStream(ctx context.Context, slug string, videoID int64, upd govvideo.StreamUpdate) error {
	return s.UpdateStreamFn(ctx, slug, videoID, upd)
}
