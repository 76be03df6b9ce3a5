package mock

import (
	"context"

	"github.com/fwojciec/govvideo"
)

var _ govvideo.ProgressService = (*ProgressService)(nil)

// ProgressService is a mock implementation of govvideo.ProgressService.
type ProgressService struct {
	UpsertProgressFn func(ctx context.Context, p *govvideo.Progress) error
	FindProgressFn   func(ctx context.Context, filter govvideo.ProgressFilter) ([]*govvideo.Progress, error)
}

func (s *ProgressService) UpsertProgress(ctx context.Context, p *govvideo.Progress) error {
	return s.UpsertProgressFn(ctx, p)
}

func (s *ProgressService) FindProgress(ctx context.Context, filter govvideo.ProgressFilter) ([]*govvideo.Progress, error) {
	return s.FindProgressFn(ctx, filter)
}
