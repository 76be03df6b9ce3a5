package mock

import (
	"context"

	"github.com/fwojciec/govvideo"
)

var _ govvideo.ClientService = (*ClientService)(nil)

// ClientService is a mock implementation of govvideo.ClientService.
type ClientService struct {
	CreateClientFn      func(ctx context.Context, client *govvideo.Client) error
	FindClientSlugsFn   func(ctx context.Context) ([]string, error)
	RefreshVideoCountFn func(ctx context.Context, slug string) error
}

func (s *ClientService) CreateClient(ctx context.Context, client *govvideo.Client) error {
	return s.CreateClientFn(ctx, client)
}

func (s *ClientService) FindClientSlugs(ctx context.Context) ([]string, error) {
	return s.FindClientSlugsFn(ctx)
}

func (s *ClientService) RefreshVideoCount(ctx context.Context, slug string) error {
	return s.RefreshVideoCountFn(ctx, slug)
}
