package crawl_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/govvideo"
	"github.com/fwojciec/govvideo/crawl"
	"github.com/fwojciec/govvideo/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// store records what a crawl persisted.
type store struct {
	existing map[int64]struct{}
	upserted []*govvideo.Video
	streams  map[int64]govvideo.StreamUpdate
	progress []*govvideo.Progress
	counted  []string
}

func (s *store) videos() *mock.VideoService {
	return &mock.VideoService{
		FindVideoIDsFn: func(_ context.Context, _ string) (map[int64]struct{}, error) {
			return s.existing, nil
		},
		UpsertVideosFn: func(_ context.Context, videos []*govvideo.Video) (*govvideo.UpsertResult, error) {
			s.upserted = append(s.upserted, videos...)
			res := &govvideo.UpsertResult{}
			for _, v := range videos {
				if _, ok := s.existing[v.VideoID]; ok {
					res.Updated++
				} else {
					res.Inserted++
				}
			}
			return res, nil
		},
		UpdateStreamFn: func(_ context.Context, _ string, id int64, upd govvideo.StreamUpdate) error {
			if s.streams == nil {
				s.streams = make(map[int64]govvideo.StreamUpdate)
			}
			s.streams[id] = upd
			return nil
		},
	}
}

func (s *store) clients() *mock.ClientService {
	return &mock.ClientService{
		RefreshVideoCountFn: func(_ context.Context, slug string) error {
			s.counted = append(s.counted, slug)
			return nil
		},
	}
}

func (s *store) progressService() *mock.ProgressService {
	return &mock.ProgressService{
		UpsertProgressFn: func(_ context.Context, p *govvideo.Progress) error {
			s.progress = append(s.progress, p)
			return nil
		},
	}
}

func newCrawler(portal *fakePortal, inspector *mock.LayoutInspector, s *store, cfg crawl.Config) *crawl.Crawler {
	cfg.BaseURL = testBase
	return &crawl.Crawler{
		Fetcher:   portal.fetcher(),
		Extractor: fakeExtractor(),
		Inspector: inspector,
		Videos:    s.videos(),
		Clients:   s.clients(),
		Progress:  s.progressService(),
		Config:    cfg,
	}
}

func TestCrawler_CrawlSite(t *testing.T) {
	t.Parallel()

	base := "https://springfield.portal.test"
	legacyPages := func(pages map[string]string) *fakePortal {
		pages[base+"/views/default/"] = "detect"
		return &fakePortal{
			Pages:     pages,
			Redirects: map[string]string{base + "/views/default/": base + "/views/2"},
		}
	}

	t.Run("single-page site stores every listed video", func(t *testing.T) {
		t.Parallel()

		portal := legacyPages(map[string]string{base + "/views/2": "10,11,12"})
		s := &store{}
		c := newCrawler(portal, fakeInspector(nil, nil, 3), s, crawl.Config{})

		res := c.CrawlSite(context.Background(), "springfield")

		require.True(t, res.Success, "err: %v", res.Err)
		assert.Equal(t, 3, res.Found)
		assert.Equal(t, 3, res.New)
		assert.Equal(t, 1, res.Categories)
		assert.Equal(t, []int64{10, 11, 12}, videoIDs(s.upserted))
		assert.Equal(t, []string{"springfield"}, s.counted)
		require.Len(t, s.progress, 1)
		assert.Equal(t, govvideo.StatusCompleted, s.progress[0].Status)
		assert.Equal(t, govvideo.EndpointFullRescrape, s.progress[0].Endpoint)
		assert.Equal(t, 3, s.progress[0].RecordsScraped)
		assert.Nil(t, s.progress[0].ErrorMessage)
	})

	t.Run("multi-category site merges categories", func(t *testing.T) {
		t.Parallel()

		cats := []govvideo.Category{
			{Path: "/views/2/council", Name: "Council"},
			{Path: "/views/2/planning", Name: "Planning"},
		}
		portal := legacyPages(map[string]string{
			base + "/views/2":          "",
			base + "/views/2/council":  "1,2",
			base + "/views/2/planning": "2,3",
		})
		s := &store{}
		c := newCrawler(portal, fakeInspector(cats, nil, 0), s, crawl.Config{})

		res := c.CrawlSite(context.Background(), "springfield")

		require.True(t, res.Success, "err: %v", res.Err)
		assert.Equal(t, 3, res.Found)
		assert.Equal(t, 2, res.Categories)
		assert.Equal(t, []int64{1, 2, 3}, videoIDs(s.upserted))
	})

	t.Run("multi-category default view counts when it has videos", func(t *testing.T) {
		t.Parallel()

		cats := []govvideo.Category{{Path: "/views/2/council", Name: "Council"}}
		portal := legacyPages(map[string]string{
			base + "/views/2":         "7,1",
			base + "/views/2/council": "1,2",
		})
		s := &store{}
		c := newCrawler(portal, fakeInspector(cats, nil, 2), s, crawl.Config{})

		res := c.CrawlSite(context.Background(), "springfield")

		require.True(t, res.Success)
		assert.Equal(t, 3, res.Found)
		assert.Equal(t, 2, res.Categories)
		assert.Equal(t, []int64{7, 1, 2}, videoIDs(s.upserted))
	})

	t.Run("new-style site paginates navigation categories", func(t *testing.T) {
		t.Parallel()

		nav := []govvideo.Category{{Path: "/city-council", Name: "City Council"}}
		portal := &fakePortal{Pages: map[string]string{
			base + "/":                    "root",
			base + "/city-council":        "1,2|next",
			base + "/city-council?page=2": "3",
		}}
		s := &store{existing: map[int64]struct{}{1: {}}}
		c := newCrawler(portal, fakeInspector(nil, nav, 0), s, crawl.Config{})

		res := c.CrawlSite(context.Background(), "springfield")

		require.True(t, res.Success)
		assert.Equal(t, 3, res.Found)
		assert.Equal(t, 2, res.New)
		assert.Equal(t, 1, res.Updated)
		assert.Equal(t, 1, res.Categories)
	})

	t.Run("empty site succeeds with nothing stored", func(t *testing.T) {
		t.Parallel()

		portal := &fakePortal{Pages: map[string]string{base + "/": "root"}}
		s := &store{}
		c := newCrawler(portal, fakeInspector(nil, nil, 0), s, crawl.Config{})

		res := c.CrawlSite(context.Background(), "springfield")

		require.True(t, res.Success)
		assert.Equal(t, 0, res.Found)
		assert.Empty(t, s.upserted)
		require.Len(t, s.progress, 1)
		assert.Equal(t, govvideo.StatusCompleted, s.progress[0].Status)
	})

	t.Run("unreachable site records failure", func(t *testing.T) {
		t.Parallel()

		portal := &fakePortal{}
		s := &store{}
		c := newCrawler(portal, fakeInspector(nil, nil, 0), s, crawl.Config{})

		res := c.CrawlSite(context.Background(), "springfield")

		assert.False(t, res.Success)
		require.Error(t, res.Err)
		assert.Equal(t, govvideo.EUNREACHABLE, govvideo.ErrorCode(res.Err))
		assert.Empty(t, s.upserted)
		require.Len(t, s.progress, 1)
		assert.Equal(t, govvideo.StatusError, s.progress[0].Status)
		require.NotNil(t, s.progress[0].ErrorMessage)
		assert.Contains(t, *s.progress[0].ErrorMessage, "could not access site springfield")
	})

	t.Run("store failure marks site failed", func(t *testing.T) {
		t.Parallel()

		portal := legacyPages(map[string]string{base + "/views/2": "10"})
		s := &store{}
		c := newCrawler(portal, fakeInspector(nil, nil, 1), s, crawl.Config{})
		c.Videos.(*mock.VideoService).UpsertVideosFn = func(_ context.Context, _ []*govvideo.Video) (*govvideo.UpsertResult, error) {
			return nil, errors.New("disk full")
		}

		res := c.CrawlSite(context.Background(), "springfield")

		assert.False(t, res.Success)
		assert.ErrorContains(t, res.Err, "disk full")
		assert.Empty(t, s.counted)
	})

	t.Run("video count failure marks site failed", func(t *testing.T) {
		t.Parallel()

		portal := legacyPages(map[string]string{base + "/views/2": "10"})
		s := &store{}
		c := newCrawler(portal, fakeInspector(nil, nil, 1), s, crawl.Config{})
		c.Clients = &mock.ClientService{
			RefreshVideoCountFn: func(_ context.Context, _ string) error {
				return errors.New("locked")
			},
		}

		res := c.CrawlSite(context.Background(), "springfield")

		assert.False(t, res.Success)
		assert.ErrorContains(t, res.Err, "locked")
	})

	t.Run("progress failure does not fail the site", func(t *testing.T) {
		t.Parallel()

		portal := legacyPages(map[string]string{base + "/views/2": "10"})
		s := &store{}
		c := newCrawler(portal, fakeInspector(nil, nil, 1), s, crawl.Config{})
		c.Progress = &mock.ProgressService{
			UpsertProgressFn: func(_ context.Context, _ *govvideo.Progress) error {
				return errors.New("locked")
			},
		}

		res := c.CrawlSite(context.Background(), "springfield")

		assert.True(t, res.Success)
	})

	t.Run("dry run touches no store", func(t *testing.T) {
		t.Parallel()

		portal := legacyPages(map[string]string{base + "/views/2": "10,11"})
		c := &crawl.Crawler{
			Fetcher:   portal.fetcher(),
			Extractor: fakeExtractor(),
			Inspector: fakeInspector(nil, nil, 2),
			Videos:    &mock.VideoService{},
			Clients:   &mock.ClientService{},
			Progress:  &mock.ProgressService{},
			Config:    crawl.Config{BaseURL: testBase, DryRun: true},
		}

		res := c.CrawlSite(context.Background(), "springfield")

		require.True(t, res.Success)
		assert.Equal(t, 2, res.Found)
		assert.Equal(t, 0, res.New)
	})

	t.Run("enrichment fetches details of new videos", func(t *testing.T) {
		t.Parallel()

		portal := legacyPages(map[string]string{
			base + "/views/2":   "10,11",
			base + "/videos/11": detailWithStream,
		})
		s := &store{existing: map[int64]struct{}{10: {}}}
		c := newCrawler(portal, fakeInspector(nil, nil, 2), s, crawl.Config{Enrich: true, EnrichLimit: 5})

		res := c.CrawlSite(context.Background(), "springfield")

		require.True(t, res.Success)
		assert.Equal(t, 1, res.Enriched)
		require.Contains(t, s.streams, int64(11))
		assert.NotContains(t, portal.requested(), base+"/videos/10")
	})

	t.Run("enrichment failures are counted on the result", func(t *testing.T) {
		t.Parallel()

		portal := legacyPages(map[string]string{
			base + "/views/2":   "10,11,12",
			base + "/videos/11": detailWithStream,
		})
		s := &store{}
		c := newCrawler(portal, fakeInspector(nil, nil, 3), s, crawl.Config{Enrich: true, EnrichLimit: 5})

		res := c.CrawlSite(context.Background(), "springfield")

		require.True(t, res.Success, "err: %v", res.Err)
		assert.Equal(t, 1, res.Enriched)
		assert.Equal(t, 2, res.EnrichFailed)
	})
}
