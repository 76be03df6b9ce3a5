package crawl_test

import (
	"context"
	"testing"

	"github.com/fwojciec/govvideo"
	"github.com/fwojciec/govvideo/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBase = "https://{slug}.portal.test"

func TestDetector_Detect(t *testing.T) {
	t.Parallel()

	base := "https://springfield.portal.test"
	cats := []govvideo.Category{{Path: "/views/2/council", Name: "Council"}}

	legacy := func() *fakePortal {
		return &fakePortal{
			Pages:     map[string]string{base + "/views/default/": "view"},
			Redirects: map[string]string{base + "/views/default/": base + "/views/2"},
		}
	}

	t.Run("legacy view with categories is multi-category", func(t *testing.T) {
		t.Parallel()

		d := &crawl.Detector{Fetcher: legacy().fetcher(), Inspector: fakeInspector(cats, nil, 4), BaseURL: testBase}

		site, err := d.Detect(context.Background(), "springfield")

		require.NoError(t, err)
		assert.Equal(t, govvideo.LayoutMultiCategory, site.Layout)
		assert.Equal(t, 2, site.ViewID)
		assert.Equal(t, cats, site.Categories)
		assert.Equal(t, base, site.BaseURL)
		assert.Equal(t, base+"/views/2", site.ViewURL())
	})

	t.Run("legacy view without categories is single-page", func(t *testing.T) {
		t.Parallel()

		d := &crawl.Detector{Fetcher: legacy().fetcher(), Inspector: fakeInspector(nil, nil, 3), BaseURL: testBase}

		site, err := d.Detect(context.Background(), "springfield")

		require.NoError(t, err)
		assert.Equal(t, govvideo.LayoutSinglePage, site.Layout)
		assert.Equal(t, 3, site.DefaultVideos)
	})

	t.Run("legacy view without videos is empty", func(t *testing.T) {
		t.Parallel()

		d := &crawl.Detector{Fetcher: legacy().fetcher(), Inspector: fakeInspector(nil, nil, 0), BaseURL: testBase}

		site, err := d.Detect(context.Background(), "springfield")

		require.NoError(t, err)
		assert.Equal(t, govvideo.LayoutEmpty, site.Layout)
	})

	t.Run("root navigation is new-style", func(t *testing.T) {
		t.Parallel()

		nav := []govvideo.Category{{Path: "/city-council", Name: "City Council"}}
		portal := &fakePortal{Pages: map[string]string{base + "/": "root"}}
		d := &crawl.Detector{Fetcher: portal.fetcher(), Inspector: fakeInspector(nil, nav, 0), BaseURL: testBase}

		site, err := d.Detect(context.Background(), "springfield")

		require.NoError(t, err)
		assert.Equal(t, govvideo.LayoutNewStyle, site.Layout)
		assert.Equal(t, nav, site.Categories)
		assert.Equal(t, []string{base + "/views/default/", base + "/"}, portal.requested())
	})

	t.Run("default view without redirect falls through to root", func(t *testing.T) {
		t.Parallel()

		portal := &fakePortal{Pages: map[string]string{
			base + "/views/default/": "landing",
			base + "/":               "root",
		}}
		d := &crawl.Detector{Fetcher: portal.fetcher(), Inspector: fakeInspector(nil, nil, 0), BaseURL: testBase}

		site, err := d.Detect(context.Background(), "springfield")

		require.NoError(t, err)
		assert.Equal(t, govvideo.LayoutEmpty, site.Layout)
	})

	t.Run("root with videos but no navigation is new-style", func(t *testing.T) {
		t.Parallel()

		portal := &fakePortal{Pages: map[string]string{base + "/": "root"}}
		d := &crawl.Detector{Fetcher: portal.fetcher(), Inspector: fakeInspector(nil, nil, 5), BaseURL: testBase}

		site, err := d.Detect(context.Background(), "springfield")

		require.NoError(t, err)
		assert.Equal(t, govvideo.LayoutNewStyle, site.Layout)
		assert.Empty(t, site.Categories)
	})

	t.Run("unreachable root fails detection", func(t *testing.T) {
		t.Parallel()

		portal := &fakePortal{}
		d := &crawl.Detector{Fetcher: portal.fetcher(), Inspector: fakeInspector(nil, nil, 0), BaseURL: testBase}

		_, err := d.Detect(context.Background(), "springfield")

		require.Error(t, err)
		assert.Equal(t, govvideo.EUNREACHABLE, govvideo.ErrorCode(err))
		assert.Contains(t, govvideo.ErrorMessage(err), "could not access site springfield")
	})
}
