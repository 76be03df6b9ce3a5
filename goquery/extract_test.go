package goquery_test

import (
	"testing"
	"time"

	"github.com/fwojciec/govvideo"
	"github.com/fwojciec/govvideo/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSite() *govvideo.Site {
	return &govvideo.Site{
		Slug:    "austintx",
		BaseURL: "https://austintx.new.swagit.com",
	}
}

func TestExtractor_ExtractVideos(t *testing.T) {
	t.Parallel()

	t.Run("extracts legacy rows with separate cells", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><table>
<tr><th>Name</th><th>Date</th><th>Duration</th><th></th></tr>
<tr>
	<td>City Council  Regular Meeting</td>
	<td>Jan 05, 2024</td>
	<td>02h 13m</td>
	<td><a href="/videos/101">Play</a> <a href="/videos/101/agenda">Agenda</a></td>
</tr>
<tr>
	<td>Planning Commission</td>
	<td>03/14/2023</td>
	<td>45m</td>
	<td><a href="https://austintx.new.swagit.com/videos/102">Play</a></td>
</tr>
</table></body></html>`

		videos := goquery.NewExtractor().ExtractVideos(html, testSite())

		require.Len(t, videos, 2)

		v := videos[0]
		assert.Equal(t, "austintx", v.SiteSlug)
		assert.Equal(t, int64(101), v.VideoID)
		assert.Equal(t, "City Council Regular Meeting", v.Title)
		require.NotNil(t, v.Date)
		assert.Equal(t, "2024-01-05", v.DateString())
		require.NotNil(t, v.Duration)
		assert.Equal(t, "02h 13m", *v.Duration)
		assert.Equal(t, "https://austintx.new.swagit.com/videos/101/download", v.DownloadURL)
		require.NotNil(t, v.AgendaURL)
		assert.Equal(t, "https://austintx.new.swagit.com/videos/101/agenda", *v.AgendaURL)
		assert.Equal(t, int64(101), v.Payload.VideoID)
		require.NotNil(t, v.Payload.Date)
		assert.Equal(t, "2024-01-05", *v.Payload.Date)

		assert.Equal(t, int64(102), videos[1].VideoID)
		assert.Equal(t, "2023-03-14", videos[1].DateString())
		assert.Nil(t, videos[1].AgendaURL)
	})

	t.Run("extracts stacked rows with line breaks", func(t *testing.T) {
		t.Parallel()

		html := `<table>
<tr>
	<td><a href="/videos/2001">Budget Work Session</a><br/>March 3, 2025</td>
	<td>1h 02m<br/>4 items</td>
</tr>
<tr>
	<td><a href="/videos/2002">Special Called Meeting</a><br/>not a date</td>
	<td>12 items</td>
</tr>
<tr>
	<td><a href="/videos/2003">Work Session</a><br/>2025-02-01</td>
	<td>33m</td>
</tr>
</table>`

		videos := goquery.NewExtractor().ExtractVideos(html, testSite())

		require.Len(t, videos, 3)

		assert.Equal(t, "Budget Work Session", videos[0].Title)
		assert.Equal(t, "2025-03-03", videos[0].DateString())
		require.NotNil(t, videos[0].Duration)
		assert.Equal(t, "1h 02m", *videos[0].Duration)

		assert.Equal(t, "Special Called Meeting", videos[1].Title)
		assert.Nil(t, videos[1].Date, "unparseable date is left absent")
		assert.Nil(t, videos[1].Duration, "item-count label is not a duration")
		assert.Nil(t, videos[1].Payload.Date)

		require.NotNil(t, videos[2].Duration)
		assert.Equal(t, "33m", *videos[2].Duration)
	})

	t.Run("suppresses duplicate ids keeping first", func(t *testing.T) {
		t.Parallel()

		html := `<table>
<tr><td>First</td><td>Jan 1, 2024</td><td>1m</td><td><a href="/videos/7">x</a></td></tr>
<tr><td>Second</td><td>Jan 2, 2024</td><td>2m</td><td><a href="/videos/7">x</a></td></tr>
</table>`

		videos := goquery.NewExtractor().ExtractVideos(html, testSite())

		require.Len(t, videos, 1)
		assert.Equal(t, "First", videos[0].Title)
	})

	t.Run("ignores rows without video detail links", func(t *testing.T) {
		t.Parallel()

		html := `<table>
<tr><td>Archive</td><td><a href="/videos/7/download">Download</a></td></tr>
<tr><td>Elsewhere</td><td><a href="/about">About</a></td></tr>
</table>
<a href="/videos/9">Not in a table</a>`

		videos := goquery.NewExtractor().ExtractVideos(html, testSite())

		assert.Empty(t, videos)
	})

	t.Run("falls back when the title cell is empty", func(t *testing.T) {
		t.Parallel()

		html := `<table>
<tr><td>Council Meeting</td><td>Jan 1, 2024</td><td>1m</td><td><a href="/videos/10">Play</a></td></tr>
<tr><td>  </td><td>Jan 2, 2024</td><td>2m</td><td><a href="/videos/11">Budget Hearing</a></td></tr>
<tr><td></td><td>Jan 3, 2024</td><td>3m</td><td><a href="/videos/12"><img src="/thumb.jpg"></a></td></tr>
<tr><td><a href="/videos/13"><img src="/thumb.jpg"></a><br/>Jan 4, 2024</td><td>4m</td></tr>
</table>`

		videos := goquery.NewExtractor().ExtractVideos(html, testSite())

		require.Len(t, videos, 4)
		assert.Equal(t, "Council Meeting", videos[0].Title)
		assert.Equal(t, "Budget Hearing", videos[1].Title)
		assert.Equal(t, "Video 12", videos[2].Title)
		assert.Equal(t, "Video 13", videos[3].Title)
		assert.Equal(t, "Video 13", videos[3].Payload.Title)
		for _, v := range videos {
			assert.NoError(t, v.Validate())
		}
	})

	t.Run("truncates long titles", func(t *testing.T) {
		t.Parallel()

		long := make([]byte, 600)
		for i := range long {
			long[i] = 'a'
		}
		html := `<table><tr><td>` + string(long) + `</td><td></td><td></td><td><a href="/videos/1">x</a></td></tr></table>`

		videos := goquery.NewExtractor().ExtractVideos(html, testSite())

		require.Len(t, videos, 1)
		assert.Len(t, videos[0].Title, govvideo.MaxTitleLength)
		assert.Nil(t, videos[0].Duration)
	})
}

func TestExtractor_HasNextPage(t *testing.T) {
	t.Parallel()

	e := goquery.NewExtractor()

	assert.True(t, e.HasNextPage(`<ul class="pagination"><li><a href="?page=2">Next &raquo;</a></li></ul>`))
	assert.False(t, e.HasNextPage(`<ul class="pagination"><li><a href="?page=1">&laquo; Previous</a></li></ul>`))
	assert.False(t, e.HasNextPage(`<span>Next</span>`))
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	want := time.Date(2024, time.July, 4, 0, 0, 0, 0, time.UTC)

	for _, text := range []string{"Jul 4, 2024", "July 4, 2024", "07/04/2024", "7/4/2024", "2024-07-04", "  Jul 04, 2024 "} {
		got := goquery.ParseDate(text)
		if assert.NotNil(t, got, text) {
			assert.True(t, want.Equal(*got), text)
		}
	}

	assert.Nil(t, goquery.ParseDate(""))
	assert.Nil(t, goquery.ParseDate("4 July 2024"))
	assert.Nil(t, goquery.ParseDate("13/45/2024"))
}
