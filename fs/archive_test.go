package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/govvideo"
	"github.com/fwojciec/govvideo/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Story: Atomic Archive Export
// The store uses a temp directory so a failed export never leaves a
// half-written archive behind.

func testVideo(id int64, date *time.Time) *govvideo.Video {
	return &govvideo.Video{
		SiteSlug:    "springfield",
		VideoID:     id,
		Title:       "City Council",
		Date:        date,
		Duration:    govvideo.OptString("01:02:03"),
		DownloadURL: govvideo.DownloadURL("https://springfield.portal.test", id),
	}
}

func TestArchiveStore_SaveWritesToTempDirectory(t *testing.T) {
	t.Parallel()

	// Given a store targeting a directory
	base := t.TempDir()
	store := fs.NewArchiveStore(base, "springfield")
	day := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	// When I save a video
	err := store.Save(context.Background(), testVideo(10, &day))

	// Then the file exists in the temp directory only
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(base, "springfield.tmp", "2024", "10.yaml"))
	require.NoError(t, err, "file should exist in temp directory")
	_, err = os.Stat(filepath.Join(base, "springfield"))
	assert.True(t, os.IsNotExist(err), "final directory should not exist until commit")
}

func TestArchiveStore_CommitMovesFromTempToFinal(t *testing.T) {
	t.Parallel()

	// Given a store with an earlier archive and a new saved video
	base := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(base, "springfield", "stale"), 0755))
	store := fs.NewArchiveStore(base, "springfield")
	require.NoError(t, store.Save(context.Background(), testVideo(11, nil)))

	// When I commit
	err := store.Commit()

	// Then the new archive replaces the old one
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(store.Dir(), "undated", "11.yaml"))
	require.NoError(t, err, "file should exist in final directory after commit")
	_, err = os.Stat(filepath.Join(store.Dir(), "stale"))
	assert.True(t, os.IsNotExist(err), "previous archive should be replaced")
	_, err = os.Stat(filepath.Join(base, "springfield.tmp"))
	assert.True(t, os.IsNotExist(err), "temp directory should be removed after commit")
}

func TestArchiveStore_CommitEmptyArchive(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	store := fs.NewArchiveStore(base, "springfield")

	require.NoError(t, store.Commit())

	info, err := os.Stat(store.Dir())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestArchiveStore_AbortCleansUpTempDirectory(t *testing.T) {
	t.Parallel()

	// Given a store with saved videos
	base := t.TempDir()
	store := fs.NewArchiveStore(base, "springfield")
	require.NoError(t, store.Save(context.Background(), testVideo(10, nil)))

	// When I abort
	err := store.Abort()

	// Then nothing is left behind
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(base, "springfield.tmp"))
	assert.True(t, os.IsNotExist(err), "temp directory should be removed after abort")
	_, err = os.Stat(store.Dir())
	assert.True(t, os.IsNotExist(err), "final directory should not exist after abort")
}

func TestFormatVideo(t *testing.T) {
	t.Parallel()

	day := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	v := testVideo(10, &day)
	v.AgendaURL = govvideo.OptString("https://springfield.portal.test/videos/10/agenda")

	out, err := fs.FormatVideo(v)

	require.NoError(t, err)
	s := string(out)
	assert.Contains(t, s, "site: springfield\n")
	assert.Contains(t, s, "id: 10\n")
	assert.Contains(t, s, "title: City Council\n")
	assert.Contains(t, s, "2024-01-15")
	assert.Contains(t, s, "https://springfield.portal.test/videos/10/download")
	assert.Contains(t, s, "agenda:")
	assert.NotContains(t, s, "stream:")
}

func TestVideoPath(t *testing.T) {
	t.Parallel()

	day := time.Date(2023, 7, 4, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, filepath.Join("2023", "10.yaml"), fs.VideoPath(testVideo(10, &day)))
	assert.Equal(t, filepath.Join("undated", "10.yaml"), fs.VideoPath(testVideo(10, nil)))
}
