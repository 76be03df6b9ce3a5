package main

import (
	"fmt"

	"github.com/fwojciec/govvideo"
	"github.com/fwojciec/govvideo/fs"
)

// Run executes the export command.
func (c *ExportCmd) Run(deps *Dependencies) error {
	videos, err := deps.Videos.FindVideos(deps.Ctx, govvideo.VideoFilter{SiteSlug: &c.Slug})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", govvideo.ErrorMessage(err))
		return err
	}

	store := fs.NewArchiveStore(c.Dir, c.Slug)
	for _, v := range videos {
		if err := store.Save(deps.Ctx, v); err != nil {
			_ = store.Abort()
			return fmt.Errorf("export %s/%d: %w", c.Slug, v.VideoID, err)
		}
	}
	if err := store.Commit(); err != nil {
		_ = store.Abort()
		return fmt.Errorf("export %s: %w", c.Slug, err)
	}

	fmt.Fprintf(deps.Stdout, "Exported %d videos to %s\n", len(videos), store.Dir())
	return nil
}
