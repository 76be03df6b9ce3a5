package main

import (
	"fmt"

	"github.com/fwojciec/govvideo"
)

// Run executes the add command.
func (c *AddCmd) Run(deps *Dependencies) error {
	for _, slug := range c.Slugs {
		if err := deps.Clients.CreateClient(deps.Ctx, &govvideo.Client{Slug: slug}); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", govvideo.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "Added client %s\n", slug)
	}
	return nil
}
