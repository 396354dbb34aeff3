package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/civicmeet/civicmeet/brief"
	"github.com/civicmeet/civicmeet/fs"
)

// Run executes the newsletter command.
func (c *NewsletterCmd) Run(deps *Dependencies) error {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("unknown timezone %q", c.Timezone)
	}

	meetings, err := fs.NewWriter(filepath.Dir(c.Input)).ReadMeetings(filepath.Base(c.Input))
	if err != nil {
		return err
	}

	g := &brief.Generator{
		Source:   sourceFromFilename(c.Input),
		Portal:   c.Portal,
		Location: loc,
		Now:      time.Now,
	}

	writer := fs.NewWriter(filepath.Dir(c.Output))
	if err := writer.WriteText(filepath.Base(c.Output), g.Newsletter(meetings)); err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "Generated: %s\n", c.Output)
	return nil
}
