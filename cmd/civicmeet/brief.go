package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/civicmeet/civicmeet/brief"
	"github.com/civicmeet/civicmeet/fs"
)

// Run executes the brief command.
func (c *BriefCmd) Run(deps *Dependencies) error {
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
		Location: loc,
		Now:      time.Now,
	}

	writer := fs.NewWriter(c.OutDir)
	var generated int
	for _, b := range g.DailyBriefs(meetings) {
		if c.Date != "" && b.Date != c.Date {
			continue
		}
		if err := writer.WriteText(b.Filename, b.Content); err != nil {
			return err
		}
		fmt.Fprintf(deps.Stdout, "Generated: %s\n", filepath.Join(c.OutDir, b.Filename))
		generated++
	}

	fmt.Fprintf(deps.Stdout, "Generated %d daily brief(s) in %s/\n", generated, c.OutDir)
	return nil
}

// sourceFromFilename turns "data/macomb-meetings.json" into "Macomb".
func sourceFromFilename(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	name = strings.TrimSuffix(name, "-meetings")
	if name == "" {
		return "Meetings"
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
