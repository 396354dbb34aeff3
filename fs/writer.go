// Package fs writes crawl output artifacts to disk. Writes are atomic:
// content lands in a temporary file first and is renamed into place, so an
// interrupted run never leaves a truncated artifact.
package fs

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/civicmeet/civicmeet"
)

// Writer writes meeting records and calendar feeds into a directory.
type Writer struct {
	outDir string
}

// NewWriter creates a Writer rooted at outDir. The directory is created on
// first write.
func NewWriter(outDir string) *Writer {
	return &Writer{outDir: outDir}
}

// WriteMeetings serializes the meeting list verbatim as indented JSON.
// Optional fields that are unset emit as null rather than empty strings.
func (w *Writer) WriteMeetings(name string, meetings []*civicmeet.Meeting) error {
	if meetings == nil {
		meetings = []*civicmeet.Meeting{}
	}
	data, err := json.MarshalIndent(meetings, "", "  ")
	if err != nil {
		return civicmeet.Errorf(civicmeet.EINTERNAL, "encoding meetings: %v", err)
	}
	return w.writeAtomic(name, append(data, '\n'))
}

// ReadMeetings decodes a meeting record file written by WriteMeetings.
func (w *Writer) ReadMeetings(name string) ([]*civicmeet.Meeting, error) {
	data, err := os.ReadFile(filepath.Join(w.outDir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, civicmeet.Errorf(civicmeet.ENOTFOUND, "no meeting records at %s", name)
		}
		return nil, civicmeet.Errorf(civicmeet.EINTERNAL, "reading meetings: %v", err)
	}
	var meetings []*civicmeet.Meeting
	if err := json.Unmarshal(data, &meetings); err != nil {
		return nil, civicmeet.Errorf(civicmeet.EINVALID, "decoding meetings: %v", err)
	}
	return meetings, nil
}

// WriteFeed writes pre-rendered calendar feed text.
func (w *Writer) WriteFeed(name, feed string) error {
	return w.writeAtomic(name, []byte(feed))
}

// WriteText writes a rendered text artifact such as a brief or newsletter.
func (w *Writer) WriteText(name, text string) error {
	return w.writeAtomic(name, []byte(text))
}

func (w *Writer) writeAtomic(name string, data []byte) error {
	if err := os.MkdirAll(w.outDir, 0755); err != nil {
		return civicmeet.Errorf(civicmeet.EINTERNAL, "creating output directory: %v", err)
	}

	final := filepath.Join(w.outDir, name)
	tmp := final + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return civicmeet.Errorf(civicmeet.EINTERNAL, "writing %s: %v", name, err)
	}
	if err := os.Rename(tmp, final); err != nil {
		os.Remove(tmp)
		return civicmeet.Errorf(civicmeet.EINTERNAL, "replacing %s: %v", name, err)
	}
	return nil
}
