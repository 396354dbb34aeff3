package crawl

import (
	"sort"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/civicmeet/civicmeet"
)

// KeyField selects one Meeting attribute folded into the dedup key.
// Backends differ in which fields make a meeting "the same", so the key
// composition is configurable.
type KeyField string

// Supported key fields.
const (
	KeyTitle KeyField = "title"
	KeyBody  KeyField = "body"
	KeyStart KeyField = "start"
)

// DefaultKeyFields collapse meetings sharing a title, body and start time.
var DefaultKeyFields = []KeyField{KeyTitle, KeyBody, KeyStart}

// Dedupe retains the first meeting seen per composite key, preserving the
// input's emission order for the winner, then sorts the result ascending
// by start time. Running Dedupe on its own output removes nothing further.
func Dedupe(meetings []*civicmeet.Meeting, fields []KeyField) []*civicmeet.Meeting {
	if len(fields) == 0 {
		fields = DefaultKeyFields
	}

	seen := make(map[uint64]bool, len(meetings))
	unique := make([]*civicmeet.Meeting, 0, len(meetings))
	for _, m := range meetings {
		key := dedupeKey(m, fields)
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, m)
	}

	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].Start.Before(unique[j].Start)
	})
	return unique
}

// dedupeKey hashes the case-folded selected fields. Start is UTC-normalized
// so the same instant keys identically regardless of source zone.
func dedupeKey(m *civicmeet.Meeting, fields []KeyField) uint64 {
	var sb strings.Builder
	for _, f := range fields {
		switch f {
		case KeyTitle:
			sb.WriteString(strings.ToLower(m.Title))
		case KeyBody:
			sb.WriteString(strings.ToLower(m.Body))
		case KeyStart:
			sb.WriteString(m.Start.UTC().Format(time.RFC3339))
		}
		sb.WriteByte(0)
	}
	return xxhash.Sum64String(sb.String())
}
