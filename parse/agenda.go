// Package parse extracts structured content (agenda items, roll-call votes)
// from document text. All functions are pure: text in, records out, no I/O.
//
// Extraction is heuristic. The three enumeration families are applied
// independently over the same text, so a line like "I. Call to order" can
// surface under both the alphabetic and roman families; overlaps are kept
// rather than disambiguated.
package parse

import (
	"regexp"

	"github.com/civicmeet/civicmeet"
)

// Agenda item bounds.
const (
	minItemLength = 10
	maxItemLength = 500
)

// Enumeration marker families, applied in order: decimal ("1."),
// alphabetic ("A."), roman ("I."). A marker opens an item; the item's text
// runs to the next marker of the same family or the end of the text.
var agendaMarkerRes = []*regexp.Regexp{
	regexp.MustCompile(`(?m)(?:^|\s)(\d{1,3})\.\s+`),
	regexp.MustCompile(`(?m)(?:^|\s)([A-Z])\.\s+`),
	regexp.MustCompile(`(?m)(?:^|\s)([IVX]+)\.\s+`),
}

// AgendaItems parses enumerated agenda items from extracted document text.
// Items whose cleaned text is 10 characters or shorter are dropped; longer
// texts are truncated at 500 characters.
func AgendaItems(text string) []civicmeet.AgendaItem {
	if text == "" {
		return nil
	}

	var items []civicmeet.AgendaItem
	for _, re := range agendaMarkerRes {
		markers := re.FindAllStringSubmatchIndex(text, -1)
		for i, m := range markers {
			number := text[m[2]:m[3]]
			start := m[1]
			end := len(text)
			if i+1 < len(markers) {
				end = markers[i+1][0]
			}

			itemText := civicmeet.CleanText(text[start:end])
			if len(itemText) <= minItemLength {
				continue
			}
			if runes := []rune(itemText); len(runes) > maxItemLength {
				itemText = string(runes[:maxItemLength])
			}
			items = append(items, civicmeet.AgendaItem{
				Number: number,
				Text:   itemText,
			})
		}
	}
	return items
}
