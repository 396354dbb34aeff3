package parse

import (
	"regexp"
	"strings"

	"github.com/civicmeet/civicmeet"
)

// maxVoters caps the voter list recovered from a single labeled span.
const maxVoters = 20

// Vote labels anchor spans in minutes text. ABSENT acts only as a span
// terminator and never emits a record.
var voteLabelRe = regexp.MustCompile(`(?i)\b(YEAS?|NAYS?|ABSENT)\b:?`)

// voterSplitRe separates names on commas and the standalone word "and".
var voterSplitRe = regexp.MustCompile(`(?i)\s*(?:,|\band\b)\s*`)

// Votes parses roll-call records from minutes text. Each labeled span emits
// one Vote, so a document with two separate YEAS tallies yields two yea
// records; spans are never merged.
func Votes(text string) []civicmeet.Vote {
	if text == "" {
		return nil
	}

	labels := voteLabelRe.FindAllStringSubmatchIndex(text, -1)

	var votes []civicmeet.Vote
	for i, label := range labels {
		voteType := ""
		switch strings.ToUpper(text[label[2]:label[3]])[0] {
		case 'Y':
			voteType = civicmeet.VoteYea
		case 'N':
			voteType = civicmeet.VoteNay
		default:
			continue
		}

		start := label[1]
		end := len(text)
		if i+1 < len(labels) {
			end = labels[i+1][0]
		}

		voters := splitVoters(text[start:end])
		if len(voters) == 0 {
			continue
		}
		votes = append(votes, civicmeet.Vote{
			VoteType: voteType,
			Voters:   voters,
		})
	}
	return votes
}

func splitVoters(span string) []string {
	span = civicmeet.CleanText(span)
	if span == "" {
		return nil
	}

	var voters []string
	for _, part := range voterSplitRe.Split(span, -1) {
		name := civicmeet.CleanText(part)
		if name == "" {
			continue
		}
		voters = append(voters, name)
		if len(voters) == maxVoters {
			break
		}
	}
	return voters
}
