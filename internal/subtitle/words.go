package subtitle

import (
	"strings"
	"time"

	"github.com/mgpai22/captioner/internal/timeline"
)

// WordsFromSubtitle converts cues back into timed words. Consecutive cues
// with the same text and touching ranges, as highlight and typewriter
// scripts produce, are merged first. Each cue's words are then spread
// over its range, and the result is ordered by start time.
func WordsFromSubtitle(sub *Subtitle) []timeline.Word {
	type group struct {
		text       string
		start, end time.Duration
	}

	var groups []group
	for _, entry := range sub.Entries {
		text := strings.Join(strings.Fields(entry.Text), " ")
		if text == "" {
			continue
		}
		if n := len(groups); n > 0 {
			last := &groups[n-1]
			if last.text == text && entry.StartTime <= last.end {
				if entry.EndTime > last.end {
					last.end = entry.EndTime
				}
				continue
			}
		}
		groups = append(groups, group{text: text, start: entry.StartTime, end: entry.EndTime})
	}

	var words []timeline.Word
	for _, g := range groups {
		words = append(words, timeline.Retime(
			toSeconds(g.start),
			toSeconds(g.end),
			strings.Fields(g.text),
		)...)
	}
	timeline.SortByStart(words)
	return words
}
