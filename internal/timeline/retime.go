package timeline

import (
	"strings"
	"unicode/utf8"
)

// Retime spreads [start, end] across texts in proportion to each text's
// rune count. Used when the words of a span are replaced wholesale, e.g.
// by a translation or by a multi-word cue, and only the span is known.
func Retime(start, end float64, texts []string) []Word {
	var kept []string
	total := 0
	for _, t := range texts {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		kept = append(kept, t)
		total += utf8.RuneCountInString(t)
	}
	if len(kept) == 0 {
		return nil
	}
	if end < start {
		end = start
	}

	span := end - start
	words := make([]Word, len(kept))
	cursor := start
	acc := 0
	for i, t := range kept {
		acc += utf8.RuneCountInString(t)
		wordEnd := start + span*float64(acc)/float64(total)
		if i == len(kept)-1 {
			wordEnd = end
		}
		words[i] = Word{Text: t, Start: cursor, End: wordEnd}
		cursor = wordEnd
	}
	return words
}
