package timeline

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	DefaultMaxChars = 40
	DefaultMaxGap   = 0.5
)

// contiguous run of words grouped for captioning. Words aliases the
// source sequence, so a segment is only valid as long as that sequence
// is not mutated in place.
type Segment struct {
	ID    string
	Index int
	First int
	Words []Word
	Text  string
	Start float64
	End   float64
}

func (s Segment) Bounds() (float64, float64) {
	return s.Start, s.End
}

// index into the source sequence one past the last word
func (s Segment) Last() int {
	return s.First + len(s.Words)
}

// SegmentOptions bounds segment size. A zero or negative field means the
// package default, so the zero value behaves like DefaultSegmentOptions.
// To split on any silence at all, set MaxGap to a tiny positive value.
type SegmentOptions struct {
	MaxChars int     // text budget per segment, in runes
	MaxGap   float64 // silence in seconds that forces a new segment
}

func DefaultSegmentOptions() SegmentOptions {
	return SegmentOptions{
		MaxChars: DefaultMaxChars,
		MaxGap:   DefaultMaxGap,
	}
}

func (o SegmentOptions) withDefaults() SegmentOptions {
	if o.MaxChars <= 0 {
		o.MaxChars = DefaultMaxChars
	}
	if o.MaxGap <= 0 {
		o.MaxGap = DefaultMaxGap
	}
	return o
}

// GroupIntoSegments partitions words into ordered segments. A new
// segment is started before a word when the silence since the previous
// word exceeds MaxGap or when the word would push the accumulated text
// past MaxChars. A word ending a sentence closes the segment it joins.
func GroupIntoSegments(words []Word, opts SegmentOptions) []Segment {
	if len(words) == 0 {
		return []Segment{}
	}
	opts = opts.withDefaults()

	segments := make([]Segment, 0, len(words)/4+1)
	first := 0
	textLen := 0

	flush := func(end int) {
		if end <= first {
			return
		}
		segments = append(segments, newSegment(words, first, end, len(segments)))
		first = end
		textLen = 0
	}

	for i, w := range words {
		wordLen := utf8.RuneCountInString(w.Text)

		if i > first {
			gap := w.Start - words[i-1].End
			if gap > opts.MaxGap || textLen+wordLen > opts.MaxChars {
				flush(i)
			}
		}

		textLen += wordLen + 1

		if endsSentence(w.Text) {
			flush(i + 1)
		}
	}
	flush(len(words))

	return segments
}

func newSegment(words []Word, first, end, index int) Segment {
	run := words[first:end:end]
	start := run[0].Start
	last := run[len(run)-1].End

	texts := make([]string, len(run))
	for i, w := range run {
		texts[i] = w.Text
	}

	return Segment{
		ID:    segmentID(start, last, index),
		Index: index,
		First: first,
		Words: run,
		Text:  strings.Join(texts, " "),
		Start: start,
		End:   last,
	}
}

func segmentID(start, end float64, index int) string {
	return strconv.FormatFloat(start, 'f', -1, 64) + "-" +
		strconv.FormatFloat(end, 'f', -1, 64) + "-" +
		strconv.Itoa(index)
}

func endsSentence(text string) bool {
	text = strings.TrimRightFunc(text, unicode.IsSpace)
	if text == "" {
		return false
	}
	switch text[len(text)-1] {
	case '.', '!', '?':
		return true
	}
	return false
}
