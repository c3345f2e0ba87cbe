package timeline

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
)

// single transcribed token, times in seconds
type Word struct {
	Text       string  `json:"text"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Confidence float64 `json:"confidence,omitempty"`
}

func (w Word) Bounds() (float64, float64) {
	return w.Start, w.End
}

func (w Word) Duration() float64 {
	return w.End - w.Start
}

var ErrInvalidWord = errors.New("invalid word")

// ValidateWords reports every malformed word in the sequence. A nil
// return means all timestamps are finite, non-negative and ordered
// within each word, starts never decrease, and no word has empty text.
func ValidateWords(words []Word) error {
	return ValidateRange(words, 0, len(words))
}

// ValidateRange checks words[lo:hi] the way ValidateWords does, including
// the order of words[lo] against words[lo-1]. Errors name absolute indexes.
func ValidateRange(words []Word, lo, hi int) error {
	lo, hi = max(lo, 0), min(hi, len(words))

	var errs []error
	for i := lo; i < hi; i++ {
		w := words[i]
		if err := validateWord(w); err != nil {
			errs = append(errs, fmt.Errorf("word %d: %w", i, err))
		}
		if i > 0 && w.Start < words[i-1].Start {
			errs = append(errs, fmt.Errorf("word %d: %w: start %v before previous start %v",
				i, ErrInvalidWord, w.Start, words[i-1].Start))
		}
	}
	return errors.Join(errs...)
}

func validateWord(w Word) error {
	switch {
	case !isFinite(w.Start) || !isFinite(w.End):
		return fmt.Errorf("%w: non-finite timestamp [%v, %v]", ErrInvalidWord, w.Start, w.End)
	case w.Start < 0:
		return fmt.Errorf("%w: negative start %v", ErrInvalidWord, w.Start)
	case w.End < w.Start:
		return fmt.Errorf("%w: end %v before start %v", ErrInvalidWord, w.End, w.Start)
	case strings.TrimSpace(w.Text) == "":
		return fmt.Errorf("%w: empty text", ErrInvalidWord)
	}
	return nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Clone returns a copy that does not share its backing array with words.
func Clone(words []Word) []Word {
	if words == nil {
		return nil
	}
	out := make([]Word, len(words))
	copy(out, words)
	return out
}

// SortByStart orders words by start time in place, keeping the relative
// order of words that start together.
func SortByStart(words []Word) {
	slices.SortStableFunc(words, func(a, b Word) int {
		return cmp.Compare(a.Start, b.Start)
	})
}
