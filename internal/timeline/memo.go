package timeline

import "sync"

// Segmenter caches the last grouping. The cache key is the identity of
// the word slice (its first element's address and its length), so
// callers must replace the slice on every edit instead of writing into
// it.
type Segmenter struct {
	opts SegmentOptions

	mu       sync.Mutex
	key      sliceKey
	valid    bool
	segments []Segment
}

type sliceKey struct {
	head *Word
	n    int
}

func NewSegmenter(opts SegmentOptions) *Segmenter {
	return &Segmenter{opts: opts.withDefaults()}
}

func (s *Segmenter) Options() SegmentOptions {
	return s.opts
}

func (s *Segmenter) Segments(words []Word) []Segment {
	key := keyOf(words)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.valid && s.key == key {
		return s.segments
	}
	s.segments = GroupIntoSegments(words, s.opts)
	s.key = key
	s.valid = true
	return s.segments
}

func keyOf(words []Word) sliceKey {
	if len(words) == 0 {
		return sliceKey{}
	}
	return sliceKey{head: &words[0], n: len(words)}
}
