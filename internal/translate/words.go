package translate

import (
	"context"
	"fmt"
	"strings"

	"github.com/mgpai22/captioner/internal/timeline"
)

// TranslateWords translates a transcript one caption segment at a time.
// Each translated segment is retimed across the span of the segment it
// replaces, so segment boundaries and gaps are preserved while individual
// word timings are approximated.
func TranslateWords(
	ctx context.Context,
	translator Translator,
	words []timeline.Word,
	segOpts timeline.SegmentOptions,
	concurrency int,
) ([]timeline.Word, error) {
	segments := timeline.GroupIntoSegments(words, segOpts)
	if len(segments) == 0 {
		return []timeline.Word{}, nil
	}

	items := make([]TranslationItem, len(segments))
	for i, seg := range segments {
		items[i] = TranslationItem{Index: seg.Index, Text: seg.Text}
	}

	var (
		results []TranslationResult
		err     error
	)
	if ct, ok := translator.(ConcurrentTranslator); ok && concurrency > 1 {
		results, err = ct.TranslateWithConcurrency(ctx, items, concurrency)
	} else {
		results, err = translator.Translate(ctx, items)
	}
	if err != nil {
		return nil, err
	}

	translated := make(map[int]string, len(results))
	for _, r := range results {
		if r.Index < 0 || r.Index >= len(segments) {
			return nil, fmt.Errorf("translation returned unknown index %d", r.Index)
		}
		translated[r.Index] = r.Text
	}

	out := make([]timeline.Word, 0, len(words))
	for _, seg := range segments {
		fields := strings.Fields(translated[seg.Index])
		if len(fields) == 0 {
			out = append(out, seg.Words...)
			continue
		}
		out = append(out, timeline.Retime(seg.Start, seg.End, fields)...)
	}
	return out, nil
}
