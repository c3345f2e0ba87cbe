package transcribe

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/mgpai22/captioner/internal/timeline"
)

var ErrInvalidChunk = errors.New("invalid chunk")

// Chunk is one recognised word as speech models report it. The end
// timestamp may be null for the final word of a stream.
type Chunk struct {
	Text      string     `json:"text"`
	Timestamp []*float64 `json:"timestamp"`
}

// NewChunk builds a chunk with both timestamps set.
func NewChunk(text string, start, end float64) Chunk {
	return Chunk{Text: text, Timestamp: []*float64{&start, &end}}
}

// WordsFromChunks validates model output and converts it to words.
// Text is trimmed and blank chunks are dropped. A missing end timestamp
// collapses the word to its start. Words come back ordered by start.
func WordsFromChunks(chunks []Chunk) ([]timeline.Word, error) {
	words := make([]timeline.Word, 0, len(chunks))
	for i, c := range chunks {
		text := strings.TrimSpace(c.Text)
		if text == "" {
			continue
		}
		if len(c.Timestamp) == 0 || c.Timestamp[0] == nil {
			return nil, fmt.Errorf("chunk %d: %w: missing start timestamp", i, ErrInvalidChunk)
		}
		if len(c.Timestamp) > 2 {
			return nil, fmt.Errorf("chunk %d: %w: %d timestamps", i, ErrInvalidChunk, len(c.Timestamp))
		}

		start := *c.Timestamp[0]
		end := start
		if len(c.Timestamp) == 2 && c.Timestamp[1] != nil {
			end = *c.Timestamp[1]
		}

		words = append(words, timeline.Word{Text: text, Start: start, End: end})
	}

	timeline.SortByStart(words)
	if err := timeline.ValidateWords(words); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidChunk, err)
	}
	return words, nil
}

// ParseChunks reads either a bare chunk array or an object with a
// "chunks" array, the shape speech pipelines return.
func ParseChunks(r io.Reader) ([]Chunk, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read chunks: %w", err)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: malformed json", ErrInvalidChunk)
	}

	doc := gjson.ParseBytes(data)
	if doc.IsObject() {
		doc = doc.Get("chunks")
	}
	if !doc.IsArray() {
		return nil, fmt.Errorf("%w: expected a chunk array", ErrInvalidChunk)
	}

	var chunks []Chunk
	if err := json.Unmarshal([]byte(doc.Raw), &chunks); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidChunk, err)
	}
	return chunks, nil
}

func shiftChunks(chunks []Chunk, offset float64) []Chunk {
	out := make([]Chunk, len(chunks))
	for i, c := range chunks {
		ts := make([]*float64, len(c.Timestamp))
		for j, v := range c.Timestamp {
			if v != nil {
				shifted := *v + offset
				ts[j] = &shifted
			}
		}
		out[i] = Chunk{Text: c.Text, Timestamp: ts}
	}
	return out
}
