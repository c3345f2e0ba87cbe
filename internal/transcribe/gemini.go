package transcribe

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/tidwall/gjson"
	"google.golang.org/genai"

	"github.com/mgpai22/captioner/internal/audio"
	"github.com/mgpai22/captioner/internal/llmjson"
)

// implements Session using Google Gemini
type GeminiSession struct {
	client  *genai.Client
	model   string
	options Options
	pool    *pool

	loadMu sync.Mutex
	loaded bool
}

// word entry from Gemini's JSON response
type wordEntry struct {
	Start float64
	End   float64
	Text  string
}

// wordListSchema constrains replies to [{start, end, text}].
var wordListSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"start": {Type: genai.TypeNumber, Description: "seconds from the start of the audio"},
			"end":   {Type: genai.TypeNumber, Description: "seconds from the start of the audio"},
			"text":  {Type: genai.TypeString, Description: "the word with attached punctuation"},
		},
		Required:         []string{"start", "end", "text"},
		PropertyOrdering: []string{"start", "end", "text"},
	},
}

func NewGeminiSession(ctx context.Context, apiKey string, opts Options) (*GeminiSession, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := opts.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}

	return &GeminiSession{
		client:  client,
		model:   model,
		options: opts,
		pool:    newPool(opts),
	}, nil
}

func (s *GeminiSession) Load(ctx context.Context) error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	if s.loaded {
		return nil
	}
	if _, err := s.client.Models.Get(ctx, s.model, nil); err != nil {
		return fmt.Errorf("failed to load model %s: %w", s.model, err)
	}
	s.loaded = true
	return nil
}

func (s *GeminiSession) Transcribe(ctx context.Context, pcm *audio.PCM, language string) (*Result, error) {
	if err := s.Load(ctx); err != nil {
		return nil, err
	}
	return s.pool.run(ctx, pcm, languageHint(language), s.transcribeWindow)
}

func (s *GeminiSession) transcribeWindow(ctx context.Context, pcm *audio.PCM, language string) ([]Chunk, string, error) {
	wav, err := pcm.WAV()
	if err != nil {
		return nil, "", err
	}

	parts := []*genai.Part{
		genai.NewPartFromText(s.buildTranscriptionPrompt(language, pcm.Duration().Seconds())),
		genai.NewPartFromBytes(wav, "audio/wav"),
	}
	result, err := s.client.Models.GenerateContent(ctx, s.model,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)},
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   wordListSchema,
		})
	if err != nil {
		return nil, "", fmt.Errorf("transcription failed: %w", err)
	}

	text := result.Text()
	if strings.TrimSpace(text) == "" {
		return nil, "", fmt.Errorf("no text in Gemini response")
	}

	entries, err := extractWordEntries(llmjson.Clean(text))
	if err != nil {
		return nil, "", fmt.Errorf("failed to parse transcription: %w", err)
	}

	chunks := make([]Chunk, 0, len(entries))
	for _, e := range entries {
		chunks = append(chunks, NewChunk(strings.TrimSpace(e.Text), e.Start, e.End))
	}
	return chunks, language, nil
}

// creates the prompt for transcription
func (s *GeminiSession) buildTranscriptionPrompt(language string, duration float64) string {
	var sb strings.Builder

	sb.WriteString("Generate a word-level transcript of this audio. ")
	sb.WriteString("For every spoken word, provide the start timestamp, end timestamp, and the word itself with any attached punctuation. ")
	sb.WriteString("Format your response as a JSON array with objects containing 'start', 'end', and 'text' fields, ")
	sb.WriteString("where 'start' and 'end' are timestamps in seconds (as numbers). ")
	fmt.Fprintf(&sb, "The audio is %.2f seconds long. ", duration)

	if language != "" {
		fmt.Fprintf(&sb, "The audio is in %s. ", language)
	}

	if s.options.Prompt != "" {
		sb.WriteString(s.options.Prompt)
		sb.WriteString(" ")
	}

	sb.WriteString("Return ONLY the JSON array, no other text or markdown formatting.")

	return sb.String()
}

// extractWordEntries finds the first JSON array of word objects in s,
// skipping prose around it and unwrapping objects that hold the array
// under any key.
func extractWordEntries(s string) ([]wordEntry, error) {
	var entries []wordEntry
	_, ok := llmjson.FindArray(s, func(arr gjson.Result) bool {
		found, ok := toEntries(arr)
		if ok && validateEntries(found) {
			entries = found
			return true
		}
		return false
	})
	if !ok {
		return nil, fmt.Errorf("no word array in response (response: %s)", llmjson.Truncate(s, 200))
	}
	return entries, nil
}

func toEntries(arr gjson.Result) ([]wordEntry, bool) {
	items := arr.Array()
	if len(items) == 0 {
		return nil, false
	}

	entries := make([]wordEntry, 0, len(items))
	for _, item := range items {
		if !item.IsObject() {
			return nil, false
		}
		text := item.Get("text")
		if !text.Exists() {
			text = item.Get("word")
		}
		entries = append(entries, wordEntry{
			Start: item.Get("start").Float(),
			End:   item.Get("end").Float(),
			Text:  text.String(),
		})
	}
	return entries, true
}

// reports whether at least one entry carries data
func validateEntries(entries []wordEntry) bool {
	for _, e := range entries {
		if e.Text != "" || e.Start != 0 || e.End != 0 {
			return true
		}
	}
	return false
}

func (s *GeminiSession) Close() error {
	return nil
}
