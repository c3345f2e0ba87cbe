package transcribe

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/tidwall/gjson"

	"github.com/mgpai22/captioner/internal/audio"
	"github.com/mgpai22/captioner/internal/timeline"
)

// implements Session using the OpenAI Audio API
type OpenAISession struct {
	client  openai.Client
	model   string
	options Options
	pool    *pool

	loadMu sync.Mutex
	loaded bool
}

func NewOpenAISession(
	ctx context.Context,
	apiKey string,
	opts Options,
) (*OpenAISession, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client := openai.NewClient(option.WithAPIKey(apiKey))

	model := opts.Model
	if model == "" {
		model = "whisper-1"
	}

	return &OpenAISession{
		client:  client,
		model:   model,
		options: opts,
		pool:    newPool(opts),
	}, nil
}

func (s *OpenAISession) Load(ctx context.Context) error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	if s.loaded {
		return nil
	}
	if _, err := s.client.Models.Get(ctx, s.model); err != nil {
		return fmt.Errorf("failed to load model %s: %w", s.model, err)
	}
	s.loaded = true
	return nil
}

func (s *OpenAISession) Transcribe(
	ctx context.Context,
	pcm *audio.PCM,
	language string,
) (*Result, error) {
	if err := s.Load(ctx); err != nil {
		return nil, err
	}
	return s.pool.run(ctx, pcm, languageHint(language), s.transcribeWindow)
}

func (s *OpenAISession) transcribeWindow(
	ctx context.Context,
	pcm *audio.PCM,
	language string,
) ([]Chunk, string, error) {
	file, err := writeTempWAV(pcm)
	if err != nil {
		return nil, "", err
	}
	defer func() {
		file.Close()
		os.Remove(file.Name())
	}()

	params := openai.AudioTranscriptionNewParams{
		File:                   file,
		Model:                  openai.AudioModel(s.model),
		ResponseFormat:         openai.AudioResponseFormatVerboseJSON,
		TimestampGranularities: []string{"word", "segment"},
	}

	if language != "" {
		params.Language = openai.String(language)
	}

	if s.options.Prompt != "" {
		params.Prompt = openai.String(s.options.Prompt)
	}

	resp, err := s.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return nil, "", fmt.Errorf("transcription failed: %w", err)
	}

	return parseVerboseWords(resp.RawJSON(), pcm.Duration().Seconds())
}

// parseVerboseWords reads word timings from a verbose_json response. When
// the response has no word list, segment text is spread over each
// segment, and as a last resort the full text over the window.
func parseVerboseWords(rawJSON string, fallbackDuration float64) ([]Chunk, string, error) {
	if rawJSON == "" {
		return nil, "", fmt.Errorf("empty response")
	}
	if !gjson.Valid(rawJSON) {
		return nil, "", fmt.Errorf("failed to parse verbose_json response")
	}

	doc := gjson.Parse(rawJSON)
	language := doc.Get("language").String()

	var chunks []Chunk
	doc.Get("words").ForEach(func(_, w gjson.Result) bool {
		text := strings.TrimSpace(w.Get("word").String())
		if text != "" {
			chunks = append(chunks, NewChunk(text, w.Get("start").Float(), w.Get("end").Float()))
		}
		return true
	})
	if len(chunks) > 0 {
		return chunks, language, nil
	}

	doc.Get("segments").ForEach(func(_, seg gjson.Result) bool {
		chunks = append(chunks, spread(
			seg.Get("text").String(),
			seg.Get("start").Float(),
			seg.Get("end").Float(),
		)...)
		return true
	})
	if len(chunks) > 0 {
		return chunks, language, nil
	}

	text := doc.Get("text").String()
	if strings.TrimSpace(text) == "" {
		return nil, language, fmt.Errorf("no words, segments or text in response")
	}
	duration := fallbackDuration
	if d := doc.Get("duration").Float(); d > 0 {
		duration = d
	}
	return spread(text, 0, duration), language, nil
}

func spread(text string, start, end float64) []Chunk {
	words := timeline.Retime(start, end, strings.Fields(text))
	chunks := make([]Chunk, len(words))
	for i, w := range words {
		chunks[i] = NewChunk(w.Text, w.Start, w.End)
	}
	return chunks
}

func writeTempWAV(pcm *audio.PCM) (*os.File, error) {
	file, err := os.CreateTemp("", "captioner-window-*.wav")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp audio: %w", err)
	}
	if err := audio.EncodeWAV(file, pcm); err != nil {
		file.Close()
		os.Remove(file.Name())
		return nil, err
	}
	if _, err := file.Seek(0, 0); err != nil {
		file.Close()
		os.Remove(file.Name())
		return nil, fmt.Errorf("failed to rewind temp audio: %w", err)
	}
	return file, nil
}

func (s *OpenAISession) Close() error {
	return nil
}
