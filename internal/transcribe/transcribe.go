package transcribe

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mgpai22/captioner/internal/audio"
	"github.com/mgpai22/captioner/internal/logging"
)

// transcription result; chunk times are seconds from the start of the
// audio
type Result struct {
	Chunks   []Chunk
	Language string
	Duration time.Duration
}

// Session is a loaded speech-to-text model.
type Session interface {
	// Load checks that the model is reachable. Transcribe calls it
	// implicitly when needed.
	Load(ctx context.Context) error
	// Transcribe converts samples to word chunks. A language of "auto"
	// or "" lets the model detect it.
	Transcribe(ctx context.Context, pcm *audio.PCM, language string) (*Result, error)
	Close() error
}

// transcription service provider
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
)

func Providers() []Provider {
	return []Provider{ProviderOpenAI, ProviderGemini}
}

// transcription options
type Options struct {
	Model  string
	Prompt string

	// WindowSize splits long audio into independently transcribed windows.
	WindowSize time.Duration
	// Concurrency bounds in-flight window requests.
	Concurrency int
	// RequestsPerMinute throttles window requests; zero disables it.
	RequestsPerMinute int

	Logger *logging.Logger
}

const (
	DefaultWindowSize  = 30 * time.Second
	DefaultConcurrency = 3
)

// creates a session for the provider
func NewSession(
	ctx context.Context,
	provider Provider,
	apiKey string,
	opts Options,
) (Session, error) {
	switch provider {
	case ProviderGemini:
		return NewGeminiSession(ctx, apiKey, opts)
	case ProviderOpenAI:
		return NewOpenAISession(ctx, apiKey, opts)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

// languageHint maps "auto" to no hint
func languageHint(language string) string {
	lang := strings.ToLower(strings.TrimSpace(language))
	if lang == "auto" {
		return ""
	}
	return lang
}
