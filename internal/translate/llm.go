package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// chatModel sends one prompt to a hosted model and returns its reply.
type chatModel interface {
	complete(ctx context.Context, prompt string) (string, error)
}

var defaultModels = map[Provider]string{
	ProviderGemini:    "gemini-2.5-flash",
	ProviderOpenAI:    "gpt-5-mini",
	ProviderAnthropic: "claude-haiku-4-5",
}

var errEmptyReply = errors.New("model returned no text")

// LLMTranslator translates caption lines in batches through a chat model.
// It is safe for concurrent use.
type LLMTranslator struct {
	provider Provider
	model    string
	opts     Options
	chat     chatModel
	batches  *batcher
}

// New connects to provider and returns a translator using opts.Model, or
// the provider's default model when empty.
func New(ctx context.Context, provider Provider, apiKey string, opts Options) (*LLMTranslator, error) {
	if strings.TrimSpace(opts.TargetLanguage) == "" {
		return nil, fmt.Errorf("target language is required")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%s: API key is required", provider)
	}

	model := opts.Model
	if model == "" {
		model = defaultModels[provider]
	}

	var (
		chat chatModel
		err  error
	)
	switch provider {
	case ProviderGemini:
		chat, err = newGeminiChat(ctx, apiKey, model)
	case ProviderOpenAI:
		chat = newOpenAIChat(apiKey, model)
	case ProviderAnthropic:
		chat = newAnthropicChat(apiKey, model)
	default:
		return nil, fmt.Errorf("unsupported translation provider: %s", provider)
	}
	if err != nil {
		return nil, err
	}

	t := &LLMTranslator{provider: provider, model: model, opts: opts, chat: chat}
	t.batches = newBatcher(opts, t.translateBatch)
	return t, nil
}

func (t *LLMTranslator) Provider() Provider { return t.provider }

func (t *LLMTranslator) Model() string { return t.model }

func (t *LLMTranslator) Translate(ctx context.Context, items []TranslationItem) ([]TranslationResult, error) {
	return t.batches.run(ctx, items, 1)
}

// TranslateWithConcurrency sends up to concurrency batches at once.
func (t *LLMTranslator) TranslateWithConcurrency(
	ctx context.Context,
	items []TranslationItem,
	concurrency int,
) ([]TranslationResult, error) {
	return t.batches.run(ctx, items, concurrency)
}

func (t *LLMTranslator) translateBatch(ctx context.Context, items []TranslationItem) ([]TranslationResult, error) {
	reply, err := t.chat.complete(ctx, BuildPrompt(t.opts, items))
	if err != nil {
		return nil, fmt.Errorf("%s translation failed: %w", t.provider, err)
	}
	if strings.TrimSpace(reply) == "" {
		return nil, fmt.Errorf("%s: %w", t.provider, errEmptyReply)
	}
	return parseResults(reply, len(items))
}
