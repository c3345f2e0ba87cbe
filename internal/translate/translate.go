package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// TranslationItem is one caption line sent for translation.
type TranslationItem struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

type TranslationResult struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

type Translator interface {
	Translate(
		ctx context.Context,
		items []TranslationItem,
	) ([]TranslationResult, error)
}

// ConcurrentTranslator spreads batches over parallel requests. Results
// come back ordered by index either way.
type ConcurrentTranslator interface {
	Translator
	TranslateWithConcurrency(
		ctx context.Context,
		items []TranslationItem,
		concurrency int,
	) ([]TranslationResult, error)
}

type Provider string

const (
	ProviderGemini    Provider = "gemini"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

func Providers() []Provider {
	return []Provider{ProviderGemini, ProviderOpenAI, ProviderAnthropic}
}

type Options struct {
	InputLanguage  string
	TargetLanguage string
	Model          string
	Prompt         string // appended to the built-in instructions
	BatchSize      int    // lines per request, DefaultBatchSize when zero

	// RequestsPerMinute throttles batch requests; zero disables it.
	RequestsPerMinute int
}

const DefaultBatchSize = 50

func (o Options) batchSize() int {
	if o.BatchSize > 0 {
		return o.BatchSize
	}
	return DefaultBatchSize
}

// Factory builds the translator for provider.
func Factory(
	ctx context.Context,
	provider Provider,
	apiKey string,
	opts Options,
) (Translator, error) {
	t, err := New(ctx, provider, apiKey, opts)
	if err != nil {
		return nil, err
	}
	return t, nil
}

var captionRules = []string{
	"Translate the meaning of each line; do not transliterate.",
	"Lines are spoken words shown on screen a few at a time, so keep each translation short and natural to say.",
	"Keep sentence-ending punctuation (. ! ?) wherever the source line has it.",
	"Never merge, split or drop lines: answer with exactly one object per input object.",
	"Copy every 'index' unchanged and put the translation in 'text'.",
	"Answer with the bare JSON array, without markdown fences or commentary.",
}

// BuildPrompt renders the request sent to every provider for one batch.
func BuildPrompt(opts Options, items []TranslationItem) string {
	var sb strings.Builder

	source := "caption lines"
	if opts.InputLanguage != "" {
		source = opts.InputLanguage + " caption lines"
	}
	fmt.Fprintf(&sb, "Translate these %s into %s.\n\nRules:\n", source, opts.TargetLanguage)
	for i, rule := range captionRules {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, rule)
	}
	if opts.Prompt != "" {
		fmt.Fprintf(&sb, "%d. %s\n", len(captionRules)+1, opts.Prompt)
	}

	lines, _ := json.Marshal(items)
	sb.WriteString("\nLines:\n")
	sb.Write(lines)
	sb.WriteString("\n")

	return sb.String()
}
