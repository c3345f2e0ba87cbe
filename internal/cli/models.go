package cli

import (
	"fmt"
	"slices"
	"strings"
)

var geminiModels = []string{
	"gemini-3-pro-preview",
	"gemini-3-flash-preview",
	"gemini-2.5-pro",
	"gemini-2.5-flash",
	"gemini-2.5-flash-lite",
}

var openAITranslationModels = []string{
	"o1", "o3-mini", "o1-pro", "o3",
	"gpt-5", "gpt-5-nano", "gpt-5-mini", "gpt-5-pro",
	"gpt-5.1", "gpt-5.2", "gpt-5.2-pro",
}

// word timestamps are only returned by whisper-1
var openAITranscriptionModels = []string{"whisper-1"}

var anthropicModels = []string{
	"claude-sonnet-4-5",
	"claude-opus-4-1",
	"claude-haiku-4-5",
}

// checkModel rejects models a provider is not known to support for the
// task unless override is set. An empty model selects the default.
func checkModel(task, provider, model string, override bool) error {
	if model == "" || override {
		return nil
	}

	var known []string
	switch {
	case provider == "gemini":
		known = geminiModels
	case provider == "openai" && task == "transcription":
		known = openAITranscriptionModels
	case provider == "openai":
		known = openAITranslationModels
	case provider == "anthropic":
		known = anthropicModels
	default:
		return fmt.Errorf("unsupported provider: %s", provider)
	}

	if slices.Contains(known, model) {
		return nil
	}
	return fmt.Errorf(
		"unsupported %s model %q for %s: valid models are %s (use --model-override to bypass)",
		provider, model, task, strings.Join(known, ", "),
	)
}
