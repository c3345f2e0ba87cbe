package translate

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/mgpai22/captioner/internal/llmjson"
)

// parseResults extracts exactly expectedCount results from a model reply.
func parseResults(reply string, expectedCount int) ([]TranslationResult, error) {
	reply = llmjson.Clean(reply)

	results, err := extractTranslationResults(reply)
	if err != nil {
		return nil, fmt.Errorf(
			"failed to parse JSON response: %w (response: %s)",
			err,
			llmjson.Truncate(reply, 200),
		)
	}

	if len(results) != expectedCount {
		return nil, fmt.Errorf("expected %d results, got %d", expectedCount, len(results))
	}
	return results, nil
}

// extractTranslationResults takes the first array of {index, text}
// objects in text with at least one non-empty translation.
func extractTranslationResults(text string) ([]TranslationResult, error) {
	var results []TranslationResult
	_, ok := llmjson.FindArray(llmjson.FixEscapes(text), func(arr gjson.Result) bool {
		var candidate []TranslationResult
		if err := json.Unmarshal([]byte(arr.Raw), &candidate); err != nil {
			return false
		}
		if !anyText(candidate) {
			return false
		}
		results = candidate
		return true
	})
	if !ok {
		return nil, fmt.Errorf("no valid translation JSON found in response")
	}
	return results, nil
}

func anyText(results []TranslationResult) bool {
	for _, r := range results {
		if r.Text != "" {
			return true
		}
	}
	return false
}
