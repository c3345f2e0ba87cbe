package translate

import (
	"context"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type openAIChat struct {
	client openai.Client
	model  string
}

func newOpenAIChat(apiKey, model string) *openAIChat {
	return &openAIChat{client: openai.NewClient(option.WithAPIKey(apiKey)), model: model}
}

func (o *openAIChat) complete(ctx context.Context, prompt string) (string, error) {
	completion, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    o.model,
		Messages: []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt)},
	})
	if err != nil {
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", nil
	}
	return completion.Choices[0].Message.Content, nil
}
