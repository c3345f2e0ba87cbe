package translate

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

type geminiChat struct {
	client *genai.Client
	model  string
}

func newGeminiChat(ctx context.Context, apiKey, model string) (*geminiChat, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &geminiChat{client: client, model: model}, nil
}

func (g *geminiChat) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}
