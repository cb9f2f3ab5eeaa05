package sentinel

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.0-flash"

// newGeminiCompleter binds a completeFunc to the Gemini API. Client
// construction can fail (unlike the other providers), so this returns an
// error for the caller to degrade on.
func newGeminiCompleter(ctx context.Context, apiKey, model string) (completeFunc, error) {
	if model == "" {
		model = defaultGeminiModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}

	return func(ctx context.Context, prompt string) (string, error) {
		resp, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), &genai.GenerateContentConfig{
			MaxOutputTokens: reportMaxTokens,
		})
		if err != nil {
			return "", err
		}
		text := strings.TrimSpace(resp.Text())
		if text == "" {
			return "", errors.New("empty response from model")
		}
		return text, nil
	}, nil
}
