package llm

import (
	"context"
	"fmt"
	"strings"

	genai "google.golang.org/genai"
)

const defaultGoogleModel = "gemini-2.0-flash"

// GoogleGenAIClient implements the Client interface using the official
// Google GenAI SDK.
type GoogleGenAIClient struct {
	client      *genai.Client
	model       string
	temperature float64
}

// NewGoogleAIClient creates a Google GenAI client for the provided model.
func NewGoogleAIClient(apiKey, model string, temperature float64) (Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("google client requires an API key")
	}
	if strings.TrimSpace(model) == "" || model == defaultYandexModel {
		model = defaultGoogleModel
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Google GenAI client: %w", err)
	}

	return &GoogleGenAIClient{
		client:      client,
		model:       model,
		temperature: temperature,
	}, nil
}

func (c *GoogleGenAIClient) ModelName() string {
	return c.model
}

func (c *GoogleGenAIClient) Complete(ctx context.Context, prompt string) (*CompletionResponse, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(c.temperature)),
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), cfg)
	if err != nil {
		return nil, fmt.Errorf("google genai completion failed: %w", err)
	}

	out := &CompletionResponse{}
	if resp == nil {
		return out, nil
	}
	for _, candidate := range resp.Candidates {
		text := collectTextFromContent(candidate.Content)
		if text == "" {
			continue
		}
		out.Alternatives = append(out.Alternatives, Alternative{Text: text})
	}
	return out, nil
}

func collectTextFromContent(content *genai.Content) string {
	if content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range content.Parts {
		if part == nil {
			continue
		}
		if part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}
