package llm

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	yandexBaseURL      = "https://llm.api.cloud.yandex.net/v1"
	defaultYandexModel = "yandexgpt"
	defaultOpenAIModel = "gpt-4o-mini"
)

// openAICompatibleClient talks to any chat-completions endpoint supported by
// the OpenAI SDK. Both the OpenAI and YandexGPT backends run through it.
type openAICompatibleClient struct {
	client      openai.Client
	model       string
	temperature float64
}

// NewYandexClient creates a client for YandexGPT via the OpenAI-compatible
// endpoint of the Yandex Cloud Foundation Models API. The model is addressed
// by URI, which embeds the cloud folder id.
func NewYandexClient(folderID, apiKey, model string, temperature float64) (Client, error) {
	if strings.TrimSpace(folderID) == "" {
		return nil, fmt.Errorf("yandex client requires a folder id")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("yandex client requires an API key")
	}
	if strings.TrimSpace(model) == "" {
		model = defaultYandexModel
	}

	client := openai.NewClient(
		option.WithBaseURL(yandexBaseURL),
		option.WithAPIKey(apiKey),
		// Yandex Cloud authenticates service API keys with a custom scheme.
		option.WithHeader("Authorization", "Api-Key "+apiKey),
	)

	return &openAICompatibleClient{
		client:      client,
		model:       fmt.Sprintf("gpt://%s/%s/latest", folderID, model),
		temperature: temperature,
	}, nil
}

// NewOpenAIClient creates a client for the OpenAI chat completions API.
func NewOpenAIClient(apiKey, model string, temperature float64) (Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("openai client requires an API key")
	}
	if strings.TrimSpace(model) == "" || model == defaultYandexModel {
		model = defaultOpenAIModel
	}

	return &openAICompatibleClient{
		client:      openai.NewClient(option.WithAPIKey(apiKey)),
		model:       model,
		temperature: temperature,
	}, nil
}

func (c *openAICompatibleClient) ModelName() string {
	return c.model
}

func (c *openAICompatibleClient) Complete(ctx context.Context, prompt string) (*CompletionResponse, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(c.temperature),
	})
	if err != nil {
		return nil, fmt.Errorf("completion failed: %w", err)
	}

	out := &CompletionResponse{}
	for _, choice := range resp.Choices {
		out.Alternatives = append(out.Alternatives, Alternative{Text: choice.Message.Content})
	}
	return out, nil
}
