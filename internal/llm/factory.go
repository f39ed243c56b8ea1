package llm

import (
	"fmt"

	"github.com/askitmo/askitmo/internal/config"
)

// NewClient constructs the completion client selected by the configuration.
func NewClient(cfg *config.Config) (Client, error) {
	switch cfg.LLMProvider {
	case "", "yandex":
		return NewYandexClient(cfg.FolderID, cfg.APIKey, cfg.Model, cfg.Temperature)
	case "openai":
		return NewOpenAIClient(cfg.OpenAIAPIKey, cfg.Model, cfg.Temperature)
	case "anthropic":
		return NewAnthropicClient(cfg.AnthropicAPIKey, cfg.Model, cfg.Temperature)
	case "google":
		return NewGoogleAIClient(cfg.GoogleAPIKey, cfg.Model, cfg.Temperature)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLMProvider)
	}
}
