package provider

import (
	"fmt"

	"ai-interview/internal/config"
)

// New создает настроенного провайдера. Без провайдера возвращает nil, nil,
// nil Provider считается всегда недоступным
func New(cfg config.AIConfig) (Provider, error) {
	if err := cfg.ValidateConfig(); err != nil {
		return nil, err
	}
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return NewOpenAIClient(cfg.OpenAI), nil
	case config.ProviderAzure:
		client, err := NewAzOpenAIClient(cfg.Azure)
		if err != nil {
			return nil, err
		}
		return client, nil
	case config.ProviderNone:
		return nil, nil
	}
	return nil, fmt.Errorf("unknown AI provider %q", cfg.Provider)
}
