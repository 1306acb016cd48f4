package config

import (
	"fmt"
	"strings"
)

// Значения AI_PROVIDER
const (
	ProviderOpenAI = "openai"
	ProviderAzure  = "azure"
	ProviderNone   = "none"
)

type AIConfig struct {
	Provider string
	OpenAI   OpenAIConfig
	Azure    AzureConfig
}

type OpenAIConfig struct {
	APIKey      string
	Model       string
	BaseURL     string
	MaxTokens   int
	Temperature float64
}

type AzureConfig struct {
	Endpoint   string
	APIKey     string
	Deployment string
}

// LoadAIConfig загружает настройки AI из переменных окружения.
// Без AI_PROVIDER провайдер определяется по заданным ключам
func LoadAIConfig() AIConfig {
	cfg := AIConfig{
		Provider: strings.ToLower(getEnv("AI_PROVIDER", "")),
		OpenAI: OpenAIConfig{
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			Model:       getEnv("OPENAI_MODEL", "gpt-4o"),
			BaseURL:     getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			MaxTokens:   getEnvAsInt("OPENAI_MAX_TOKENS", 2000),
			Temperature: getEnvAsFloat("OPENAI_TEMPERATURE", 0.2),
		},
		Azure: AzureConfig{
			Endpoint:   getEnv("AZURE_OPENAI_ENDPOINT", ""),
			APIKey:     getEnv("AZURE_OPENAI_API_KEY", ""),
			Deployment: getEnv("AZURE_OPENAI_DEPLOYMENT", ""),
		},
	}

	if cfg.Provider == "" {
		switch {
		case cfg.Azure.Endpoint != "" && cfg.Azure.APIKey != "":
			cfg.Provider = ProviderAzure
		case cfg.OpenAI.APIKey != "":
			cfg.Provider = ProviderOpenAI
		default:
			cfg.Provider = ProviderNone
		}
	}
	return cfg
}

// Enabled сообщает, нужно ли создавать провайдера
func (c *AIConfig) Enabled() bool {
	return c.Provider != ProviderNone
}

func (c *AIConfig) ValidateConfig() error {
	switch c.Provider {
	case ProviderNone:
		return nil
	case ProviderOpenAI:
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required")
		}
		if c.OpenAI.MaxTokens <= 0 {
			return fmt.Errorf("OPENAI_MAX_TOKENS must be positive")
		}
		if c.OpenAI.Temperature < 0 || c.OpenAI.Temperature > 2 {
			return fmt.Errorf("OPENAI_TEMPERATURE must be between 0 and 2")
		}
		return nil
	case ProviderAzure:
		if c.Azure.Endpoint == "" || c.Azure.APIKey == "" || c.Azure.Deployment == "" {
			return fmt.Errorf("AZURE_OPENAI_ENDPOINT, AZURE_OPENAI_API_KEY and AZURE_OPENAI_DEPLOYMENT are required")
		}
		return nil
	}
	return fmt.Errorf("AI_PROVIDER must be openai, azure or none, got %q", c.Provider)
}

// GetModelInfo возвращает информацию о провайдере для логов
func (c *AIConfig) GetModelInfo() map[string]interface{} {
	switch c.Provider {
	case ProviderOpenAI:
		return map[string]interface{}{
			"provider":    "OpenAI",
			"model":       c.OpenAI.Model,
			"max_tokens":  c.OpenAI.MaxTokens,
			"temperature": c.OpenAI.Temperature,
		}
	case ProviderAzure:
		return map[string]interface{}{
			"provider":   "Azure OpenAI",
			"endpoint":   c.Azure.Endpoint,
			"deployment": c.Azure.Deployment,
		}
	}
	return map[string]interface{}{"provider": "none"}
}
