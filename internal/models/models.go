package models

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/adk/model"
	"google.golang.org/genai"
)

// Provider names a model vendor.
type Provider string

const (
	ProviderGemini     Provider = "gemini"
	ProviderOpenAI     Provider = "openai"
	ProviderGrok       Provider = "grok"
	ProviderOpenRouter Provider = "openrouter"
)

// ParseProvider normalizes a provider name.
func ParseProvider(name string) (Provider, error) {
	switch p := Provider(strings.ToLower(strings.TrimSpace(name))); p {
	case ProviderGemini, ProviderOpenAI, ProviderGrok, ProviderOpenRouter:
		return p, nil
	default:
		return "", fmt.Errorf("unknown llm provider %q", name)
	}
}

// New builds the chat model for provider.
func New(ctx context.Context, provider Provider, modelName, apiKey string) (model.LLM, error) {
	cfg := &genai.ClientConfig{APIKey: apiKey}
	switch provider {
	case ProviderGemini:
		return NewGeminiModel(ctx, modelName, cfg)
	case ProviderOpenAI:
		return NewOpenAIModel(ctx, modelName, cfg)
	case ProviderGrok:
		return NewGrokModel(ctx, modelName, cfg)
	case ProviderOpenRouter:
		return NewOpenRouterModel(ctx, modelName, cfg)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", provider)
	}
}
