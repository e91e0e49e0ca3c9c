package llm

import (
	"context"
	"fmt"
	"time"
)

// Options configures the clients a provider factory builds.
type Options struct {
	Model   string
	BaseURL string
	// Timeout bounds a single model call. Zero leaves only the caller's deadline.
	Timeout time.Duration
}

// NewFactory returns the Factory for a provider name: "gemini" or "openai".
func NewFactory(provider string, opts Options) (Factory, error) {
	switch provider {
	case "gemini":
		return FactoryFunc(func(ctx context.Context, apiKey string) (Client, error) {
			return NewGeminiClient(ctx, apiKey, opts)
		}), nil
	case "openai":
		return FactoryFunc(func(_ context.Context, apiKey string) (Client, error) {
			return NewOpenAIClient(apiKey, opts)
		}), nil
	default:
		return nil, fmt.Errorf("invalid LLM_PROVIDER: %s (valid options: gemini, openai)", provider)
	}
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
