package llm

import (
	"context"
	"errors"
)

// ErrEmptyResponse is returned when the provider answered without any text.
var ErrEmptyResponse = errors.New("llm: empty response")

// Client is a minimal LLM interface to allow pluggable providers.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Factory builds a Client for a caller-supplied credential. Credentials arrive
// with each request, so clients are not shared between requests.
type Factory interface {
	New(ctx context.Context, apiKey string) (Client, error)
}

// FactoryFunc adapts a function to Factory.
type FactoryFunc func(ctx context.Context, apiKey string) (Client, error)

func (f FactoryFunc) New(ctx context.Context, apiKey string) (Client, error) {
	return f(ctx, apiKey)
}
