package structure

import (
	"context"
	"fmt"
	"log/slog"

	"decksmith/internal/llm"
)

// Request is the input of one structure request.
type Request struct {
	Text     string
	Guidance string
	Layouts  []string
}

// Requester turns source text into a Structure with a single model call.
type Requester struct {
	prompt *Prompt
	log    *slog.Logger
}

// NewRequester returns a Requester. A nil prompt uses DefaultPrompt.
func NewRequester(prompt *Prompt, log *slog.Logger) *Requester {
	if prompt == nil {
		prompt = DefaultPrompt()
	}
	return &Requester{prompt: prompt, log: log}
}

// Request sends the rendered prompt to client and parses the reply. No retry is
// attempted.
func (r *Requester) Request(ctx context.Context, client llm.Client, req Request) (Structure, error) {
	prompt, err := r.prompt.Render(PromptData(req))
	if err != nil {
		return Structure{}, err
	}
	reply, err := client.Generate(ctx, prompt)
	if err != nil {
		return Structure{}, fmt.Errorf("model call: %w", err)
	}
	s, err := Parse(reply)
	if err != nil {
		r.log.Debug("unparseable model reply", "reply_bytes", len(reply))
		return Structure{}, err
	}
	r.log.Debug("structure received", "slides", len(s.Slides))
	return s, nil
}
