package app

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"decksmith/internal/config"
	"decksmith/internal/deck"
	"decksmith/internal/generator"
	"decksmith/internal/llm"
	"decksmith/internal/logger"
	"decksmith/internal/structure"
)

// Deps bundles common runtime dependencies for the server and the CLI.
type Deps struct {
	Config    config.Config
	Log       *slog.Logger
	Generator *generator.Service
}

// Build loads env, config, and shared components, logging to stdout.
func Build() (Deps, error) {
	return BuildWithOutput(os.Stdout)
}

// BuildWithOutput is Build with logs written to w. A missing .env file is not an error.
func BuildWithOutput(w io.Writer) (Deps, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Deps{}, fmt.Errorf("failed to load environment variables: %w", err)
	}
	cfg := config.Load()
	log := logger.NewWithWriter(w, cfg.LogLevel)

	gen, err := buildGenerator(cfg, log)
	if err != nil {
		return Deps{}, err
	}
	return Deps{
		Config:    cfg,
		Log:       log,
		Generator: gen,
	}, nil
}

func buildGenerator(cfg config.Config, log *slog.Logger) (*generator.Service, error) {
	factory, err := buildLLM(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM: %w", err)
	}
	prompt, err := structure.LoadPrompt(cfg.PromptTemplatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load prompt template: %w", err)
	}
	if cfg.PromptTemplatePath != "" {
		log.Info("using custom prompt template", "path", cfg.PromptTemplatePath)
	}
	return generator.New(factory, structure.NewRequester(prompt, log), deck.NewAssembler(log), log), nil
}

func buildLLM(cfg config.Config, log *slog.Logger) (llm.Factory, error) {
	opts := llm.Options{Model: cfg.LLMModel, Timeout: cfg.LLMTimeout}
	switch cfg.LLMProvider {
	case "gemini":
		if opts.Model == "" {
			opts.Model = llm.DefaultGeminiModel
		}
		log.Info("using Gemini LLM client", "model", opts.Model)
	case "openai":
		opts.BaseURL = cfg.OpenAIBaseURL
		log.Info("using OpenAI LLM client", "model", opts.Model, "base_url", opts.BaseURL)
	}
	return llm.NewFactory(cfg.LLMProvider, opts)
}
