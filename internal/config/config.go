package config

import (
	"log/slog"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds runtime configuration.
type Config struct {
	// Server
	Port           int           `env:"PORT" envDefault:"5000"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"0s"` // 0 disables the per-request timeout
	CORSOrigins    []string      `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// Upload limits
	MaxUploadSize int64 `env:"MAX_UPLOAD_SIZE" envDefault:"33554432"` // 32MB in bytes

	// LLM
	LLMProvider        string        `env:"LLM_PROVIDER" envDefault:"gemini"` // "gemini" or "openai"
	LLMModel           string        `env:"LLM_MODEL"`                        // provider default when empty
	LLMTimeout         time.Duration `env:"LLM_TIMEOUT" envDefault:"0s"`
	OpenAIBaseURL      string        `env:"OPENAI_BASE_URL"`
	PromptTemplatePath string        `env:"PROMPT_TEMPLATE_PATH"`
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		slog.Warn("failed to parse env; using defaults where set", "err", err)
	}
	return cfg
}
