package structure

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/template"
)

//go:embed prompt.tmpl
var defaultPromptText string

// Prompt renders the instruction sent to the model.
type Prompt struct {
	tmpl *template.Template
}

// PromptData is the input of a prompt template.
type PromptData struct {
	Text     string
	Guidance string
	Layouts  []string
}

var promptFuncs = template.FuncMap{
	"json": func(v any) (string, error) {
		b, err := json.Marshal(v)
		return string(b), err
	},
}

// DefaultPrompt returns the built-in prompt.
func DefaultPrompt() *Prompt {
	p, err := ParsePrompt(defaultPromptText)
	if err != nil {
		panic(err)
	}
	return p
}

// ParsePrompt parses a text/template prompt. The template receives PromptData
// and may use the "json" function.
func ParsePrompt(text string) (*Prompt, error) {
	tmpl, err := template.New("prompt").Funcs(promptFuncs).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse prompt template: %w", err)
	}
	return &Prompt{tmpl: tmpl}, nil
}

// LoadPrompt reads a prompt template from path. An empty path yields the default.
func LoadPrompt(path string) (*Prompt, error) {
	if path == "" {
		return DefaultPrompt(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prompt template: %w", err)
	}
	return ParsePrompt(string(b))
}

// Render executes the template.
func (p *Prompt) Render(data PromptData) (string, error) {
	if data.Layouts == nil {
		data.Layouts = []string{}
	}
	var b strings.Builder
	if err := p.tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return b.String(), nil
}
