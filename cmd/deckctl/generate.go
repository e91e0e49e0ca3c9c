package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"decksmith/internal/app"
	"decksmith/internal/generator"
	"decksmith/internal/source"
)

const apiKeyEnv = "DECKSMITH_API_KEY"

// buildDeps is replaced in tests.
var buildDeps = app.BuildWithOutput

func newGenerateCmd() *cobra.Command {
	var (
		templatePath string
		textPath     string
		sourcePath   string
		guidance     string
		apiKey       string
		outPath      string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a deck from a template and a text file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if apiKey == "" {
				apiKey = os.Getenv(apiKeyEnv)
			}
			if apiKey == "" {
				return fmt.Errorf("an API key is required (--api-key or %s)", apiKeyEnv)
			}
			template, err := os.ReadFile(templatePath)
			if err != nil {
				return err
			}
			text, err := os.ReadFile(textPath)
			if err != nil {
				return err
			}
			if len(text) == 0 {
				return errors.New("text file is empty")
			}
			if sourcePath != "" {
				extra, err := readSource(sourcePath)
				if err != nil {
					return err
				}
				if extra != "" {
					text = append(text, "\n\n"+extra...)
				}
			}

			deps, err := buildDeps(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			res, err := deps.Generator.Generate(cmd.Context(), generator.Request{
				Template: template,
				Text:     string(text),
				Guidance: guidance,
				APIKey:   apiKey,
			})
			if err != nil {
				return err
			}
			if err := os.WriteFile(outPath, res.Deck, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s: %d slides (%d skipped), generation %s\n",
				outPath, res.Slides, len(res.Skipped), res.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&templatePath, "template", "", "Template .pptx or .potx file")
	cmd.Flags().StringVar(&textPath, "text-file", "", "File holding the source text")
	cmd.Flags().StringVar(&sourcePath, "source", "", "Optional PDF or text attachment appended to the text")
	cmd.Flags().StringVar(&guidance, "guidance", "", "Free-text guidance for tone and structure")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "Model API key (default $"+apiKeyEnv+")")
	cmd.Flags().StringVarP(&outPath, "out", "o", "generated_presentation.pptx", "Output file")
	_ = cmd.MarkFlagRequired("template")
	_ = cmd.MarkFlagRequired("text-file")
	return cmd
}

func readSource(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}
	return source.Extract(content)
}
