package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"decksmith/internal/deck"
)

type layoutsOutput struct {
	Template string   `json:"template" yaml:"template"`
	Layouts  []string `json:"layouts" yaml:"layouts"`
}

func newLayoutsCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "layouts TEMPLATE",
		Short: "List the slide layouts a template offers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			names, err := deck.Inspect(data)
			if err != nil {
				return fmt.Errorf("analyze %s: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			switch format {
			case "text":
				for _, name := range names {
					fmt.Fprintln(out, name)
				}
				return nil
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(layoutsOutput{Template: args[0], Layouts: names})
			case "yaml":
				enc := yaml.NewEncoder(out)
				defer enc.Close()
				return enc.Encode(layoutsOutput{Template: args[0], Layouts: names})
			default:
				return fmt.Errorf("unknown format %q (valid: text, json, yaml)", format)
			}
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, json, yaml")
	return cmd
}
