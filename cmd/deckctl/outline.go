package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"decksmith/internal/pptx"
)

func newOutlineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "outline DECK",
		Short: "Print the slides, placeholders and paragraphs of a deck",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			p, err := pptx.Open(data)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, s := range p.Slides() {
				fmt.Fprintf(out, "%d. %s\n", i+1, s.LayoutName())
				for _, ph := range s.Placeholders() {
					fmt.Fprintf(out, "   %s [%s]\n", ph.Name(), ph.PlaceholderType())
					for _, para := range ph.Paragraphs() {
						if para == "" {
							continue
						}
						fmt.Fprintf(out, "     - %s\n", strings.ReplaceAll(para, "\v", " / "))
					}
				}
			}
			return nil
		},
	}
}
