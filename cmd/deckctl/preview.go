package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	gopresentation "github.com/VantageDataChat/GoPPT"
	"github.com/spf13/cobra"
)

func newPreviewCmd() *cobra.Command {
	var (
		outDir string
		width  int
	)
	cmd := &cobra.Command{
		Use:   "preview DECK",
		Short: "Render every slide of a deck to PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if width <= 0 {
				return errors.New("--width must be positive")
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}
			reader, err := gopresentation.NewReader(gopresentation.ReaderPowerPoint2007)
			if err != nil {
				return fmt.Errorf("new reader: %w", err)
			}
			pres, err := reader.Read(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			opts := gopresentation.DefaultRenderOptions()
			opts.Width = width

			var failed int
			for i := 0; i < pres.GetSlideCount(); i++ {
				outPath := filepath.Join(outDir, fmt.Sprintf("slide%02d.png", i+1))
				if err := pres.SaveSlideAsImage(i, outPath, opts); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "slide %d: %v\n", i+1, err)
					failed++
					continue
				}
				fmt.Fprintln(cmd.OutOrStdout(), outPath)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d slides failed to render", failed, pres.GetSlideCount())
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "preview", "Output directory")
	cmd.Flags().IntVar(&width, "width", 1920, "Image width in pixels")
	return cmd
}
