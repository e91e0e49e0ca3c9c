package deck

import (
	"fmt"
	"log/slog"
	"strings"

	"decksmith/internal/pptx"
	"decksmith/internal/structure"
)

// Report summarizes an assembly.
type Report struct {
	Added   int
	Skipped []string
}

// Assembler fills template layouts with structure content.
type Assembler struct {
	log *slog.Logger
}

// NewAssembler returns an Assembler that logs skipped slides to log.
func NewAssembler(log *slog.Logger) *Assembler {
	return &Assembler{log: log}
}

// Assemble appends one slide per SlideSpec whose layout exists in template and
// returns the serialized deck. Specs naming an unknown layout, or no layout at
// all, are skipped.
func (a *Assembler) Assemble(template []byte, s structure.Structure) ([]byte, Report, error) {
	var report Report
	p, err := pptx.Open(template)
	if err != nil {
		return nil, report, fmt.Errorf("open template: %w", err)
	}

	for i, spec := range s.Slides {
		if !spec.NamesLayout() {
			a.log.Warn("skipping slide without layout name", "index", i)
			report.Skipped = append(report.Skipped, spec.LayoutName)
			continue
		}
		layout, ok := p.Layout(spec.LayoutName)
		if !ok {
			a.log.Warn("skipping slide with unknown layout", "index", i, "layout", spec.LayoutName)
			report.Skipped = append(report.Skipped, spec.LayoutName)
			continue
		}
		fill(p.AddSlide(layout), spec.Content)
		report.Added++
	}

	out, err := p.Bytes()
	if err != nil {
		return nil, report, fmt.Errorf("save deck: %w", err)
	}
	return out, report, nil
}

// fill matches placeholders by name. Subtitle is checked before title on
// purpose: "Subtitle 2" also contains "title" and would otherwise get the title
// text.
func fill(slide *pptx.Slide, content structure.Content) {
	for _, ph := range slide.Placeholders() {
		name := strings.ToLower(ph.Name())
		switch {
		case strings.Contains(name, "subtitle"):
			if text, ok := content.Text("subtitle"); ok {
				ph.SetText(text)
			}
		case strings.Contains(name, "title"):
			if text, ok := content.Text("title"); ok {
				ph.SetText(text)
			}
		case strings.Contains(name, "body") || strings.Contains(name, "content"):
			if points, ok := content.Points(); ok {
				ph.SetParagraphs(points)
			}
		}
	}
}
