// Package deck reads slide layouts from templates and assembles generated decks.
package deck

import (
	"errors"
	"fmt"

	"decksmith/internal/pptx"
)

// ErrNoLayouts is returned when a template declares no slide layouts.
var ErrNoLayouts = errors.New("deck: template has no slide layouts")

// Inspect returns the layout names of the template's first slide master in the
// order the template declares them.
func Inspect(template []byte) ([]string, error) {
	p, err := pptx.Open(template)
	if err != nil {
		return nil, fmt.Errorf("open template: %w", err)
	}
	layouts := p.Layouts()
	if len(layouts) == 0 {
		return nil, ErrNoLayouts
	}
	names := make([]string, len(layouts))
	for i, l := range layouts {
		names[i] = l.Name()
	}
	return names, nil
}
